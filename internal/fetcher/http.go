package fetcher

import (
	"net/http"
	"time"
)

// HTTPFetcher *http.Client를 사용하여 실제 네트워크 요청을 수행하는 기본 Fetcher입니다.
//
// 기본 설정에는 타임아웃이 없습니다. 요청의 수명은 호출자가 전달한 context로 제어합니다.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Option HTTPFetcher의 설정을 변경하는 함수입니다.
type Option func(*HTTPFetcher)

// WithHTTPClient 내부에서 사용할 *http.Client를 지정합니다.
func WithHTTPClient(client *http.Client) Option {
	return func(h *HTTPFetcher) {
		if client != nil {
			h.client = client
		}
	}
}

// WithTimeout 요청 전체에 적용되는 타임아웃을 설정합니다. 0이면 제한하지 않습니다.
func WithTimeout(timeout time.Duration) Option {
	return func(h *HTTPFetcher) {
		h.client.Timeout = timeout
	}
}

// NewHTTPFetcher 새로운 HTTPFetcher를 생성합니다.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	h := &HTTPFetcher{
		client: &http.Client{},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Do HTTP 요청을 전송합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}
