package fetcher

import (
	"net/http"
)

// UserAgentFetcher 요청에 User-Agent 헤더가 없으면 지정된 값을 주입하는 미들웨어입니다.
type UserAgentFetcher struct {
	delegate  Fetcher
	userAgent string
}

var _ Fetcher = (*UserAgentFetcher)(nil)

// NewUserAgentFetcher 새로운 UserAgentFetcher를 생성합니다.
func NewUserAgentFetcher(delegate Fetcher, userAgent string) *UserAgentFetcher {
	return &UserAgentFetcher{
		delegate:  delegate,
		userAgent: userAgent,
	}
}

// Do User-Agent를 주입한 요청 복제본으로 HTTP 요청을 수행합니다.
// 호출자의 원본 요청 객체는 변경하지 않습니다.
func (f *UserAgentFetcher) Do(req *http.Request) (*http.Response, error) {
	if f.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return f.delegate.Do(req)
	}

	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", f.userAgent)

	return f.delegate.Do(clonedReq)
}
