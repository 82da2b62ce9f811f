package fetcher

import (
	"errors"
	"io"
	"net/http"
)

const (
	// DefaultMaxBytes 응답 본문의 기본 최대 크기입니다. Pushover API 응답은 수백 바이트 수준입니다.
	DefaultMaxBytes = 1 * 1024 * 1024

	// NoLimit 응답 본문 크기를 제한하지 않음을 나타냅니다.
	NoLimit = -1
)

// maxBytesReader http.MaxBytesReader가 반환하는 에러를 도메인 에러로 변환합니다.
type maxBytesReader struct {
	rc    io.ReadCloser
	limit int64
}

func (r *maxBytesReader) Read(p []byte) (n int, err error) {
	n, err = r.rc.Read(p)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return n, NewErrResponseBodyTooLarge(r.limit)
		}
	}

	return n, err
}

func (r *maxBytesReader) Close() error {
	return r.rc.Close()
}

// MaxBytesFetcher 응답 본문의 크기를 제한하는 미들웨어입니다.
//
// Content-Length가 제한을 넘으면 본문을 읽지 않고 즉시 에러를 반환하며,
// 그렇지 않은 경우 본문을 읽는 도중 제한을 넘는 시점에 에러를 반환합니다.
type MaxBytesFetcher struct {
	delegate Fetcher
	limit    int64
}

var _ Fetcher = (*MaxBytesFetcher)(nil)

// NewMaxBytesFetcher 새로운 MaxBytesFetcher를 생성합니다.
// limit이 NoLimit이면 delegate를 그대로 반환하고, 0 이하이면 DefaultMaxBytes를 사용합니다.
func NewMaxBytesFetcher(delegate Fetcher, limit int64) Fetcher {
	if limit == NoLimit {
		return delegate
	}
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	return &MaxBytesFetcher{
		delegate: delegate,
		limit:    limit,
	}
}

// Do HTTP 요청을 수행하고 응답 본문에 크기 제한을 적용합니다.
func (f *MaxBytesFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			DrainAndClose(resp.Body)
		}

		return nil, err
	}

	if resp.ContentLength > f.limit {
		DrainAndClose(resp.Body)

		return nil, NewErrResponseBodyTooLargeByContentLength(resp.ContentLength, f.limit)
	}

	if resp.Body != nil {
		resp.Body = &maxBytesReader{
			rc:    http.MaxBytesReader(nil, resp.Body, f.limit),
			limit: f.limit,
		}
	}

	return resp, nil
}
