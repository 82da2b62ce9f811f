package fetcher

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitFetcher 초당 요청 수를 제한하는 미들웨어입니다.
//
// 한도를 초과한 요청은 토큰이 생길 때까지 대기하며, 대기 중 context가 취소되면
// 요청을 보내지 않고 context 에러를 반환합니다. 실패한 요청을 재시도하지는 않습니다.
type RateLimitFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

var _ Fetcher = (*RateLimitFetcher)(nil)

// NewRateLimitFetcher 새로운 RateLimitFetcher를 생성합니다.
// limit이 0 이하이면 제한 없이 delegate를 그대로 반환합니다.
func NewRateLimitFetcher(delegate Fetcher, limit rate.Limit, burst int) Fetcher {
	if limit <= 0 {
		return delegate
	}
	if burst <= 0 {
		burst = 1
	}

	return &RateLimitFetcher{
		delegate: delegate,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// Do 속도 제한 토큰을 획득한 뒤 HTTP 요청을 수행합니다.
func (f *RateLimitFetcher) Do(req *http.Request) (*http.Response, error) {
	if err := f.limiter.Wait(req.Context()); err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	return f.delegate.Do(req)
}
