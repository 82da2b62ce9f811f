// Package fetcher Pushover API 호출에 사용되는 HTTP 전송 계층을 제공합니다.
//
// 기본 HTTPFetcher를 중심으로 로깅, User-Agent 주입, 응답 크기 제한, 요청 속도 제한,
// 메트릭 수집 기능을 데코레이터 형태로 겹겹이 감싸 구성합니다.
// 어떤 데코레이터도 요청을 재시도하지 않습니다.
package fetcher

import (
	"net/http"
)

// component 로깅 시 사용되는 컴포넌트 이름입니다.
const component = "pushover.fetcher"

// Fetcher HTTP 요청을 수행하는 인터페이스입니다.
// *http.Client도 이 인터페이스를 만족합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetcherFunc 일반 함수를 Fetcher로 사용할 수 있게 해주는 어댑터입니다.
type FetcherFunc func(req *http.Request) (*http.Response, error)

// Do f(req)를 호출합니다.
func (f FetcherFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

var (
	_ Fetcher = (*http.Client)(nil)
	_ Fetcher = FetcherFunc(nil)
)
