package fetcher

import (
	"net/http"
	"time"

	applog "github.com/darkkaiser/pushover/pkg/log"
)

// LoggingFetcher HTTP 요청의 메서드, URL, 상태 코드, 소요 시간을 로그로 남기는 미들웨어입니다.
//
// URL은 RedactURL을 거쳐 API 토큰이 마스킹됩니다.
// 라이브러리 호출자의 로그를 어지럽히지 않도록 모든 기록은 Debug 레벨입니다.
// 에러를 처리하거나 변형하지 않고 호출자에게 그대로 돌려줍니다.
type LoggingFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*LoggingFetcher)(nil)

// NewLoggingFetcher 새로운 LoggingFetcher를 생성합니다.
func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{
		delegate: delegate,
	}
}

// Do HTTP 요청을 수행하고 결과를 로그로 기록합니다.
func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":   req.Method,
		"url":      RedactURL(req.URL),
		"duration": time.Since(start).String(),
	}
	if resp != nil {
		fields["status"] = resp.Status
		fields["status_code"] = resp.StatusCode
	}

	entry := applog.WithComponent(component).
		WithContext(req.Context()).
		WithFields(fields)

	if err != nil {
		entry.WithError(err).Debug("HTTP 요청 실패: 응답을 받지 못했습니다")
		return resp, err
	}

	entry.Debug("HTTP 요청 완료")

	return resp, nil
}
