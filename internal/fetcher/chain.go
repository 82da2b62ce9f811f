package fetcher

import (
	"golang.org/x/time/rate"
)

// Config Fetcher 체인을 구성하기 위한 설정입니다.
type Config struct {
	// UserAgent 요청에 User-Agent 헤더가 없을 때 주입할 값입니다. 빈 값이면 주입하지 않습니다.
	UserAgent string

	// MaxBytes 응답 본문 최대 크기입니다. 0: DefaultMaxBytes, NoLimit(-1): 제한 없음
	MaxBytes int64

	// RateLimit 초당 허용 요청 수입니다. 0 이하이면 제한하지 않습니다.
	RateLimit rate.Limit
	// RateBurst 순간적으로 허용하는 최대 요청 수입니다.
	RateBurst int

	// Metrics nil이 아니면 요청 메트릭을 기록합니다.
	Metrics *Metrics

	DisableLogging bool
}

// NewChain base를 설정에 따라 데코레이터로 감싼 Fetcher를 반환합니다.
//
// 요청 처리 순서(바깥 → 안):
//
//	Logging → UserAgent → RateLimit → Metrics → MaxBytes → base
//
// 속도 제한 대기 시간은 Logging의 소요 시간에는 포함되지만 Metrics의 처리 시간에는 포함되지 않습니다.
func NewChain(base Fetcher, cfg Config) Fetcher {
	f := NewMaxBytesFetcher(base, cfg.MaxBytes)
	f = NewMetricsFetcher(f, cfg.Metrics)
	f = NewRateLimitFetcher(f, cfg.RateLimit, cfg.RateBurst)

	if cfg.UserAgent != "" {
		f = NewUserAgentFetcher(f, cfg.UserAgent)
	}

	if !cfg.DisableLogging {
		f = NewLoggingFetcher(f)
	}

	return f
}
