package pushover

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/darkkaiser/pushover/internal/fetcher"
	"github.com/darkkaiser/pushover/internal/formdata"
	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/darkkaiser/pushover/internal/pkg/version"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// DefaultBaseURL Pushover API의 기본 주소입니다.
const DefaultBaseURL = "https://api.pushover.net"

// Options 클라이언트 생성 시 한 번 검증되고 이후 변경되지 않는 인증 정보입니다.
type Options struct {
	// APIToken 애플리케이션 API 토큰 (필수, 영문자와 숫자 30자)
	APIToken string

	// DefaultUserKey 수신자를 지정하지 않은 메시지를 받을 사용자 또는 그룹 키 (선택)
	DefaultUserKey string
}

// validate 공백을 제거한 값을 반환합니다.
// 기본 사용자 키는 메시지의 수신자 키와 달리 형식이 잘못되면 건너뛰지 않고 실패합니다.
func (o Options) validate() (Options, error) {
	token, err := ValidateAPIToken(o.APIToken)
	if err != nil {
		return Options{}, err
	}
	if token == "" {
		return Options{}, newArgumentError("API 토큰이 설정되지 않았습니다")
	}

	userKey, err := ValidateUserOrGroupKey(o.DefaultUserKey)
	if err != nil {
		return Options{}, err
	}

	return Options{APIToken: token, DefaultUserKey: userKey}, nil
}

// Doer HTTP 요청을 수행하는 인터페이스입니다. *http.Client가 이를 만족합니다.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	doer       Doer
	timeout    time.Duration

	userAgent string
	maxBytes  int64

	rateLimit rate.Limit
	rateBurst int

	registerer prometheus.Registerer
	boundary   string

	disableLogging bool
}

// ClientOption Client의 선택 설정을 변경하는 함수입니다.
type ClientOption func(*clientConfig)

// WithBaseURL API 주소를 변경합니다. 테스트 서버나 프록시를 사용할 때 지정합니다.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient 요청에 사용할 *http.Client를 지정합니다. WithFetcher가 함께 지정되면 무시됩니다.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout 기본 HTTP 클라이언트에 요청 하나당 제한 시간을 설정합니다. 기본값은 제한 없음입니다.
// WithFetcher가 함께 지정되면 무시됩니다.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithFetcher 요청을 수행할 Doer를 지정합니다. 로깅 등 클라이언트 기본 미들웨어는 그 바깥에 적용됩니다.
func WithFetcher(doer Doer) ClientOption {
	return func(c *clientConfig) {
		c.doer = doer
	}
}

// WithUserAgent User-Agent 헤더 값을 변경합니다. 기본값은 "pushover-go/<버전>"입니다.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithMaxResponseBytes 응답 본문의 최대 크기를 변경합니다. -1이면 제한하지 않습니다.
func WithMaxResponseBytes(n int64) ClientOption {
	return func(c *clientConfig) {
		c.maxBytes = n
	}
}

// WithRateLimit 초당 요청 수를 제한합니다. 한도를 넘은 요청은 대기하며 재시도는 하지 않습니다.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *clientConfig) {
		c.rateLimit = rate.Limit(perSecond)
		c.rateBurst = burst
	}
}

// WithMetrics 요청 수와 처리 시간 메트릭을 reg에 등록합니다.
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}

// WithMultipartBoundary 요청 본문의 multipart 경계 문자열을 고정합니다. 테스트에서 본문을 바이트 단위로 비교할 때 사용합니다.
func WithMultipartBoundary(boundary string) ClientOption {
	return func(c *clientConfig) {
		c.boundary = boundary
	}
}

// WithoutRequestLogging HTTP 요청 로그를 남기지 않습니다.
func WithoutRequestLogging() ClientOption {
	return func(c *clientConfig) {
		c.disableLogging = true
	}
}

func newClientConfig(opts []ClientOption) (*clientConfig, error) {
	cfg := &clientConfig{
		baseURL:   DefaultBaseURL,
		userAgent: version.UserAgent(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	u, err := url.Parse(strings.TrimSpace(cfg.baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, newArgumentError("API 주소가 올바르지 않습니다: %q", cfg.baseURL)
	}
	cfg.baseURL = strings.TrimRight(u.String(), "/")

	if cfg.boundary != "" {
		if err := formdata.ValidateBoundary(cfg.boundary); err != nil {
			return nil, apperrors.Wrapf(err, apperrors.InvalidArgument, "multipart 경계 문자열이 올바르지 않습니다: %q", cfg.boundary)
		}
	}

	return cfg, nil
}

// newFetcher 설정에 따라 Fetcher 체인을 구성합니다.
func (cfg *clientConfig) newFetcher() (fetcher.Fetcher, error) {
	var base fetcher.Fetcher
	switch {
	case cfg.doer != nil:
		base = cfg.doer
	default:
		var httpOpts []fetcher.Option
		if cfg.httpClient != nil {
			// 호출자가 전달한 *http.Client는 변경하지 않습니다.
			client := *cfg.httpClient
			httpOpts = append(httpOpts, fetcher.WithHTTPClient(&client))
		}
		if cfg.timeout > 0 {
			httpOpts = append(httpOpts, fetcher.WithTimeout(cfg.timeout))
		}
		base = fetcher.NewHTTPFetcher(httpOpts...)
	}

	var metrics *fetcher.Metrics
	if cfg.registerer != nil {
		m, err := fetcher.NewMetrics(cfg.registerer)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.System, "메트릭을 등록할 수 없습니다")
		}
		metrics = m
	}

	return fetcher.NewChain(base, fetcher.Config{
		UserAgent:      cfg.userAgent,
		MaxBytes:       cfg.maxBytes,
		RateLimit:      cfg.rateLimit,
		RateBurst:      cfg.rateBurst,
		Metrics:        metrics,
		DisableLogging: cfg.disableLogging,
	}), nil
}
