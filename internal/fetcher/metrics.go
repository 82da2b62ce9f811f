package fetcher

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics Pushover API 호출에 대한 Prometheus 수집기 묶음입니다.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics 수집기를 생성하고 reg에 등록합니다. reg가 nil이면 등록하지 않습니다.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pushover",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Pushover API 요청 수 (엔드포인트, 결과 코드별)",
		}, []string{"endpoint", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pushover",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Pushover API 요청 처리 시간",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.requests, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// MetricsFetcher 요청 수와 처리 시간을 기록하는 미들웨어입니다.
type MetricsFetcher struct {
	delegate Fetcher
	metrics  *Metrics
}

var _ Fetcher = (*MetricsFetcher)(nil)

// NewMetricsFetcher 새로운 MetricsFetcher를 생성합니다. metrics가 nil이면 delegate를 그대로 반환합니다.
func NewMetricsFetcher(delegate Fetcher, metrics *Metrics) Fetcher {
	if metrics == nil {
		return delegate
	}

	return &MetricsFetcher{
		delegate: delegate,
		metrics:  metrics,
	}
}

// Do HTTP 요청을 수행하고 결과를 메트릭으로 기록합니다.
// 네트워크 에러로 응답이 없는 경우 code 레이블은 "error"입니다.
func (f *MetricsFetcher) Do(req *http.Request) (*http.Response, error) {
	endpoint := endpointLabel(req)
	start := time.Now()

	resp, err := f.delegate.Do(req)

	f.metrics.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	code := "error"
	if resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	f.metrics.requests.WithLabelValues(endpoint, code).Inc()

	return resp, err
}

// endpointLabel 카디널리티 폭증을 막기 위해 영수증 ID와 태그 값을 제거한 경로를 반환합니다.
//
//	/1/messages.json                       → messages
//	/1/users/validate.json                 → users.validate
//	/1/receipts/{id}.json                  → receipts
//	/1/receipts/{id}/cancel.json           → receipts.cancel
//	/1/receipts/cancel_by_tag/{tag}.json   → receipts.cancel_by_tag
func endpointLabel(req *http.Request) string {
	path := strings.TrimSuffix(strings.TrimPrefix(req.URL.Path, "/1/"), ".json")
	segments := strings.Split(path, "/")

	switch {
	case len(segments) == 0 || segments[0] == "":
		return "unknown"
	case segments[0] != "receipts":
		return strings.Join(segments, ".")
	case len(segments) >= 2 && segments[1] == "cancel_by_tag":
		return "receipts.cancel_by_tag"
	case len(segments) == 3 && segments[2] == "cancel":
		return "receipts.cancel"
	default:
		return "receipts"
	}
}
