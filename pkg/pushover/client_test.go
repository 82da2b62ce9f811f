package pushover

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/pushover/internal/formdata"
	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedRequest 테스트 서버가 받은 요청입니다.
type capturedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	UserAgent   string
	Body        []byte
	Fields      []formdata.Field
}

// fakeAPI 고정된 응답을 돌려주고 받은 요청을 기록하는 테스트 서버입니다.
type fakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []capturedRequest

	statusCode int
	body       string
}

func newFakeAPI(t *testing.T, statusCode int, body string) *fakeAPI {
	t.Helper()

	f := &fakeAPI{statusCode: statusCode, body: body}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	captured := capturedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		RawQuery:    r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
		UserAgent:   r.Header.Get("User-Agent"),
	}
	captured.Body, _ = io.ReadAll(r.Body)

	if _, params, err := mime.ParseMediaType(captured.ContentType); err == nil && params["boundary"] != "" {
		mr := multipart.NewReader(bytes.NewReader(captured.Body), params["boundary"])
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			if p.FileName() == "" {
				v, _ := io.ReadAll(p)
				captured.Fields = append(captured.Fields, formdata.Field{Name: p.FormName(), Value: string(v)})
			}
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, captured)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(f.statusCode)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeAPI) Requests() []capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]capturedRequest(nil), f.requests...)
}

func (f *fakeAPI) lastRequest(t *testing.T) capturedRequest {
	t.Helper()

	reqs := f.Requests()
	require.NotEmpty(t, reqs, "서버가 요청을 받지 못했습니다")
	return reqs[len(reqs)-1]
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...ClientOption) *Client {
	t.Helper()

	opts = append([]ClientOption{
		WithBaseURL(api.server.URL),
		WithMultipartBoundary("abcdefg"),
		WithoutRequestLogging(),
	}, opts...)

	c, err := New(Options{APIToken: testToken, DefaultUserKey: testDefaultUser}, opts...)
	require.NoError(t, err)
	return c
}

// doerFunc 테스트에서 전송 계층을 대체합니다.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// timeoutError http.Client.Timeout 초과 시 반환되는 에러를 흉내 냅니다.
type timeoutError struct{}

func (timeoutError) Error() string   { return "Client.Timeout exceeded while awaiting headers" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func textPart(name, value string) string {
	return "--abcdefg\r\n" +
		"Content-Disposition: form-data; name=\"" + name + "\"\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		value + "\r\n"
}

const successBody = `{"status":1,"request":"` + testRequestID + `"}`

// =============================================================================
// New
// =============================================================================

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("토큰 누락", func(t *testing.T) {
		t.Parallel()

		c, err := New(Options{APIToken: "  "})
		assert.Nil(t, c)
		assert.True(t, IsArgumentError(err))
	})

	t.Run("토큰 형식 오류", func(t *testing.T) {
		t.Parallel()

		_, err := New(Options{APIToken: "short"})
		requireValidationError(t, err, "token", ReasonInvalidFormat)
	})

	t.Run("기본 사용자 키 형식 오류는 건너뛰지 않고 실패", func(t *testing.T) {
		t.Parallel()

		_, err := New(Options{APIToken: testToken, DefaultUserKey: "not-a-key"})
		requireValidationError(t, err, "user", ReasonInvalidFormat)
	})

	t.Run("잘못된 API 주소", func(t *testing.T) {
		t.Parallel()

		for _, u := range []string{"", "api.pushover.net", "ftp://api.pushover.net", "http://"} {
			_, err := New(Options{APIToken: testToken}, WithBaseURL(u))
			assert.True(t, IsArgumentError(err), "주소 %q", u)
		}
	})

	t.Run("잘못된 경계 문자열", func(t *testing.T) {
		t.Parallel()

		_, err := New(Options{APIToken: testToken}, WithMultipartBoundary(strings.Repeat("b", 71)))
		assert.True(t, IsArgumentError(err))
	})

	t.Run("메트릭 중복 등록", func(t *testing.T) {
		t.Parallel()

		reg := prometheus.NewRegistry()
		_, err := New(Options{APIToken: testToken}, WithMetrics(reg))
		require.NoError(t, err)

		_, err = New(Options{APIToken: testToken}, WithMetrics(reg))
		assert.True(t, apperrors.Is(err, apperrors.System))
	})

	t.Run("공백 제거 및 주소 정규화", func(t *testing.T) {
		t.Parallel()

		c, err := New(Options{APIToken: " " + testToken + " "}, WithBaseURL("https://example.com/"))
		require.NoError(t, err)
		assert.Equal(t, testToken, c.token)
		assert.Empty(t, c.defaultUserKey)
		assert.Equal(t, "https://example.com", c.baseURL)
	})
}

// =============================================================================
// SendMessage
// =============================================================================

func TestClient_SendMessage_DefaultUser(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, successBody)
	c := newTestClient(t, api)

	resp, err := c.SendMessage(context.Background(), func(b *MessageBuilder) {
		b.WithMessage("Hello world!")
	})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, uuid.MustParse(testRequestID), resp.Request)

	req := api.lastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/1/messages.json", req.Path)
	assert.Equal(t, "multipart/form-data; boundary=abcdefg", req.ContentType)
	assert.True(t, strings.HasPrefix(req.UserAgent, "pushover-go/"), req.UserAgent)

	expected := textPart("token", testToken) +
		textPart("user", testDefaultUser) +
		textPart("message", "Hello world!") +
		"--abcdefg--\r\n"
	assert.Equal(t, expected, string(req.Body))
}

func TestClient_SendMessage_Emergency(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, `{"status":1,"request":"`+testRequestID+`","receipt":"rLqVuqTRh62UzxtmqiaLzQmVcPgiCy"}`)
	c := newTestClient(t, api)

	resp, err := c.SendMessage(context.Background(), func(b *MessageBuilder) {
		b.WithMessage("서버 응답 없음").WithEmergencyPriority(30*time.Second, 600*time.Second, "https://callback")
	})
	require.NoError(t, err)
	assert.Equal(t, "rLqVuqTRh62UzxtmqiaLzQmVcPgiCy", resp.Receipt)

	assert.Equal(t, []formdata.Field{
		{Name: "token", Value: testToken},
		{Name: "user", Value: testDefaultUser},
		{Name: "message", Value: "서버 응답 없음"},
		{Name: "priority", Value: "2"},
		{Name: "retry", Value: "30"},
		{Name: "expire", Value: "600"},
		{Name: "callback", Value: "https://callback"},
	}, api.lastRequest(t).Fields)
}

func TestClient_SendMessage_APIError(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusBadRequest, `{"status":0,"request":"`+testRequestID+`","errors":["invalid token"]}`)
	c := newTestClient(t, api)

	resp, err := c.SendText(context.Background(), "hello")
	assert.Nil(t, resp)
	require.Error(t, err)

	var apiErr *APIRequestFailedError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, []string{"invalid token"}, apiErr.Errors)
	require.NotNil(t, apiErr.Response)
	assert.Equal(t, uuid.MustParse(testRequestID), apiErr.Response.Request)
	assert.Equal(t, strings.ToLower(testRequestID), apiErr.RequestID())
	assert.IsType(t, &SendMessageResponse{}, apiErr.Payload)
	assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
	assert.Contains(t, err.Error(), "invalid token")
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestClient_SendMessage_LocalErrorsSkipNetwork(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, successBody)
	noDefault, err := New(Options{APIToken: testToken}, WithBaseURL(api.server.URL), WithoutRequestLogging())
	require.NoError(t, err)
	c := newTestClient(t, api)

	tests := []struct {
		name   string
		client *Client
		run    func(*Client) error
		check  func(*testing.T, error)
	}{
		{
			name:   "nil 구성 함수",
			client: c,
			run: func(c *Client) error {
				_, err := c.SendMessage(context.Background(), nil)
				return err
			},
			check: func(t *testing.T, err error) { assert.True(t, IsArgumentError(err)) },
		},
		{
			name:   "수신자도 기본 사용자도 없음",
			client: noDefault,
			run: func(c *Client) error {
				_, err := c.SendText(context.Background(), "hi")
				return err
			},
			check: func(t *testing.T, err error) { requireValidationError(t, err, "user", ReasonRequired) },
		},
		{
			name:   "긴급 우선순위 retry 부족",
			client: c,
			run: func(c *Client) error {
				_, err := c.SendMessage(context.Background(), func(b *MessageBuilder) {
					b.WithMessage("hi").WithEmergencyPriority(10*time.Second, time.Hour, "")
				})
				return err
			},
			check: func(t *testing.T, err error) { requireValidationError(t, err, "retry", ReasonTooSmall) },
		},
		{
			name:   "SendTextTo의 잘못된 키",
			client: c,
			run: func(c *Client) error {
				_, err := c.SendTextTo(context.Background(), "bad", "hi")
				return err
			},
			check: func(t *testing.T, err error) { requireValidationError(t, err, "user", ReasonInvalidFormat) },
		},
		{
			name:   "SendTextTo의 빈 키",
			client: c,
			run: func(c *Client) error {
				_, err := c.SendTextTo(context.Background(), " ", "hi")
				return err
			},
			check: func(t *testing.T, err error) { assert.True(t, IsArgumentError(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.run(tt.client))
		})
	}

	assert.Empty(t, api.Requests(), "로컬 검증 실패 시 네트워크 요청을 보내지 않아야 합니다")
}

func TestClient_SendTextTo(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, successBody)
	c := newTestClient(t, api)

	_, err := c.SendTextTo(context.Background(), userA, "hi")
	require.NoError(t, err)

	assert.Equal(t, []formdata.Field{
		{Name: "token", Value: testToken},
		{Name: "user", Value: userA},
		{Name: "message", Value: "hi"},
	}, api.lastRequest(t).Fields)
}

// =============================================================================
// Other Operations
// =============================================================================

func TestClient_ValidateUserOrGroup(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, `{"status":1,"group":0,"devices":["iphone"],"licenses":["iOS"],"request":"`+testRequestID+`"}`)
	c := newTestClient(t, api)

	resp, err := c.ValidateUserOrGroup(context.Background(), userA, " iphone ")
	require.NoError(t, err)
	assert.Equal(t, []string{"iphone"}, resp.Devices)
	assert.Equal(t, []string{"iOS"}, resp.Licenses)

	req := api.lastRequest(t)
	assert.Equal(t, "/1/users/validate.json", req.Path)
	assert.Equal(t, []formdata.Field{
		{Name: "token", Value: testToken},
		{Name: "user", Value: userA},
		{Name: "device", Value: "iphone"},
	}, req.Fields)

	_, err = c.ValidateUserOrGroup(context.Background(), "", "")
	assert.True(t, IsArgumentError(err))

	_, err = c.ValidateUserOrGroup(context.Background(), "bad-key", "")
	requireValidationError(t, err, "user", ReasonInvalidFormat)

	assert.Len(t, api.Requests(), 1)
}

func TestClient_GetReceiptStatus(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, `{"status":1,"acknowledged":1,"acknowledged_at":1360019238,"acknowledged_by":"`+userA+`","acknowledged_by_device":"iphone","last_delivered_at":1360001238,"expired":1,"expires_at":1360019290,"called_back":0,"called_back_at":0,"request":"`+testRequestID+`"}`)
	c := newTestClient(t, api)

	resp, err := c.GetReceiptStatus(context.Background(), "rLqVuqTRh62UzxtmqiaLzQmVcPgiCy")
	require.NoError(t, err)
	assert.True(t, bool(resp.Acknowledged))
	assert.True(t, bool(resp.Expired))
	assert.False(t, bool(resp.CalledBack))
	assert.Equal(t, userA, resp.AcknowledgedBy)

	req := api.lastRequest(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/1/receipts/rLqVuqTRh62UzxtmqiaLzQmVcPgiCy.json", req.Path)
	assert.Equal(t, "token="+testToken, req.RawQuery)
	assert.Empty(t, req.Body)

	_, err = c.GetReceiptStatus(context.Background(), "  ")
	assert.True(t, IsArgumentError(err))
}

func TestClient_CancelRetries(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, successBody)
	c := newTestClient(t, api)

	_, err := c.CancelRetries(context.Background(), "r123")
	require.NoError(t, err)

	req := api.lastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/1/receipts/r123/cancel.json", req.Path)
	assert.Equal(t, []formdata.Field{{Name: "token", Value: testToken}}, req.Fields)

	_, err = c.CancelRetries(context.Background(), "")
	assert.True(t, IsArgumentError(err))
}

func TestClient_CancelRetriesByTag(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, `{"status":1,"canceled":3,"request":"`+testRequestID+`"}`)
	c := newTestClient(t, api)

	resp, err := c.CancelRetriesByTag(context.Background(), NewMessageTag("a", "123"))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Canceled)

	req := api.lastRequest(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Contains(t, req.Path, "cancel_by_tag/a=123.json")
	assert.Equal(t, []formdata.Field{{Name: "token", Value: testToken}}, req.Fields)

	for _, tag := range []MessageTag{NewMessageTag("", "123"), NewMessageTag("a", " ")} {
		_, err = c.CancelRetriesByTag(context.Background(), tag)
		assert.True(t, IsArgumentError(err))
	}
	assert.Len(t, api.Requests(), 1)
}

// =============================================================================
// Response Handling
// =============================================================================

func TestClient_ResponseHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
		body       string
		check      func(*testing.T, error)
	}{
		{
			name:       "JSON이 아닌 오류 페이지",
			statusCode: http.StatusBadGateway,
			body:       "<html>502 Bad Gateway</html>",
			check: func(t *testing.T, err error) {
				var apiErr *APIRequestFailedError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
				assert.Empty(t, apiErr.Errors)
				assert.Empty(t, apiErr.RequestID())
				assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
			},
		},
		{
			name:       "HTTP 200이지만 status 0",
			statusCode: http.StatusOK,
			body:       `{"status":0,"errors":["application token is invalid"],"request":"` + testRequestID + `"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIRequestFailedError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, []string{"application token is invalid"}, apiErr.Errors)
			},
		},
		{
			name:       "일부 필드 타입 오류는 공통 필드만 추출",
			statusCode: http.StatusBadRequest,
			body:       `{"status":0,"request":"` + testRequestID + `","errors":["user key is invalid"],"receipt":42}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIRequestFailedError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, []string{"user key is invalid"}, apiErr.Errors)
				assert.Equal(t, strings.ToLower(testRequestID), apiErr.RequestID())
			},
		},
		{
			name:       "성공 응답의 해석 실패",
			statusCode: http.StatusOK,
			body:       `{"status":1,"request":"` + testRequestID + `","receipt":42}`,
			check: func(t *testing.T, err error) {
				assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
				var apiErr *APIRequestFailedError
				assert.False(t, errors.As(err, &apiErr))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newFakeAPI(t, tt.statusCode, tt.body)
			c := newTestClient(t, api)

			resp, err := c.SendText(context.Background(), "hi")
			assert.Nil(t, resp)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

// =============================================================================
// Transport
// =============================================================================

func TestClient_TransportErrors(t *testing.T) {
	t.Parallel()

	t.Run("네트워크 에러", func(t *testing.T) {
		t.Parallel()

		netErr := errors.New("connection refused")
		c, err := New(Options{APIToken: testToken, DefaultUserKey: testDefaultUser},
			WithoutRequestLogging(),
			WithFetcher(doerFunc(func(*http.Request) (*http.Response, error) { return nil, netErr })))
		require.NoError(t, err)

		_, err = c.SendText(context.Background(), "hi")
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
		assert.ErrorIs(t, err, netErr)
	})

	t.Run("취소된 context", func(t *testing.T) {
		t.Parallel()

		c, err := New(Options{APIToken: testToken, DefaultUserKey: testDefaultUser},
			WithoutRequestLogging(),
			WithFetcher(doerFunc(func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("aborted")
			})))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = c.CancelRetries(ctx, "r1")
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, apperrors.Is(err, apperrors.Canceled))
	})

	t.Run("만료된 context", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusOK, successBody)
		c := newTestClient(t, api)

		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		_, err := c.GetReceiptStatus(ctx, "r1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, apperrors.Is(err, apperrors.Timeout))
		assert.Empty(t, api.Requests())
	})

	t.Run("HTTP 클라이언트 타임아웃", func(t *testing.T) {
		t.Parallel()

		c, err := New(Options{APIToken: testToken, DefaultUserKey: testDefaultUser},
			WithoutRequestLogging(),
			WithFetcher(doerFunc(func(req *http.Request) (*http.Response, error) {
				return nil, &url.Error{Op: "Post", URL: req.URL.String(), Err: timeoutError{}}
			})))
		require.NoError(t, err)

		_, err = c.SendText(context.Background(), "hi")
		assert.True(t, apperrors.Is(err, apperrors.Timeout))
		assert.False(t, apperrors.Is(err, apperrors.Unavailable))
	})

	t.Run("응답 크기 제한", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusOK, `{"status":1,"request":"`+testRequestID+`","padding":"`+strings.Repeat("x", 200)+`"}`)
		c := newTestClient(t, api, WithMaxResponseBytes(64))

		_, err := c.SendText(context.Background(), "hi")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
	})

	t.Run("사용자 지정 User-Agent와 메트릭", func(t *testing.T) {
		t.Parallel()

		api := newFakeAPI(t, http.StatusOK, successBody)
		reg := prometheus.NewRegistry()
		c := newTestClient(t, api, WithUserAgent("my-app/1.0"), WithMetrics(reg), WithRateLimit(100, 1))

		_, err := c.CancelRetriesByTag(context.Background(), NewMessageTag("job", "backup"))
		require.NoError(t, err)

		assert.Equal(t, "my-app/1.0", api.lastRequest(t).UserAgent)

		expected := `
# HELP pushover_client_requests_total Pushover API 요청 수 (엔드포인트, 결과 코드별)
# TYPE pushover_client_requests_total counter
pushover_client_requests_total{code="200",endpoint="receipts.cancel_by_tag"} 1
`
		assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "pushover_client_requests_total"))
	})
}

// TestClient_Concurrent 하나의 Client를 여러 고루틴에서 동시에 사용할 수 있어야 합니다.
func TestClient_Concurrent(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, successBody)
	c := newTestClient(t, api)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.SendText(context.Background(), "동시 전송")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, api.Requests(), 10)
}

func TestClient_WithHTTPClientAndTimeout(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, http.StatusOK, successBody)
	hc := api.server.Client()

	c := newTestClient(t, api, WithHTTPClient(hc), WithTimeout(5*time.Second))

	_, err := c.SendText(context.Background(), "hi")
	require.NoError(t, err)
	assert.Zero(t, hc.Timeout, "전달한 *http.Client는 변경되지 않아야 합니다")
}
