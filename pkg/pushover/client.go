package pushover

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/darkkaiser/pushover/internal/fetcher"
	"github.com/darkkaiser/pushover/internal/formdata"
	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	applog "github.com/darkkaiser/pushover/pkg/log"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const clientComponent = "pushover.client"

// API Client가 제공하는 작업 목록입니다. 테스트에서 Client를 대체할 때 사용합니다.
type API interface {
	SendMessage(ctx context.Context, configure func(*MessageBuilder)) (*SendMessageResponse, error)
	SendText(ctx context.Context, message string) (*SendMessageResponse, error)
	SendTextTo(ctx context.Context, userKey, message string) (*SendMessageResponse, error)
	ValidateUserOrGroup(ctx context.Context, userKey, deviceID string) (*UserValidationResponse, error)
	GetReceiptStatus(ctx context.Context, receiptID string) (*ReceiptStatusResponse, error)
	CancelRetries(ctx context.Context, receiptID string) (*CancelRetriesResponse, error)
	CancelRetriesByTag(ctx context.Context, tag MessageTag) (*CancelRetriesResponse, error)
}

// Client Pushover API 클라이언트입니다.
//
// 생성 이후 상태가 변경되지 않으므로 여러 고루틴에서 동시에 사용할 수 있습니다.
// 요청을 재시도하지 않으며, 타임아웃과 취소는 호출자가 전달한 context로 제어합니다.
type Client struct {
	token          string
	defaultUserKey string

	baseURL  string
	boundary string

	fetcher fetcher.Fetcher
}

var _ API = (*Client)(nil)

// New 새로운 Client를 생성합니다. API 토큰이 없거나 키 형식이 올바르지 않으면 실패합니다.
func New(opts Options, clientOpts ...ClientOption) (*Client, error) {
	opts, err := opts.validate()
	if err != nil {
		return nil, err
	}

	cfg, err := newClientConfig(clientOpts)
	if err != nil {
		return nil, err
	}

	f, err := cfg.newFetcher()
	if err != nil {
		return nil, err
	}

	return &Client{
		token:          opts.APIToken,
		defaultUserKey: opts.DefaultUserKey,
		baseURL:        cfg.baseURL,
		boundary:       cfg.boundary,
		fetcher:        f,
	}, nil
}

// SendMessage configure로 구성한 메시지를 전송합니다.
//
// 수신자를 지정하지 않았다면 기본 사용자에게 전송합니다. 설정 중 발생한 에러와
// 수신자, 메시지 본문에 대한 검증 에러는 네트워크 요청 전에 반환됩니다.
func (c *Client) SendMessage(ctx context.Context, configure func(*MessageBuilder)) (*SendMessageResponse, error) {
	if configure == nil {
		return nil, newArgumentError("메시지 구성 함수가 nil입니다")
	}

	b := NewMessageBuilder()
	configure(b)
	b.addDefaultUserIfNeeded(c.defaultUserKey)

	if err := b.Validate(); err != nil {
		return nil, err
	}

	enc := c.newEncoder()
	b.render(enc)

	return doRequest[SendMessageResponse](ctx, c, http.MethodPost, messagesPath, nil, enc)
}

// SendText 기본 사용자에게 일반 텍스트 메시지를 전송합니다.
func (c *Client) SendText(ctx context.Context, message string) (*SendMessageResponse, error) {
	return c.SendMessage(ctx, func(b *MessageBuilder) {
		b.WithMessage(message)
	})
}

// SendTextTo userKey에게 일반 텍스트 메시지를 전송합니다.
// 메시지 설정과 달리 userKey의 형식이 올바르지 않으면 기본 사용자로 대체하지 않고 실패합니다.
func (c *Client) SendTextTo(ctx context.Context, userKey, message string) (*SendMessageResponse, error) {
	key, err := ValidateUserOrGroupKey(userKey)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, newArgumentError("수신자 키가 비어 있습니다")
	}

	return c.SendMessage(ctx, func(b *MessageBuilder) {
		b.WithRecipient(key).WithMessage(message)
	})
}

// ValidateUserOrGroup 사용자 또는 그룹 키가 유효한지 확인하고, 등록된 기기와 라이선스 목록을 조회합니다.
// deviceID가 비어 있지 않으면 해당 기기가 활성 상태인지도 함께 확인합니다.
func (c *Client) ValidateUserOrGroup(ctx context.Context, userKey, deviceID string) (*UserValidationResponse, error) {
	if strings.TrimSpace(userKey) == "" {
		return nil, newArgumentError("사용자 키가 비어 있습니다")
	}

	key, err := ValidateUserOrGroupKey(userKey)
	if err != nil {
		return nil, err
	}

	enc := c.newEncoder()
	enc.AddField("user", key)
	enc.AddField("device", strings.TrimSpace(deviceID))

	return doRequest[UserValidationResponse](ctx, c, http.MethodPost, validateUserPath, nil, enc)
}

// GetReceiptStatus 긴급 메시지 영수증의 확인, 만료, 콜백 상태를 조회합니다.
func (c *Client) GetReceiptStatus(ctx context.Context, receiptID string) (*ReceiptStatusResponse, error) {
	receiptID = strings.TrimSpace(receiptID)
	if receiptID == "" {
		return nil, newArgumentError("영수증 ID가 비어 있습니다")
	}

	query := url.Values{"token": {c.token}}

	return doRequest[ReceiptStatusResponse](ctx, c, http.MethodGet, receiptPath(receiptID), query, nil)
}

// CancelRetries 긴급 메시지의 재전송을 중단합니다.
func (c *Client) CancelRetries(ctx context.Context, receiptID string) (*CancelRetriesResponse, error) {
	receiptID = strings.TrimSpace(receiptID)
	if receiptID == "" {
		return nil, newArgumentError("영수증 ID가 비어 있습니다")
	}

	return doRequest[CancelRetriesResponse](ctx, c, http.MethodPost, cancelRetriesPath(receiptID), nil, c.newEncoder())
}

// CancelRetriesByTag tag가 붙은 모든 긴급 메시지의 재전송을 중단합니다.
func (c *Client) CancelRetriesByTag(ctx context.Context, tag MessageTag) (*CancelRetriesResponse, error) {
	if !tag.IsComplete() {
		return nil, newArgumentError("태그의 키와 값은 비어 있을 수 없습니다: %q", tag.String())
	}

	return doRequest[CancelRetriesResponse](ctx, c, http.MethodPost, cancelByTagPath(tag), nil, c.newEncoder())
}

// newEncoder 인증 토큰을 첫 번째 필드로 가진 요청 본문 인코더를 생성합니다.
func (c *Client) newEncoder() *formdata.Encoder {
	enc := formdata.New(c.boundary)
	enc.AddField("token", c.token)
	return enc
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, enc *formdata.Encoder) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if enc != nil {
		data, err := enc.Body()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문을 생성할 수 없습니다")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "HTTP 요청을 생성할 수 없습니다")
	}

	req.Header.Set("Accept", "application/json")
	if enc != nil {
		req.Header.Set("Content-Type", enc.ContentType())
	}

	return req, nil
}

// payload 공통 응답 필드를 포함하는 작업별 응답 타입의 포인터입니다.
type payload[T any] interface {
	*T
	envelope() *Response
}

// doRequest 요청을 전송하고 HTTP 상태와 관계없이 응답 본문을 T로 해석합니다.
//
// HTTP 상태 코드가 2xx가 아니거나 status가 1이 아니면 해석한 응답을 담은
// *APIRequestFailedError를 반환하므로, 호출자는 실패한 경우에도 API가 보고한 에러 목록을 확인할 수 있습니다.
func doRequest[T any, P payload[T]](ctx context.Context, c *Client, method, path string, query url.Values, enc *formdata.Encoder) (*T, error) {
	req, err := c.newRequest(ctx, method, path, query, enc)
	if err != nil {
		return nil, err
	}

	logRequestFields(method, path, enc)

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer fetcher.DrainAndClose(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, transportError(ctx, err)
		}
		return nil, apperrors.Wrap(err, apperrors.Unavailable, "응답 본문을 읽는 중 오류가 발생했습니다")
	}

	var result T
	p := P(&result)

	decodeErr := json.Unmarshal(body, p)
	if decodeErr != nil {
		decodeEnvelope(body, p.envelope())
	}

	env := p.envelope()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.IsSuccess() {
		return nil, newAPIRequestFailedError(req, resp, env, p, decodeErr)
	}
	if decodeErr != nil {
		return nil, apperrors.Wrap(decodeErr, apperrors.ParsingFailed, "응답 본문을 해석할 수 없습니다")
	}

	applog.WithComponentAndFields(clientComponent, applog.Fields{
		"endpoint": path,
		"request":  env.Request.String(),
	}).Debug("Pushover API 요청 성공")

	return &result, nil
}

// decodeEnvelope 응답 본문 전체를 해석하지 못했을 때 공통 응답 필드만이라도 추출합니다.
func decodeEnvelope(body []byte, env *Response) {
	if !gjson.ValidBytes(body) {
		return
	}

	result := gjson.ParseBytes(body)

	env.Status = ResponseStatus(result.Get("status").Int())
	if id, err := uuid.Parse(result.Get("request").String()); err == nil {
		env.Request = id
	}
	env.User = result.Get("user").String()

	env.Errors = nil
	for _, e := range result.Get("errors").Array() {
		env.Errors = append(env.Errors, e.String())
	}
}

func newAPIRequestFailedError(req *http.Request, resp *http.Response, env *Response, decoded any, decodeErr error) error {
	message := "Pushover API가 요청을 거부했습니다"

	var cause error
	if decodeErr != nil {
		cause = apperrors.Wrap(decodeErr, apperrors.ExecutionFailed, message)
	} else {
		cause = apperrors.New(apperrors.ExecutionFailed, message)
	}

	return &APIRequestFailedError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		URL:        fetcher.RedactURL(req.URL),
		Response:   env,
		Payload:    decoded,
		Errors:     env.Errors,
		Cause:      cause,
	}
}

// transportError 응답을 받지 못한 에러를 분류합니다.
// context가 취소되었거나 만료된 경우 errors.Is로 context 에러를 확인할 수 있도록 유지합니다.
func transportError(ctx context.Context, err error) error {
	ctxErr := ctx.Err()
	if ctxErr == nil {
		// WithTimeout으로 설정한 http.Client 타임아웃
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return apperrors.Wrap(err, apperrors.Timeout, "Pushover API 요청 시간이 초과되었습니다")
		}
		return apperrors.Wrap(err, apperrors.Unavailable, "Pushover API에 연결할 수 없습니다")
	}

	if !errors.Is(err, ctxErr) {
		err = errors.Join(ctxErr, err)
	}

	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.Timeout, "Pushover API 요청 시간이 초과되었습니다")
	}
	return apperrors.Wrap(err, apperrors.Canceled, "Pushover API 요청이 취소되었습니다")
}

// logRequestFields 전송할 폼 필드를 Debug 레벨로 기록합니다. 토큰과 사용자 키는 마스킹합니다.
func logRequestFields(method, path string, enc *formdata.Encoder) {
	if enc == nil || !applog.IsDebugEnabled() {
		return
	}

	fields := applog.Fields{
		"method":   method,
		"endpoint": path,
		"parts":    enc.Len(),
	}
	for _, f := range enc.Fields() {
		value := f.Value
		if f.Name == "token" || f.Name == "user" {
			value = applog.MaskSensitiveData(value)
		}
		fields["form."+f.Name] = value
	}

	applog.WithComponentAndFields(clientComponent, fields).Debug("Pushover API 요청 준비")
}
