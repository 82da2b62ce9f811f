package pushover

import (
	"fmt"
	"strings"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/google/uuid"
)

// Reason 필드 검증 실패의 원인입니다.
type Reason string

const (
	ReasonTooLong       Reason = "too long"
	ReasonInvalidFormat Reason = "invalid format"
	ReasonRequired      Reason = "required"
	ReasonOutOfRange    Reason = "out of range"
	ReasonTooSmall      Reason = "too small"
	ReasonNotSupported  Reason = "not supported"
	ReasonTooMany       Reason = "too many"
)

// ValidationError 필드 값이 제약 조건을 위반했을 때 반환되는 에러입니다.
// 항상 apperrors.InvalidInput 타입의 에러로 감싸져 반환되므로 errors.As로 꺼내어 사용합니다.
type ValidationError struct {
	// Field 폼 필드 이름 (message, title, user, retry 등)
	Field string

	Reason Reason

	// Detail 사람이 읽을 수 있는 부가 설명
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Reason, e.Detail)
}

func newValidationErrorf(field string, reason Reason, format string, args ...any) error {
	verr := &ValidationError{
		Field:  field,
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
	}
	return apperrors.Wrap(verr, apperrors.InvalidInput, "필드 값이 유효하지 않습니다")
}

func newArgumentError(format string, args ...any) error {
	return apperrors.Newf(apperrors.InvalidArgument, format, args...)
}

// IsArgumentError 호출자가 필수 인자를 누락하는 등 잘못된 인자를 전달하여 발생한 에러인지 확인합니다.
func IsArgumentError(err error) bool {
	return apperrors.Is(err, apperrors.InvalidArgument)
}

// IsValidationError 필드 검증 실패로 발생한 에러인지 확인합니다.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return apperrors.As(err, &verr)
}

// APIRequestFailedError Pushover API가 요청을 거부했을 때 반환되는 에러입니다.
//
// HTTP 상태 코드가 2xx가 아니거나 응답 본문의 status 값이 1이 아닌 경우에 해당하며,
// API가 보고한 에러 목록과 요청 ID는 Response에서 확인할 수 있습니다.
type APIRequestFailedError struct {
	StatusCode int
	Status     string

	// URL 민감한 쿼리 파라미터가 마스킹된 요청 URL
	URL string

	// Response 응답 본문에서 해석한 공통 응답 필드입니다. 본문을 해석하지 못했다면 상태 값만 채워집니다.
	Response *Response

	// Payload 작업별 응답 타입으로 해석한 값 (*SendMessageResponse, *ReceiptStatusResponse 등)
	Payload any

	// Errors API가 보고한 에러 메시지 목록 (Response.Errors와 동일)
	Errors []string

	// Cause apperrors.ExecutionFailed 타입의 원인 에러
	Cause error
}

func (e *APIRequestFailedError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Pushover API 요청이 실패했습니다 (HTTP %d", e.StatusCode)
	if e.Response != nil {
		fmt.Fprintf(&sb, ", status=%d", e.Response.Status)
	}
	sb.WriteString(")")

	if len(e.Errors) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Errors, ", "))
	}

	return sb.String()
}

func (e *APIRequestFailedError) Unwrap() error {
	return e.Cause
}

// RequestID API가 발급한 요청 ID를 반환합니다. 응답을 해석하지 못한 경우 빈 문자열입니다.
func (e *APIRequestFailedError) RequestID() string {
	if e.Response == nil || e.Response.Request == uuid.Nil {
		return ""
	}
	return e.Response.Request.String()
}
