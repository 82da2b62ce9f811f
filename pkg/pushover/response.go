package pushover

import (
	"bytes"
	"strconv"
	"time"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/google/uuid"
)

// ResponseStatus 응답 본문의 status 값입니다.
type ResponseStatus int

const (
	StatusError   ResponseStatus = 0
	StatusSuccess ResponseStatus = 1
)

// Response 모든 API 응답에 공통으로 포함되는 필드입니다.
type Response struct {
	Status ResponseStatus `json:"status"`

	// Request API가 요청마다 발급하는 고유 ID입니다. 문의 시 이 값을 함께 전달합니다.
	Request uuid.UUID `json:"request"`

	User   string   `json:"user,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// IsSuccess status 값이 성공(1)인지 확인합니다.
func (r *Response) IsSuccess() bool {
	return r.Status == StatusSuccess
}

func (r *Response) envelope() *Response {
	return r
}

// SendMessageResponse 메시지 전송 응답입니다.
type SendMessageResponse struct {
	Response

	// Receipt 긴급 우선순위 메시지에만 발급되는 영수증 ID
	Receipt string `json:"receipt,omitempty"`
}

// UserValidationResponse 사용자/그룹 키 검증 응답입니다.
type UserValidationResponse struct {
	Response

	Devices  []string `json:"devices,omitempty"`
	Licenses []string `json:"licenses,omitempty"`
}

// ReceiptStatusResponse 긴급 메시지 영수증의 상태 조회 응답입니다.
// 시각 필드는 Unix 초 단위 원본 값이며, 해석된 시각은 동명의 메서드로 얻습니다.
type ReceiptStatusResponse struct {
	Response

	Acknowledged         IntBool `json:"acknowledged"`
	AcknowledgedAtUnix   int64   `json:"acknowledged_at"`
	AcknowledgedBy       string  `json:"acknowledged_by,omitempty"`
	AcknowledgedByDevice string  `json:"acknowledged_by_device,omitempty"`

	LastDeliveredAtUnix int64 `json:"last_delivered_at"`

	Expired       IntBool `json:"expired"`
	ExpiresAtUnix int64   `json:"expires_at"`

	CalledBack       IntBool `json:"called_back"`
	CalledBackAtUnix int64   `json:"called_back_at"`
}

// AcknowledgedAt 수신자가 메시지를 확인한 시각을 반환합니다. 아직 확인하지 않았다면 false입니다.
func (r *ReceiptStatusResponse) AcknowledgedAt() (time.Time, bool) {
	return optionalUnix(r.AcknowledgedAtUnix)
}

// LastDeliveredAt 마지막으로 재전송된 시각을 반환합니다.
func (r *ReceiptStatusResponse) LastDeliveredAt() time.Time {
	return time.Unix(r.LastDeliveredAtUnix, 0)
}

// ExpiresAt 재전송이 중단되는 시각을 반환합니다.
func (r *ReceiptStatusResponse) ExpiresAt() time.Time {
	return time.Unix(r.ExpiresAtUnix, 0)
}

// CalledBackAt 콜백 URL이 호출된 시각을 반환합니다. 아직 호출되지 않았다면 false입니다.
func (r *ReceiptStatusResponse) CalledBackAt() (time.Time, bool) {
	return optionalUnix(r.CalledBackAtUnix)
}

func optionalUnix(sec int64) (time.Time, bool) {
	if sec == 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

// CancelRetriesResponse 긴급 메시지 재전송 취소 응답입니다.
type CancelRetriesResponse struct {
	Response

	// Canceled 태그로 취소한 경우 취소된 메시지 수
	Canceled int `json:"canceled,omitempty"`
}

// IntBool 0/1 정수로 표현되는 불리언 값입니다. JSON true/false도 허용합니다.
type IntBool bool

// UnmarshalJSON 숫자(0이 아니면 true), 불리언, 따옴표로 감싼 숫자, null을 해석합니다.
func (b *IntBool) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)

	switch string(data) {
	case "null", "":
		return nil
	case "true":
		*b = true
		return nil
	case "false":
		*b = false
		return nil
	}

	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "0/1 불리언 값으로 해석할 수 없습니다: %s", data)
	}

	*b = n != 0
	return nil
}

// MarshalJSON API와 같은 0/1 정수로 직렬화합니다.
func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}
