package pushover

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// 필드별 최대 길이 (유니코드 문자 수 기준)
const (
	MaxMessageLength  = 1024
	MaxTitleLength    = 250
	MaxURLLength      = 256
	MaxURLTitleLength = 250

	// MaxRecipients 하나의 메시지에 지정할 수 있는 최대 수신자 수입니다.
	MaxRecipients = 50

	// MinEmergencyRetry 긴급 우선순위 메시지의 최소 재전송 간격입니다.
	MinEmergencyRetry = 30 * time.Second
)

// keyPattern 사용자/그룹 키와 API 토큰의 형식 (영문자와 숫자 30자)
var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9]{30}$`)

// ValidateMessage 메시지 본문을 정규화하고 길이를 검사합니다.
// 공백만 있는 값은 빈 문자열로 반환하며, 필수 여부는 호출자가 별도로 확인합니다.
func ValidateMessage(message string) (string, error) {
	return validateLength("message", message, MaxMessageLength)
}

// ValidateTitle 메시지 제목을 정규화하고 길이를 검사합니다.
func ValidateTitle(title string) (string, error) {
	return validateLength("title", title, MaxTitleLength)
}

// ValidateURL 보조 URL을 정규화하고 길이를 검사합니다. URL 형식 자체는 검사하지 않습니다.
func ValidateURL(url string) (string, error) {
	return validateLength("url", url, MaxURLLength)
}

// ValidateURLTitle 보조 URL의 제목을 정규화하고 길이를 검사합니다.
func ValidateURLTitle(title string) (string, error) {
	return validateLength("url_title", title, MaxURLTitleLength)
}

// ValidateUserOrGroupKey 사용자 또는 그룹 키를 정규화하고 형식을 검사합니다.
func ValidateUserOrGroupKey(key string) (string, error) {
	return validateKey("user", key)
}

// ValidateAPIToken 애플리케이션 API 토큰을 정규화하고 형식을 검사합니다.
func ValidateAPIToken(token string) (string, error) {
	return validateKey("token", token)
}

func validateLength(field, value string, limit int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if n := utf8.RuneCountInString(value); n > limit {
		return "", newValidationErrorf(field, ReasonTooLong, "%d자를 초과할 수 없습니다 (현재 %d자)", limit, n)
	}

	return value, nil
}

func validateKey(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if !keyPattern.MatchString(value) {
		return "", newValidationErrorf(field, ReasonInvalidFormat, "영문자와 숫자로 이루어진 30자여야 합니다")
	}

	return value, nil
}
