package pushover

import (
	"strings"
)

// MessageTag 메시지에 붙이는 key=value 형태의 태그입니다.
// 같은 태그를 가진 긴급 메시지의 재전송을 CancelRetriesByTag로 한꺼번에 취소할 수 있습니다.
type MessageTag struct {
	Key   string
	Value string
}

// NewMessageTag 새로운 MessageTag를 생성합니다.
func NewMessageTag(key, value string) MessageTag {
	return MessageTag{Key: key, Value: value}
}

// ParseMessageTag "key=value" 형식의 문자열을 MessageTag로 변환합니다.
// 첫 번째 '='을 기준으로 나누며, 키나 값이 비어 있으면 에러를 반환합니다.
func ParseMessageTag(s string) (MessageTag, error) {
	key, value, found := strings.Cut(s, "=")
	tag := NewMessageTag(strings.TrimSpace(key), strings.TrimSpace(value))
	if !found || !tag.IsComplete() {
		return MessageTag{}, newArgumentError("태그는 key=value 형식이어야 합니다: %q", s)
	}
	return tag, nil
}

// IsComplete 키와 값이 모두 공백이 아닌지 확인합니다.
func (t MessageTag) IsComplete() bool {
	return strings.TrimSpace(t.Key) != "" && strings.TrimSpace(t.Value) != ""
}

// String "key=value" 형식의 문자열을 반환합니다.
func (t MessageTag) String() string {
	return t.Key + "=" + t.Value
}
