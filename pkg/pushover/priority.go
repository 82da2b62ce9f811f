package pushover

import (
	"strconv"
	"strings"
)

// Priority 메시지 우선순위입니다.
//
// PriorityEmergency는 수신자가 확인할 때까지 서버가 retry 간격으로 재전송하며,
// expire가 지나면 재전송을 중단합니다.
type Priority int

const (
	PriorityLowest    Priority = -2
	PriorityLow       Priority = -1
	PriorityNormal    Priority = 0
	PriorityHigh      Priority = 1
	PriorityEmergency Priority = 2
)

var priorityNames = map[Priority]string{
	PriorityLowest:    "lowest",
	PriorityLow:       "low",
	PriorityNormal:    "normal",
	PriorityHigh:      "high",
	PriorityEmergency: "emergency",
}

// IsValid 정의된 우선순위인지 확인합니다.
func (p Priority) IsValid() bool {
	return p >= PriorityLowest && p <= PriorityEmergency
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "Priority(" + strconv.Itoa(int(p)) + ")"
}

// ParsePriority 우선순위 이름("high") 또는 정수 값("1")을 Priority로 변환합니다.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for p, name := range priorityNames {
		if name == s {
			return p, nil
		}
	}

	if n, err := strconv.Atoi(s); err == nil && Priority(n).IsValid() {
		return Priority(n), nil
	}

	return PriorityNormal, newValidationErrorf("priority", ReasonOutOfRange, "알 수 없는 우선순위입니다: %q", s)
}
