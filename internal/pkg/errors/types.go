package errors

import "strconv"

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

// 에러 타입 상수
const (
	// Unknown 알 수 없는 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// System 시스템 또는 인프라 오류 (설정 파일, 디스크 등)
	System

	// InvalidArgument 호출자가 잘못된 인자를 전달함 (빈 영수증 ID, nil 콜백 등)
	InvalidArgument

	// InvalidInput 필드 값이 제약 조건을 위반함 (길이 초과, 키 형식 오류 등)
	InvalidInput

	// ExecutionFailed 원격 API가 요청을 거부함
	ExecutionFailed

	// ParsingFailed 응답 데이터 파싱 실패
	ParsingFailed

	// Timeout 작업 시간 초과
	Timeout

	// Canceled 호출자가 작업을 취소함
	Canceled

	// Unavailable 전송 계층 장애 (네트워크 오류 등)
	Unavailable
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	InvalidArgument: "InvalidArgument",
	InvalidInput:    "InvalidInput",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Canceled:        "Canceled",
	Unavailable:     "Unavailable",
}

// String 에러 타입의 이름을 반환합니다.
func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + strconv.Itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}
