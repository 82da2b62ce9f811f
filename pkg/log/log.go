// Package log Pushover 클라이언트와 CLI에서 공통으로 사용하는 구조화 로깅 유틸리티를 제공합니다.
//
// 라이브러리 코드는 WithComponent로 컴포넌트 이름을 붙여 Debug 레벨로만 기록하며,
// 파일 출력과 로테이션은 애플리케이션(CLI)이 Setup을 호출한 경우에만 활성화됩니다.
package log

import (
	"github.com/sirupsen/logrus"
)

// WithComponent 컴포넌트 이름이 포함된 로그 엔트리를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields 컴포넌트 이름과 추가 필드가 포함된 로그 엔트리를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	newFields := make(Fields, len(fields)+1)
	for k, v := range fields {
		newFields[k] = v
	}
	newFields["component"] = component
	return logrus.WithFields(newFields)
}

// SetDebugMode 디버그 모드 여부에 따라 전역 로그 레벨을 변경합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
	} else {
		logrus.SetLevel(InfoLevel)
	}
}

// IsDebugEnabled Debug 레벨 로그가 기록되는 상태인지 확인합니다.
// 로그 필드 구성 비용이 큰 경우 미리 확인하는 용도로 사용합니다.
func IsDebugEnabled() bool {
	return logrus.IsLevelEnabled(DebugLevel)
}

// MaskSensitiveData API 토큰이나 사용자 키처럼 민감한 문자열을 로그에 남길 수 있도록 마스킹합니다.
//
//   - 3자 이하: "***"
//   - 12자 이하: 앞 4자 + "***"
//   - 그 외: 앞 4자 + "***" + 뒤 4자
func MaskSensitiveData(data string) string {
	if data == "" {
		return ""
	}

	if len(data) <= 3 {
		return "***"
	}

	if len(data) <= 12 {
		return data[:4] + "***"
	}

	return data[:4] + "***" + data[len(data)-4:]
}
