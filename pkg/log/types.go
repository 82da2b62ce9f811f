package log

import (
	"github.com/sirupsen/logrus"
)

// Level 로그 레벨 (logrus.Level 별칭)
type Level = logrus.Level

// 로그 레벨 상수
const (
	PanicLevel Level = logrus.PanicLevel
	FatalLevel Level = logrus.FatalLevel
	ErrorLevel Level = logrus.ErrorLevel
	WarnLevel  Level = logrus.WarnLevel
	InfoLevel  Level = logrus.InfoLevel
	DebugLevel Level = logrus.DebugLevel
	TraceLevel Level = logrus.TraceLevel
)

// AllLevels 지원하는 모든 로그 레벨
var AllLevels = logrus.AllLevels

type (
	Fields    = logrus.Fields
	Entry     = logrus.Entry
	Hook      = logrus.Hook
	Formatter = logrus.Formatter
)

// silentFormatter 아무것도 출력하지 않는 포맷터입니다.
// 실제 출력은 hook이 담당하므로 logrus 기본 출력의 포맷팅 비용을 제거합니다.
type silentFormatter struct{}

func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}
