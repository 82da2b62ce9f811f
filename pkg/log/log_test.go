package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"빈 문자열", "", ""},
		{"3자 이하", "abc", "***"},
		{"12자 이하", "abcdefghijkl", "abcd***"},
		{"API 토큰", "azGDORePK8gMaC0QOYAMyEEuzJnyUi", "azGD***nyUi"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MaskSensitiveData(tt.input))
		})
	}
}

func TestWithComponentAndFields(t *testing.T) {
	t.Parallel()

	fields := Fields{"endpoint": "messages", "component": "overridden"}
	entry := WithComponentAndFields("pushover.client", fields)

	assert.Equal(t, "pushover.client", entry.Data["component"])
	assert.Equal(t, "messages", entry.Data["endpoint"])
	assert.Equal(t, "overridden", fields["component"], "입력 필드 맵은 변경되지 않아야 합니다")

	assert.Equal(t, "pushover.fetcher", WithComponent("pushover.fetcher").Data["component"])
}

func TestSetDebugMode(t *testing.T) {
	original := logrus.GetLevel()
	defer logrus.SetLevel(original)

	SetDebugMode(true)
	assert.Equal(t, TraceLevel, logrus.GetLevel())
	assert.True(t, IsDebugEnabled())

	SetDebugMode(false)
	assert.Equal(t, InfoLevel, logrus.GetLevel())
	assert.False(t, IsDebugEnabled())
}
