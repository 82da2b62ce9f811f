package log

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func newTestHook() (*hook, *safeBuffer, *safeBuffer, *safeBuffer, *safeBuffer) {
	main, critical, verbose, console := &safeBuffer{}, &safeBuffer{}, &safeBuffer{}, &safeBuffer{}
	h := &hook{
		mainWriter:     main,
		criticalWriter: critical,
		verboseWriter:  verbose,
		consoleWriter:  console,
		formatter:      &logrus.TextFormatter{DisableTimestamp: true},
	}
	return h, main, critical, verbose, console
}

func newEntry(level Level, msg string) *Entry {
	e := logrus.NewEntry(logrus.New())
	e.Level = level
	e.Message = msg
	return e
}

func TestHook_Fire_Routing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level                                    Level
		inMain, inCritical, inVerbose, inConsole bool
	}{
		{ErrorLevel, true, true, false, true},
		{WarnLevel, true, false, false, true},
		{InfoLevel, true, false, false, true},
		{DebugLevel, false, false, true, true},
		{TraceLevel, false, false, true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.level.String(), func(t *testing.T) {
			t.Parallel()

			h, main, critical, verbose, console := newTestHook()
			require.NoError(t, h.Fire(newEntry(tt.level, "receipt polled")))

			assert.Equal(t, tt.inMain, main.String() != "", "main")
			assert.Equal(t, tt.inCritical, critical.String() != "", "critical")
			assert.Equal(t, tt.inVerbose, verbose.String() != "", "verbose")
			assert.Equal(t, tt.inConsole, console.String() != "", "console")
		})
	}
}

func TestHook_Fire_FailSafe(t *testing.T) {
	t.Parallel()

	h, main, _, _, _ := newTestHook()
	h.criticalWriter = failWriter{}

	err := h.Fire(newEntry(ErrorLevel, "send failed"))

	assert.EqualError(t, err, "disk full")
	assert.Contains(t, main.String(), "send failed", "Critical 기록 실패와 관계없이 Main에는 기록되어야 합니다")
}

func TestHook_Close(t *testing.T) {
	t.Parallel()

	h, main, _, _, console := newTestHook()
	require.NoError(t, h.Close())
	require.NoError(t, h.Fire(newEntry(InfoLevel, "ignored")))

	assert.Empty(t, main.String())
	assert.Empty(t, console.String())
	assert.Equal(t, AllLevels, h.Levels())
}
