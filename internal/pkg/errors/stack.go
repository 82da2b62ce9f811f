package errors

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// maxStackDepth 에러마다 기록하는 호출 스택의 최대 깊이입니다.
const maxStackDepth = 5

// StackFrame 호출 스택의 한 단계입니다.
type StackFrame struct {
	File     string // 파일 이름 (디렉토리 제외)
	Line     int
	Function string // 패키지 경로를 포함한 함수 이름
}

// stack 프로그램 카운터만 보관하고 출력할 때 심볼을 해석합니다.
type stack []uintptr

// callers New/Wrap 계열 함수를 호출한 위치부터 스택을 기록합니다.
// runtime.Callers, callers, newAppError, 공개 생성 함수의 4단계를 건너뜁니다.
func callers() stack {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(4, pcs[:])
	if n == 0 {
		return nil
	}
	return stack(pcs[:n:n])
}

func (s stack) frames() []StackFrame {
	if len(s) == 0 {
		return nil
	}

	frames := make([]StackFrame, 0, len(s))
	iter := runtime.CallersFrames(s)
	for {
		f, more := iter.Next()
		frames = append(frames, StackFrame{
			File:     filepath.Base(f.File),
			Line:     f.Line,
			Function: f.Function,
		})
		if !more {
			break
		}
	}
	return frames
}

func (s stack) writeTo(w io.Writer) {
	frames := s.frames()
	if len(frames) == 0 {
		return
	}

	io.WriteString(w, "\nStack trace:")
	for _, f := range frames {
		fn := f.Function
		if i := strings.LastIndex(fn, "/"); i != -1 {
			fn = fn[i+1:]
		}
		fmt.Fprintf(w, "\n\t%s:%d %s", f.File, f.Line, fn)
	}
}
