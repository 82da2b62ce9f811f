// Package errors Pushover 클라이언트와 명령행 도구가 공유하는 분류된 에러를 제공합니다.
//
// 모든 에러는 ErrorType으로 분류됩니다. Wrap은 원인 에러를 체인에 보존하므로
// 호출자는 Is로 분류를 확인하고, 표준 errors.Is/As로 원인 에러를 탐색할 수 있습니다.
//
//	if err := client.CancelRetries(ctx, receipt); err != nil {
//	    switch {
//	    case errors.Is(err, errors.InvalidArgument):
//	        // 호출자 실수, 요청은 전송되지 않음
//	    case errors.Is(err, errors.ExecutionFailed):
//	        // API가 요청을 거부함
//	    }
//	}
//
// # ErrorType 선택 기준
//
//   - InvalidArgument: 필수 인자 누락, 빈 영수증 ID, nil 콜백
//   - InvalidInput: 필드 제약 위반 (길이 초과, 키 형식 오류)
//   - ExecutionFailed: HTTP 비정상 상태 또는 status=0 응답
//   - ParsingFailed: 응답 본문 해석 실패
//   - Unavailable: 네트워크 오류 등 전송 계층 장애
//   - Canceled, Timeout: context 취소 또는 만료. 원인 에러(context.Canceled 등)는 체인에 남습니다.
//   - System: 설정 파일, 첨부 파일, 로그 디렉토리 등 실행 환경 장애
package errors

import (
	"errors"
	"fmt"
	"io"
)

// AppError 분류와 메시지, 원인 에러, 생성 위치를 담는 에러입니다.
type AppError struct {
	errType ErrorType
	message string
	cause   error
	stack   stack
}

func newAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		errType: errType,
		message: message,
		cause:   cause,
		stack:   callers(),
	}
}

// Type 에러의 분류를 반환합니다.
func (e *AppError) Type() ErrorType {
	return e.errType
}

// Message 원인 에러를 제외한 메시지를 반환합니다.
func (e *AppError) Message() string {
	return e.message
}

// StackTrace 에러가 생성된 위치부터의 호출 스택을 반환합니다.
func (e *AppError) StackTrace() []StackFrame {
	return e.stack.frames()
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.errType, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.errType, e.message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// Format %+v로 출력하면 호출 스택과 원인 체인을 함께 출력합니다.
// 스택은 체인에서 AppError가 아닌 에러와 맞닿은 지점에서만 한 번 출력됩니다.
func (e *AppError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "[%s] %s", e.errType, e.message)

			var inner *AppError
			if e.cause == nil || !errors.As(e.cause, &inner) {
				e.stack.writeTo(s)
			}

			if e.cause != nil {
				io.WriteString(s, "\nCaused by:\n")
				if f, ok := e.cause.(fmt.Formatter); ok {
					f.Format(s, verb)
				} else {
					fmt.Fprintf(s, "\t%v", e.cause)
				}
			}
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// New 새로운 에러를 생성합니다.
func New(errType ErrorType, message string) error {
	return newAppError(errType, message, nil)
}

// Newf 포맷 문자열로 새로운 에러를 생성합니다.
func Newf(errType ErrorType, format string, args ...any) error {
	return newAppError(errType, fmt.Sprintf(format, args...), nil)
}

// Wrap err를 원인으로 하는 에러를 생성합니다. err가 nil이면 nil을 반환합니다.
func Wrap(err error, errType ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return newAppError(errType, message, err)
}

// Wrapf 포맷 문자열을 사용하는 Wrap입니다.
func Wrapf(err error, errType ErrorType, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return newAppError(errType, fmt.Sprintf(format, args...), err)
}

// Is 에러 체인의 AppError 중 하나라도 errType으로 분류되어 있는지 확인합니다.
func Is(err error, errType ErrorType) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.errType == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// As errors.As와 같습니다.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// TypeOf 에러 체인에서 가장 바깥쪽 AppError의 분류를 반환합니다.
// AppError가 없으면 Unknown입니다.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.errType
	}
	return Unknown
}
