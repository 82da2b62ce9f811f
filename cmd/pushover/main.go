// pushover 명령은 Pushover API로 알림을 전송하고 영수증을 조회하는 명령행 도구입니다.
//
//	pushover send --title "백업" --priority high "nightly 백업이 완료되었습니다"
//	pushover send --priority emergency --retry 60s --expire 1h --tag job=backup "백업 실패"
//	pushover receipt rLqVuqTRh62UzxtmqiaLzQmVcPgiCy
//	pushover cancel --tag job=backup
//
// 종료 코드는 1(기타), 2(잘못된 입력), 3(API 거부), 4(전송 실패)입니다.
// 설정은 pushover.json, .env 파일, PUSHOVER_ 접두사의 환경 변수 순으로 덮어씁니다.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// 종료 코드
const (
	exitFailure     = 1 // 분류되지 않은 실패
	exitUsage       = 2 // 잘못된 인자 또는 필드 값 (요청을 보내지 않음)
	exitRejected    = 3 // API가 요청을 거부함
	exitUnavailable = 4 // 전송 실패, 시간 초과, 취소
)

func exitCode(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.InvalidArgument, apperrors.InvalidInput:
		return exitUsage
	case apperrors.ExecutionFailed, apperrors.ParsingFailed:
		return exitRejected
	case apperrors.Unavailable, apperrors.Timeout, apperrors.Canceled:
		return exitUnavailable
	default:
		return exitFailure
	}
}
