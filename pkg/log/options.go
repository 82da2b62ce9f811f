package log

import (
	"fmt"
	"os"
)

// Options Setup에 전달되는 로깅 시스템 설정입니다.
type Options struct {
	Name  string // 로그 파일명 생성에 사용될 애플리케이션 식별자
	Dir   string // 로그 파일이 저장될 디렉토리 경로 (빈 값: "logs")
	Level Level  // 로그 레벨 (0: InfoLevel)

	MaxAge     int // 오래된 로그 삭제 기준일 (일 단위, 0: 삭제 안 함)
	MaxSizeMB  int // 로그 파일 최대 크기 (MB, 0: 기본값 사용)
	MaxBackups int // 최대 백업 파일 수 (0: 기본값 사용)

	EnableCriticalLog bool // ERROR 이상의 로그를 별도 파일로 분리 저장할지 여부
	EnableVerboseLog  bool // DEBUG 이하의 로그를 별도 파일로 분리 저장할지 여부
	EnableConsoleLog  bool // 표준 에러(Stderr)에도 로그를 출력할지 여부

	ReportCaller bool // 호출 위치(함수명, 라인) 기록 여부
}

// Validate 설정값의 유효성을 검사합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	if opts.MaxAge < 0 {
		return fmt.Errorf("MaxAge는 0 이상이어야 합니다: %d", opts.MaxAge)
	}
	if opts.MaxSizeMB < 0 {
		return fmt.Errorf("MaxSizeMB는 0 이상이어야 합니다: %d", opts.MaxSizeMB)
	}
	if opts.MaxBackups < 0 {
		return fmt.Errorf("MaxBackups는 0 이상이어야 합니다: %d", opts.MaxBackups)
	}

	return nil
}

// NewCLIOptions 명령행 도구용 기본 설정을 반환합니다.
// 일회성 실행이므로 파일 로그는 작게 유지하고, 디버그 모드에서는 콘솔에도 출력합니다.
func NewCLIOptions(appName, dir string, debug bool) Options {
	opts := Options{
		Name:       appName,
		Dir:        dir,
		Level:      InfoLevel,
		MaxAge:     7,
		MaxSizeMB:  10,
		MaxBackups: 3,

		EnableCriticalLog: false,
		EnableVerboseLog:  false,
		EnableConsoleLog:  false,
	}

	if debug {
		opts.Level = TraceLevel
		opts.EnableVerboseLog = true
		opts.EnableConsoleLog = true
		opts.ReportCaller = true
	}

	return opts
}
