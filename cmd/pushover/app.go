package main

import (
	"encoding/json"
	"io"

	"github.com/darkkaiser/pushover/internal/config"
	applog "github.com/darkkaiser/pushover/pkg/log"
	"github.com/darkkaiser/pushover/pkg/pushover"
	"github.com/spf13/cobra"
)

const (
	component = "cli"

	// skipConfigAnnotation 설정 파일과 로그 초기화가 필요 없는 명령에 붙이는 어노테이션입니다.
	skipConfigAnnotation = "skip-config"
)

// app 명령 실행에 필요한 의존성을 보관합니다. 테스트에서는 각 함수를 대체합니다.
type app struct {
	configPath string
	debug      bool

	cfg    *config.AppConfig
	client pushover.API
	closer io.Closer

	loadConfig func(filename string) (*config.AppConfig, error)
	setupLog   func(opts applog.Options) (io.Closer, error)
	newClient  func(cfg *config.AppConfig) (pushover.API, error)
}

func newApp() *app {
	return &app{
		loadConfig: config.Load,
		setupLog:   applog.Setup,
		newClient: func(cfg *config.AppConfig) (pushover.API, error) {
			return pushover.New(cfg.PushoverOptions(), cfg.ClientOptions()...)
		},
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Pushover 알림 전송 도구",
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE:  a.initialize,
		PersistentPostRunE: a.finalize,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "설정 파일 경로 (기본값: ./"+config.DefaultFilename+", 없으면 건너뜀)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "디버그 로그 출력")

	root.AddCommand(
		a.sendCommand(),
		a.validateCommand(),
		a.receiptCommand(),
		a.cancelCommand(),
		a.versionCommand(),
	)

	return root
}

// initialize 설정을 로드하고 로그 시스템과 API 클라이언트를 준비합니다.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	if _, skip := cmd.Annotations[skipConfigAnnotation]; skip {
		return nil
	}

	cfg, err := a.loadConfig(a.configPath)
	if err != nil {
		return err
	}
	cfg.Debug = cfg.Debug || a.debug
	a.cfg = cfg

	logOpts := applog.NewCLIOptions(config.AppName, cfg.Log.Dir, cfg.Debug)
	logOpts.MaxAge = cfg.Log.MaxAge
	logOpts.MaxSizeMB = cfg.Log.MaxSizeMB
	logOpts.MaxBackups = cfg.Log.MaxBackups

	closer, err := a.setupLog(logOpts)
	if err != nil {
		return err
	}
	a.closer = closer
	applog.SetDebugMode(cfg.Debug)

	client, err := a.newClient(cfg)
	if err != nil {
		return err
	}
	a.client = client

	applog.WithComponentAndFields(component, applog.Fields{
		"command":  cmd.Name(),
		"base_url": cfg.BaseURL,
		"token":    applog.MaskSensitiveData(cfg.APIToken),
	}).Debug("명령 실행 준비 완료")

	return nil
}

func (a *app) finalize(_ *cobra.Command, _ []string) error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// printJSON 응답을 들여쓰기된 JSON으로 출력합니다.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
