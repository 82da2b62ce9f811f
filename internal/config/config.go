package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/darkkaiser/pushover/pkg/pushover"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 명령행 도구의 식별자입니다. 로그 파일명과 환경 변수 접두사에 사용됩니다.
	AppName string = "pushover"

	// DefaultFilename 경로를 지정하지 않았을 때 탐색하는 설정 파일명입니다. 파일이 없으면 건너뜁니다.
	DefaultFilename = AppName + ".json"

	// DefaultDotEnvFilename 환경 변수를 미리 읽어 들이는 파일명입니다. 이미 설정된 환경 변수는 덮어쓰지 않습니다.
	DefaultDotEnvFilename = ".env"

	// EnvPrefix 설정 값을 덮어쓰는 환경 변수의 접두사입니다.
	//
	//	PUSHOVER_API_TOKEN   -> api_token
	//	PUSHOVER_LOG__DIR    -> log.dir
	EnvPrefix = "PUSHOVER_"
)

// AppConfig 명령행 도구의 설정입니다.
type AppConfig struct {
	Debug bool `json:"debug"`

	APIToken       string `json:"api_token" validate:"required,pushover_key"`
	DefaultUserKey string `json:"default_user_key" validate:"omitempty,pushover_key"`
	BaseURL        string `json:"base_url" validate:"required,url"`

	// Timeout 요청 하나에 허용하는 시간 (0: 제한 없음)
	Timeout time.Duration `json:"timeout" validate:"gte=0"`

	// RateLimit 초당 요청 수 (0: 제한 없음)
	RateLimit float64 `json:"rate_limit" validate:"gte=0"`
	RateBurst int     `json:"rate_burst" validate:"gte=0"`

	// MaxResponseBytes 응답 본문 최대 크기 (0: 기본값, -1: 제한 없음)
	MaxResponseBytes int64 `json:"max_response_bytes" validate:"gte=-1"`

	Log LogConfig `json:"log"`
}

// LogConfig 로그 파일 설정입니다.
type LogConfig struct {
	Dir        string `json:"dir"`
	MaxAge     int    `json:"max_age" validate:"gte=0"`
	MaxSizeMB  int    `json:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `json:"max_backups" validate:"gte=0"`
}

func newDefaultConfig() AppConfig {
	return AppConfig{
		BaseURL:   pushover.DefaultBaseURL,
		RateBurst: 1,
		Log: LogConfig{
			Dir:        "logs",
			MaxAge:     7,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// PushoverOptions 클라이언트 생성에 필요한 인증 정보를 반환합니다.
func (c *AppConfig) PushoverOptions() pushover.Options {
	return pushover.Options{
		APIToken:       c.APIToken,
		DefaultUserKey: c.DefaultUserKey,
	}
}

// ClientOptions 설정에 해당하는 클라이언트 옵션 목록을 반환합니다.
func (c *AppConfig) ClientOptions() []pushover.ClientOption {
	opts := []pushover.ClientOption{
		pushover.WithBaseURL(c.BaseURL),
		pushover.WithMaxResponseBytes(c.MaxResponseBytes),
	}

	if c.Timeout > 0 {
		opts = append(opts, pushover.WithTimeout(c.Timeout))
	}
	if c.RateLimit > 0 {
		opts = append(opts, pushover.WithRateLimit(c.RateLimit, c.RateBurst))
	}

	return opts
}

// Load 설정을 로드합니다.
//
// 우선순위는 환경 변수, 설정 파일, 기본값 순입니다. filename이 비어 있으면 DefaultFilename을
// 탐색하되 파일이 없어도 실패하지 않으며, 명시한 파일이 없으면 실패합니다.
func Load(filename string) (*AppConfig, error) {
	return load(filename, DefaultDotEnvFilename)
}

func load(filename, dotEnvFilename string) (*AppConfig, error) {
	// 1. .env 파일의 값을 환경 변수로 등록 (이미 설정된 환경 변수가 우선)
	if dotEnvFilename != "" {
		if err := godotenv.Load(dotEnvFilename); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("환경 변수 파일을 읽을 수 없습니다: '%s'", dotEnvFilename))
		}
	}

	k := koanf.New(".")

	// 2. 기본값 로드 (가장 낮은 우선순위)
	if err := k.Load(structs.Provider(newDefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "기본 설정 로드에 실패했습니다")
	}

	// 3. JSON 설정 파일 로드 (기본값 덮어쓰기)
	required := filename != ""
	if !required {
		filename = DefaultFilename
	}
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist) && !required:
			// 기본 설정 파일은 선택 사항
		case errors.Is(err, fs.ErrNotExist):
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		default:
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
		}
	}

	// 4. 환경 변수 로드 (최우선 순위)
	if err := k.Load(env.Provider(EnvPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 5. 구조체 언마샬링 (알 수 없는 필드는 에러)
	var appConfig AppConfig
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &appConfig,
		},
	}
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "설정 데이터를 구조체로 변환하는데 실패했습니다")
	}

	// 6. 유효성 검사
	if err := checkStruct(validate, &appConfig, "설정"); err != nil {
		return nil, err
	}

	return &appConfig, nil
}

// normalizeEnvKey 환경 변수 이름을 설정 키로 변환합니다. 이중 언더스코어(__)는 계층 구분자입니다.
//
//	PUSHOVER_LOG__MAX_SIZE_MB -> log.max_size_mb
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
