// Package version 빌드 시점에 주입된 버전 정보를 제공합니다.
//
// 링커 플래그로 주입된 값이 없으면 debug.ReadBuildInfo의 VCS 메타데이터와 모듈 버전으로 보강합니다.
// 클라이언트의 기본 User-Agent와 명령행 도구의 version 명령에서 사용합니다.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

const unknown = "unknown"

// -ldflags "-X github.com/darkkaiser/pushover/internal/pkg/version.appVersion=v1.2.0" 형태로 주입됩니다.
var (
	appVersion    = ""
	gitCommitHash = ""
	buildDate     = ""
)

// readBuildInfo 테스트에서 교체 가능하도록 변수로 선언합니다.
var readBuildInfo = debug.ReadBuildInfo

var (
	once   sync.Once
	cached Info
)

// Info 애플리케이션의 빌드 정보입니다.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Dirty     bool   `json:"dirty"`
}

// Get 빌드 정보를 반환합니다. 최초 호출 시 한 번만 계산됩니다.
func Get() Info {
	once.Do(func() {
		cached = resolve(Info{
			Version:   strings.TrimSpace(appVersion),
			Commit:    strings.TrimSpace(gitCommitHash),
			BuildDate: strings.TrimSpace(buildDate),
		})
	})
	return cached
}

// Version 버전 문자열을 반환합니다.
func Version() string {
	return Get().Version
}

// UserAgent Pushover API 요청에 사용하는 기본 User-Agent 값을 반환합니다.
func UserAgent() string {
	return "pushover-go/" + Version()
}

func resolve(bi Info) Info {
	bi.GoVersion = runtime.Version()
	bi.OS = runtime.GOOS
	bi.Arch = runtime.GOARCH

	if val, ok := readBuildInfo(); ok {
		for _, setting := range val.Settings {
			switch setting.Key {
			case "vcs.revision":
				if bi.Commit == "" {
					bi.Commit = setting.Value
				}
			case "vcs.time":
				if bi.BuildDate == "" {
					bi.BuildDate = setting.Value
				}
			case "vcs.modified":
				bi.Dirty = setting.Value == "true"
			}
		}
		if bi.Version == "" && val.Main.Version != "" && val.Main.Version != "(devel)" {
			bi.Version = val.Main.Version
		}
	}

	if bi.Version == "" {
		bi.Version = unknown
	}
	if bi.Commit == "" {
		bi.Commit = unknown
	}

	return bi
}

// String 빌드 정보를 한 줄로 요약합니다.
func (i Info) String() string {
	v := i.Version
	if i.Dirty {
		v += "+dirty"
	}

	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}

	return fmt.Sprintf("%s (commit: %s, %s %s/%s)", v, commit, i.GoVersion, i.OS, i.Arch)
}
