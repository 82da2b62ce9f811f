package pushover

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Sound 알림음입니다. 전송 시에는 소문자 이름이 사용됩니다.
type Sound int

const (
	SoundPushover Sound = iota
	SoundBike
	SoundBugle
	SoundCashRegister
	SoundClassical
	SoundCosmic
	SoundFalling
	SoundGamelan
	SoundIncoming
	SoundIntermission
	SoundMagic
	SoundMechanical
	SoundPianoBar
	SoundSiren
	SoundSpaceAlarm
	SoundTugboat
	SoundAlienAlarm
	SoundClimb
	SoundPersistent
	SoundEcho
	SoundUpDown
	SoundVibrate
	SoundNone

	// SoundDefault 사용자가 기기에서 설정한 기본 알림음
	SoundDefault = SoundPushover
)

var soundNames = [...]string{
	SoundPushover:     "pushover",
	SoundBike:         "bike",
	SoundBugle:        "bugle",
	SoundCashRegister: "cashregister",
	SoundClassical:    "classical",
	SoundCosmic:       "cosmic",
	SoundFalling:      "falling",
	SoundGamelan:      "gamelan",
	SoundIncoming:     "incoming",
	SoundIntermission: "intermission",
	SoundMagic:        "magic",
	SoundMechanical:   "mechanical",
	SoundPianoBar:     "pianobar",
	SoundSiren:        "siren",
	SoundSpaceAlarm:   "spacealarm",
	SoundTugboat:      "tugboat",
	SoundAlienAlarm:   "alien",
	SoundClimb:        "climb",
	SoundPersistent:   "persistent",
	SoundEcho:         "echo",
	SoundUpDown:       "updown",
	SoundVibrate:      "vibrate",
	SoundNone:         "none",
}

// IsValid 정의된 알림음인지 확인합니다.
func (s Sound) IsValid() bool {
	return s >= 0 && int(s) < len(soundNames)
}

// String API에 전송되는 소문자 알림음 이름을 반환합니다.
func (s Sound) String() string {
	if !s.IsValid() {
		return "Sound(" + strconv.Itoa(int(s)) + ")"
	}
	return soundNames[s]
}

// Sounds 정의된 모든 알림음을 반환합니다.
func Sounds() []Sound {
	sounds := make([]Sound, len(soundNames))
	for i := range soundNames {
		sounds[i] = Sound(i)
	}
	return sounds
}

// ParseSound 알림음 이름을 Sound로 변환합니다.
// "CashRegister", "cash-register", "cash_register" 처럼 구분자나 대소문자가 달라도 같은 알림음으로 인식합니다.
func ParseSound(name string) (Sound, bool) {
	normalized := strings.ToLower(strcase.ToCamel(strings.TrimSpace(name)))
	if normalized == "alienalarm" {
		return SoundAlienAlarm, true
	}

	for i, n := range soundNames {
		if n == normalized {
			return Sound(i), true
		}
	}
	return SoundPushover, false
}
