package pushover

import "strconv"

// Format 메시지 본문의 표시 형식입니다.
type Format int

const (
	// FormatPlaintext 일반 텍스트 (기본값, 별도 필드를 전송하지 않음)
	FormatPlaintext Format = iota

	// FormatMonospace 고정폭 글꼴 (monospace=1)
	FormatMonospace

	// FormatHTML 제한된 HTML 태그 허용 (html=1)
	FormatHTML
)

// IsValid 정의된 형식인지 확인합니다.
func (f Format) IsValid() bool {
	return f >= FormatPlaintext && f <= FormatHTML
}

func (f Format) String() string {
	switch f {
	case FormatPlaintext:
		return "plaintext"
	case FormatMonospace:
		return "monospace"
	case FormatHTML:
		return "html"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}
