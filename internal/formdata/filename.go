package formdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const upperhex = "0123456789ABCDEF"

// fileDisposition 첨부 파일 파트의 Content-Disposition 값을 만듭니다.
//
// ASCII 대체 이름(filename)과 RFC 5987 형식의 UTF-8 이름(filename*)을 함께 기록하여
// 비 ASCII 파일명을 지원하지 않는 수신측에서도 파일명이 깨지지 않도록 합니다.
func fileDisposition(name, filename string) string {
	var sb strings.Builder
	sb.WriteString(`form-data; name="`)
	sb.WriteString(quoteEscaper.Replace(name))
	sb.WriteString(`"; filename="`)
	sb.WriteString(quoteEscaper.Replace(ASCIIFilename(filename)))
	sb.WriteString(`"; filename*=utf-8''`)
	sb.WriteString(encodeExtValue(filename))
	return sb.String()
}

// ASCIIFilename 파일명을 ASCII 문자만으로 구성된 대체 이름으로 변환합니다.
// 발음 구별 기호는 제거하고("résumé" → "resume"), 그 밖의 비 ASCII 문자는 '_'로 치환합니다.
func ASCIIFilename(filename string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, filename)
	if err != nil {
		stripped = filename
	}

	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, stripped)
}

// encodeExtValue RFC 5987 attr-char 이외의 바이트를 퍼센트 인코딩합니다.
func encodeExtValue(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&0x0f])
	}
	return sb.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
