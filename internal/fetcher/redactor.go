package fetcher

import (
	"net/url"
	"slices"
	"strings"
)

const redacted = "xxxxx"

var (
	// sensitiveExactKeys 대소문자 구분 없이 전체 문자열이 일치할 때만 마스킹되는 쿼리 파라미터 키 목록입니다.
	// Pushover는 영수증 조회 시 API 토큰을 "token" 쿼리 파라미터로 전달합니다.
	sensitiveExactKeys = []string{
		"token", "user", "key", "secret", "password", "api_key", "access_token",
	}

	// sensitiveSuffixes 특정 접미사로 끝나면 마스킹되는 쿼리 파라미터 키 목록입니다.
	sensitiveSuffixes = []string{
		"_token", "_secret", "_key",
	}
)

// RedactURL URL에서 민감한 정보를 마스킹하여 로그에 남겨도 안전한 문자열로 반환합니다.
//
//	https://api.pushover.net/1/receipts/r123.json?token=azGD...
//	→ https://api.pushover.net/1/receipts/r123.json?token=xxxxx
//
// 원본 URL은 변경하지 않습니다.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	ru := *u

	if u.User != nil {
		if _, has := u.User.Password(); has {
			ru.User = url.UserPassword(u.User.Username(), redacted)
		} else if u.User.Username() != "" {
			ru.User = url.User(redacted)
		}
	}

	if u.RawQuery != "" {
		query := ru.Query()
		for key := range query {
			if isSensitiveKey(key) {
				query.Set(key, redacted)
			}
		}
		ru.RawQuery = query.Encode()
	}

	return ru.String()
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	if slices.Contains(sensitiveExactKeys, lowerKey) {
		return true
	}

	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(lowerKey, suffix) {
			return true
		}
	}

	return false
}
