package fetcher

import (
	"fmt"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
)

// NewErrResponseBodyTooLarge 응답 본문을 읽는 도중 크기 제한을 초과한 경우의 에러를 생성합니다.
func NewErrResponseBodyTooLarge(limit int64) error {
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("응답 본문의 크기가 허용된 최대 크기(%d 바이트)를 초과했습니다", limit))
}

// NewErrResponseBodyTooLargeByContentLength Content-Length 헤더만으로 크기 제한 초과가 확인된 경우의 에러를 생성합니다.
func NewErrResponseBodyTooLargeByContentLength(contentLength, limit int64) error {
	return apperrors.New(apperrors.ExecutionFailed, fmt.Sprintf("응답 본문의 크기(%d 바이트)가 허용된 최대 크기(%d 바이트)를 초과했습니다", contentLength, limit))
}
