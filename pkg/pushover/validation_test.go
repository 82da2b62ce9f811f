package pushover

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireValidationError err가 field와 reason을 가진 ValidationError인지 확인합니다.
func requireValidationError(t *testing.T, err error, field string, reason Reason) {
	t.Helper()

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput), "InvalidInput 타입이어야 합니다: %v", err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "ValidationError를 포함해야 합니다: %v", err)
	assert.Equal(t, field, verr.Field)
	assert.Equal(t, reason, verr.Reason)
}

// =============================================================================
// Length Validators
// =============================================================================

func TestValidateLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		validate func(string) (string, error)
		field    string
		limit    int
	}{
		{"message", ValidateMessage, "message", MaxMessageLength},
		{"title", ValidateTitle, "title", MaxTitleLength},
		{"url", ValidateURL, "url", MaxURLLength},
		{"url_title", ValidateURLTitle, "url_title", MaxURLTitleLength},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			t.Run("앞뒤 공백 제거", func(t *testing.T) {
				got, err := tt.validate("  hello \n")
				require.NoError(t, err)
				assert.Equal(t, "hello", got)
			})

			t.Run("공백만 있으면 빈 값", func(t *testing.T) {
				got, err := tt.validate(" \t ")
				require.NoError(t, err)
				assert.Empty(t, got)
			})

			t.Run("최대 길이는 허용 (공백 제외, 문자 수 기준)", func(t *testing.T) {
				value := strings.Repeat("가", tt.limit)
				got, err := tt.validate("  " + value + "  ")
				require.NoError(t, err)
				assert.Equal(t, value, got)
			})

			t.Run("최대 길이 초과", func(t *testing.T) {
				got, err := tt.validate(strings.Repeat("a", tt.limit+1))
				assert.Empty(t, got)
				requireValidationError(t, err, tt.field, ReasonTooLong)
			})
		})
	}
}

// =============================================================================
// Key Validators
// =============================================================================

func TestValidateKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"정상 키", testDefaultUser, testDefaultUser, false},
		{"앞뒤 공백은 제거", "  " + testDefaultUser + " ", testDefaultUser, false},
		{"빈 값은 에러 없이 빈 문자열", "   ", "", false},
		{"29자", strings.Repeat("a", 29), "", true},
		{"31자", strings.Repeat("a", 31), "", true},
		{"특수 문자 포함", strings.Repeat("a", 29) + "-", "", true},
		{"유니코드 문자 포함", strings.Repeat("a", 29) + "가", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ValidateUserOrGroupKey(tt.input)
			if tt.wantErr {
				requireValidationError(t, err, "user", ReasonInvalidFormat)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)

			got, err = ValidateAPIToken(tt.input)
			if tt.wantErr {
				requireValidationError(t, err, "token", ReasonInvalidFormat)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "retry: too small", (&ValidationError{Field: "retry", Reason: ReasonTooSmall}).Error())
	assert.Equal(t, "user: too many (최대 50명)", (&ValidationError{Field: "user", Reason: ReasonTooMany, Detail: "최대 50명"}).Error())

	_, err := ValidateTitle(strings.Repeat("x", 251))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsArgumentError(err))
	assert.Contains(t, err.Error(), "title: too long")
}
