package config

import (
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/darkkaiser/pushover/internal/pkg/errors"
	"github.com/darkkaiser/pushover/pkg/pushover"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator 새로운 Validator 인스턴스를 생성하고 커스텀 유효성 검사 함수를 등록합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 에러 메시지에 Go 필드명(APIToken) 대신 JSON 이름(api_token)을 보여줍니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("pushover_key", validatePushoverKey); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'pushover_key' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	return v
}

// validatePushoverKey API 토큰과 사용자/그룹 키가 공유하는 형식(영문자와 숫자 30자)인지 검사합니다.
func validatePushoverKey(fl validator.FieldLevel) bool {
	key, err := pushover.ValidateUserOrGroupKey(fl.Field().String())
	return err == nil && key != ""
}

// checkStruct 구조체의 유효성을 검사하고, 첫 번째 위반 항목을 설명하는 에러를 반환합니다.
func checkStruct(v *validator.Validate, s any, contextName string) error {
	if err := v.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			firstErr := validationErrors[0]

			switch firstErr.Tag() {
			case "required":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 필수 항목이 비어 있습니다: %s", contextName, fieldPath(firstErr)))
			case "pushover_key":
				return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 %s 형식이 올바르지 않습니다 (영문자와 숫자 30자)", contextName, fieldPath(firstErr)))
			}

			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s이 올바르지 않습니다: %s (조건: %s)", contextName, fieldPath(firstErr), firstErr.Tag()))
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}
	return nil
}

// fieldPath 최상위 구조체 이름을 제외한 필드 경로를 반환합니다. (예: AppConfig.log.max_age -> log.max_age)
func fieldPath(fe validator.FieldError) string {
	if _, path, found := strings.Cut(fe.Namespace(), "."); found {
		return path
	}
	return fe.Field()
}
