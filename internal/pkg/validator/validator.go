// Package validator 요청 DTO 검증에 사용하는 전역 validator와 한글 에러 메시지 변환을 제공합니다.
//
// 필드명은 구조체의 korean 태그를 우선 사용하고, 없으면 json 태그, 그것도 없으면 필드 이름을 사용합니다.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Get 초기화된 전역 validator 인스턴스를 반환합니다.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
	})

	return validate
}

func fieldName(fld reflect.StructField) string {
	if name := fld.Tag.Get("korean"); name != "" {
		return name
	}
	if name, _, _ := strings.Cut(fld.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return fld.Name
}

// Struct 구조체의 validate 태그를 기준으로 검증합니다.
func Struct(s any) error {
	return Get().Struct(s)
}

// FormatValidationError 검증 에러를 사용자에게 보여줄 한글 메시지로 변환합니다.
// 여러 필드가 실패한 경우 첫 번째 에러만 변환합니다.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	return formatFieldError(validationErrors[0])
}

func formatFieldError(fe validator.FieldError) string {
	name := fe.Field()
	topic := name + topicParticle(name)

	isString := fe.Kind() == reflect.String
	isCollection := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array || fe.Kind() == reflect.Map

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s 필수입니다", topic)
	case "min", "gte":
		switch {
		case isString:
			return fmt.Sprintf("%s 최소 %s자 이상이어야 합니다", topic, fe.Param())
		case isCollection:
			return fmt.Sprintf("%s 최소 %s개 이상이어야 합니다", topic, fe.Param())
		}
		return fmt.Sprintf("%s %s 이상이어야 합니다", topic, fe.Param())
	case "max", "lte":
		switch {
		case isString:
			return fmt.Sprintf("%s 최대 %s자까지 입력 가능합니다", topic, fe.Param())
		case isCollection:
			return fmt.Sprintf("%s 최대 %s개까지 가능합니다", topic, fe.Param())
		}
		return fmt.Sprintf("%s %s 이하이어야 합니다", topic, fe.Param())
	case "len":
		if isString {
			return fmt.Sprintf("%s %s자여야 합니다", topic, fe.Param())
		}
		return fmt.Sprintf("%s %s개여야 합니다", topic, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s 허용된 값 중 하나여야 합니다 [%s]", topic, fe.Param())
	case "url", "http_url":
		return fmt.Sprintf("%s 올바른 URL 형식이어야 합니다", topic)
	case "email":
		return fmt.Sprintf("%s 올바른 이메일 형식이어야 합니다", topic)
	case "boolean":
		return fmt.Sprintf("%s true 또는 false 값이어야 합니다", topic)
	default:
		return fmt.Sprintf("%s 값 검증 실패 (%s)", name, fe.Tag())
	}
}

// topicParticle 단어의 마지막 글자에 받침이 있으면 "은", 없으면 "는"을 반환합니다.
// 한글로 끝나지 않는 단어는 "는"을 사용합니다.
func topicParticle(word string) string {
	if word == "" {
		return "는"
	}

	r := []rune(word)
	last := r[len(r)-1]
	if last >= '가' && last <= '힣' && (last-'가')%28 != 0 {
		return "은"
	}
	return "는"
}
