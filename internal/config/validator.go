package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

// telegramBotTokenRegex 예: 123456789:ABC-DEF1234ghIkl-zyx57W2v1u123ew11
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

// newValidator 커스텀 규칙이 등록된 Validator를 생성합니다.
// 에러 메시지에는 Go 필드명 대신 JSON 키 이름이 사용됩니다.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"cors_origin":        validateCORSOrigin,
		"cron_spec":          validateCronSpec,
		"telegram_bot_token": validateTelegramBotToken,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("초기화 치명적 오류: '%s' 유효성 검사 함수 등록에 실패했습니다: %v", tag, err))
		}
	}

	return v
}

// validateCORSOrigin Scheme://Host[:Port] 형식이거나 와일드카드(*)인지 검사합니다.
func validateCORSOrigin(fl validator.FieldLevel) bool {
	origin := strings.TrimSpace(fl.Field().String())
	if origin == "*" {
		return true
	}
	if origin == "" || strings.HasSuffix(origin, "/") {
		return false
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return false
	}

	host := u.Hostname()
	if host == "" {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return true
	}
	return host == "localhost" || strings.Contains(host, ".")
}

func validateCronSpec(fl validator.FieldLevel) bool {
	return cronx.Validate(fl.Field().String()) == nil
}

func validateTelegramBotToken(fl validator.FieldLevel) bool {
	return telegramBotTokenRegex.MatchString(fl.Field().String())
}

// checkStruct 구조체를 검증하고 첫 번째 실패 항목을 사용자 친화적인 InvalidInput 에러로 변환합니다.
func checkStruct(v *validator.Validate, s any, contextName string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}

	fe := validationErrs[0]
	return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s 설정이 올바르지 않습니다: %s", contextName, describeFieldError(fe)))
}

// describeFieldError 검증 실패 항목을 설정 파일 키 경로와 함께 설명합니다.
func describeFieldError(fe validator.FieldError) string {
	// Namespace 예: AppConfig.http_server.listen_port
	key := fe.Namespace()
	if idx := strings.Index(key, "."); idx != -1 {
		key = key[idx+1:]
	}

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("'%s' 항목은 필수입니다", key)
	case "min", "gte":
		return fmt.Sprintf("'%s' 항목은 %s 이상이어야 합니다 (입력값: %v)", key, fe.Param(), fe.Value())
	case "max", "lte":
		return fmt.Sprintf("'%s' 항목은 %s 이하이어야 합니다 (입력값: %v)", key, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("'%s' 항목은 %s보다 커야 합니다 (입력값: %v)", key, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("'%s' 항목은 [%s] 중 하나여야 합니다 (입력값: %v)", key, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("'%s' 항목이 올바른 URL이 아닙니다 (입력값: %v)", key, fe.Value())
	case "file":
		return fmt.Sprintf("'%s' 항목이 가리키는 파일을 찾을 수 없습니다 (입력값: %v)", key, fe.Value())
	case "unique":
		return fmt.Sprintf("'%s' 목록에 중복된 ID가 존재합니다", key)
	case "cors_origin":
		return fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", fe.Value())
	case "cron_spec":
		return fmt.Sprintf("'%s' 항목의 Cron 표현식이 유효하지 않습니다: '%v' (예: 0 0 */6 * * *)", key, fe.Value())
	case "telegram_bot_token":
		return fmt.Sprintf("'%s' 항목이 텔레그램 봇 토큰 형식이 아닙니다", key)
	default:
		return fmt.Sprintf("'%s' 항목이 조건(%s)을 만족하지 않습니다", key, fe.Tag())
	}
}
