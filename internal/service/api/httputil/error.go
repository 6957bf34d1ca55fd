package httputil

import (
	"errors"
	"net/http"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	"github.com/darkkaiser/price-tracker/internal/service/api/model/response"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/labstack/echo/v4"
)

// ErrorHandler Echo 프레임워크의 전역 에러 핸들러입니다.
//
// echo.HTTPError와 AppError를 모두 표준 ErrorResponse JSON으로 변환합니다.
// AppError는 타입에 따라 상태 코드가 정해지며, 5xx 응답에는 내부 메시지를 노출하지 않습니다.
func ErrorHandler(err error, c echo.Context) {
	code, message := resolve(err)

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if code >= http.StatusInternalServerError {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Error(constants.LogMsgHTTP5xxServerError)
	} else if code >= http.StatusBadRequest {
		applog.WithComponentAndFields(constants.ComponentErrorHandler, fields).Warn(constants.LogMsgHTTP4xxClientError)
	}

	// 이미 응답이 전송된 경우 추가 응답 시도하지 않음
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, response.ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

func resolve(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := constants.ErrMsgInternalServer
		switch m := he.Message.(type) {
		case string:
			message = m
		case response.ErrorResponse:
			message = m.Message
		}

		switch he.Code {
		case http.StatusNotFound:
			if _, custom := he.Message.(response.ErrorResponse); !custom {
				message = constants.ErrMsgNotFound
			}
		case http.StatusRequestEntityTooLarge:
			message = constants.ErrMsgBodyTooLarge
		case http.StatusServiceUnavailable:
			if _, custom := he.Message.(response.ErrorResponse); !custom {
				message = constants.ErrMsgServiceUnavailable
			}
		}
		return he.Code, message
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		code := StatusCode(appErr.Type())
		if code >= http.StatusInternalServerError {
			return code, defaultMessage(code)
		}
		return code, appErr.Message()
	}

	return http.StatusInternalServerError, constants.ErrMsgInternalServer
}

// StatusCode 에러 타입에 대응하는 HTTP 상태 코드를 반환합니다.
func StatusCode(t apperrors.ErrorType) int {
	switch t {
	case apperrors.InvalidInput:
		return http.StatusBadRequest
	case apperrors.Unauthorized:
		return http.StatusUnauthorized
	case apperrors.Forbidden:
		return http.StatusForbidden
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Conflict:
		return http.StatusConflict
	case apperrors.Timeout:
		return http.StatusGatewayTimeout
	case apperrors.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(code int) string {
	switch code {
	case http.StatusGatewayTimeout:
		return constants.ErrMsgGatewayTimeout
	case http.StatusServiceUnavailable:
		return constants.ErrMsgServiceUnavailable
	default:
		return constants.ErrMsgInternalServer
	}
}
