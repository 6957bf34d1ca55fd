package middleware

import (
	"mime"
	"strings"

	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/labstack/echo/v4"
)

// ValidateContentType 본문이 있는 요청의 미디어 타입이 mediaType과 같은지 검사합니다.
//
// charset 등의 파라미터와 대소문자는 무시합니다. 일치하지 않으면 415를 반환합니다.
func ValidateContentType(mediaType string) echo.MiddlewareFunc {
	want := strings.ToLower(mediaType)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil || req.ContentLength == 0 {
				return next(c)
			}

			header := req.Header.Get(echo.HeaderContentType)
			if got, _, err := mime.ParseMediaType(header); err == nil && got == want {
				return next(c)
			}

			applog.WithComponentAndFields(constants.ComponentMiddleware, applog.Fields{
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
				"path":       req.URL.Path,
				"expected":   want,
				"actual":     header,
				"remote_ip":  c.RealIP(),
			}).Warn("지원하지 않는 Content-Type 요청을 거부했습니다")

			return ErrUnsupportedMediaType
		}
	}
}
