package middleware

import (
	"net/url"
	"strconv"
	"time"

	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/darkkaiser/price-tracker/pkg/strutil"
	"github.com/labstack/echo/v4"
)

// componentHTTP HTTP 접근 로그의 컴포넌트 이름
const componentHTTP = "api.http"

// defaultBytesIn Content-Length 헤더가 없을 때 bytes_in 필드에 기록되는 값
const defaultBytesIn = "0"

// sensitiveQueryParams 로그에 남길 때 값을 마스킹해야 하는 쿼리 파라미터 목록입니다.
var sensitiveQueryParams = []string{
	"api_key",
	"password",
	"token",
	"secret",
}

// HTTPLogger HTTP 요청/응답을 구조화된 로그로 기록하는 미들웨어를 반환합니다.
//
// 핸들러가 반환한 에러는 이 미들웨어에서 c.Error로 처리하여, 로그에 최종 상태 코드가 기록되도록 합니다.
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			defer func() {
				latency := time.Since(start)

				path := req.URL.Path
				if path == "" {
					path = "/"
				}

				bytesIn := req.Header.Get(echo.HeaderContentLength)
				if bytesIn == "" {
					bytesIn = defaultBytesIn
				}

				applog.WithComponentAndFields(componentHTTP, applog.Fields{
					"method":        req.Method,
					"path":          path,
					"uri":           maskSensitiveQueryParams(req.RequestURI),
					"host":          req.Host,
					"protocol":      req.Proto,
					"remote_ip":     c.RealIP(),
					"user_agent":    req.UserAgent(),
					"referer":       req.Referer(),
					"status":        res.Status,
					"bytes_in":      bytesIn,
					"bytes_out":     strconv.FormatInt(res.Size, 10),
					"latency":       strconv.FormatInt(latency.Microseconds(), 10),
					"latency_human": latency.String(),
					"request_id":    res.Header().Get(echo.HeaderXRequestID),
				}).Info("HTTP 요청")
			}()

			if err := next(c); err != nil {
				c.Error(err)
			}

			return nil
		}
	}
}

// maskSensitiveQueryParams URI의 민감한 쿼리 파라미터 값을 마스킹합니다.
// URI 파싱에 실패하면 원본을 반환합니다.
//
//	"/api/products?token=secret123&q=laptop" -> "/api/products?q=laptop&token=secr%2A%2A%2A"
func maskSensitiveQueryParams(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	q := u.Query()
	masked := false

	for _, param := range sensitiveQueryParams {
		if q.Has(param) {
			q.Set(param, strutil.MaskSensitiveData(q.Get(param)))
			masked = true
		}
	}

	if !masked {
		return uri
	}

	u.RawQuery = q.Encode()
	return u.String()
}
