package api

import (
	"net/http"
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	"github.com/darkkaiser/price-tracker/internal/service/api/httputil"
	appmiddleware "github.com/darkkaiser/price-tracker/internal/service/api/middleware"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// writeTimeoutMargin 응답 쓰기 제한은 요청 처리 제한보다 이만큼 길게 설정합니다.
const writeTimeoutMargin = 5 * time.Second

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// AllowOrigins CORS에서 허용할 Origin 목록
	AllowOrigins []string

	// RequestTimeout 각 HTTP 요청의 최대 처리 시간 (0이면 60초)
	// 수집 요청은 외부 API 호출과 레코드 간 대기 시간을 포함하므로 충분히 길게 설정합니다.
	RequestTimeout time.Duration

	// BodyLimit 요청 본문의 최대 크기 (예: "64K", 빈 값이면 64K)
	BodyLimit string

	// RateLimit 서버 전역 IP별 요청 제한
	RateLimit appmiddleware.RateLimitConfig
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다:
//
//  1. PanicRecovery - 다른 미들웨어에서 발생한 panic까지 복구하도록 가장 먼저 적용
//  2. RequestID - 로그에 request_id가 남도록 로깅보다 먼저 적용
//  3. Server 헤더 제거
//  4. HTTPLogger - 429/413/503 응답도 기록되도록 제한 미들웨어보다 먼저 적용
//  5. RateLimit - IP별 전역 요청 제한
//  6. BodyLimit - 요청 본문 크기 제한 (초과 시 413)
//  7. Timeout - 요청 처리 시간 제한 (초과 시 503)
//  8. CORS
//  9. Secure - 보안 헤더
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 RegisterRoutes로 별도 등록합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true
	e.HidePort = true

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}

	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = constants.DefaultBodyLimit
	}

	e.Server.ReadTimeout = constants.DefaultReadTimeout
	e.Server.ReadHeaderTimeout = constants.DefaultReadHeaderTimeout
	e.Server.WriteTimeout = timeout + writeTimeoutMargin
	e.Server.IdleTimeout = constants.DefaultIdleTimeout

	// Echo 내부 로그를 애플리케이션 로거로 통합합니다.
	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}

	e.HTTPErrorHandler = httputil.ErrorHandler

	e.Use(appmiddleware.PanicRecovery())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	e.Use(appmiddleware.RateLimit(cfg.RateLimit))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout:      timeout,
		ErrorMessage: constants.ErrMsgGatewayTimeout,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Use(middleware.Secure())

	return e
}
