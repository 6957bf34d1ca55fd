package api

import (
	"github.com/darkkaiser/price-tracker/internal/service/api/handler/product"
	"github.com/darkkaiser/price-tracker/internal/service/api/handler/system"
	appmiddleware "github.com/darkkaiser/price-tracker/internal/service/api/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes API 서비스의 라우트를 등록합니다.
//
//   - 시스템 엔드포인트: /health, /version
//   - 상품 엔드포인트: /api/scrape, /api/products...
//
// 수집 요청은 외부 API 호출 비용이 크므로 전역 제한과 별도로 scrapeLimit를 적용합니다.
func RegisterRoutes(e *echo.Echo, sh *system.Handler, ph *product.Handler, scrapeLimit appmiddleware.RateLimitConfig) {
	registerSystemRoutes(e, sh)
	registerProductRoutes(e, ph, scrapeLimit)
}

func registerSystemRoutes(e *echo.Echo, h *system.Handler) {
	e.GET("/health", h.HealthCheckHandler)
	e.GET("/version", h.VersionHandler)
}

func registerProductRoutes(e *echo.Echo, h *product.Handler, scrapeLimit appmiddleware.RateLimitConfig) {
	g := e.Group("/api")

	g.POST("/scrape", h.ScrapeHandler,
		appmiddleware.RateLimit(scrapeLimit),
		appmiddleware.ValidateContentType(echo.MIMEApplicationJSON),
	)

	g.GET("/products", h.ListHandler)
	g.GET("/products/stats/summary", h.StatsHandler)
	g.GET("/products/:id", h.GetHandler)
}
