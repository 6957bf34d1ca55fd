// Package middleware 상품 API 서버가 사용하는 Echo 미들웨어 모음입니다.
//
//   - PanicRecovery: 핸들러 패닉을 500 응답으로 변환하고 스택을 기록
//   - HTTPLogger: 요청 단위 접근 로그 (api_key, token 등 쿼리 값은 마스킹)
//   - RateLimit: 클라이언트 IP별 토큰 버킷 제한, 초과 시 429와 Retry-After
//   - ValidateContentType: 본문이 있는 요청의 미디어 타입 검사
//   - Logger: Echo 내부 로그를 logrus로 전달하는 어댑터
//
// 수집 요청(POST /api/scrape)은 전역 제한과 별도로 더 엄격한 RateLimit을 한 번 더 거칩니다.
//
//	e.Use(middleware.RateLimit(middleware.RateLimitConfig{Requests: 20, Per: time.Second, Burst: 40}))
//	api.POST("/scrape", h.ScrapeHandler, middleware.RateLimit(scrapeLimit))
package middleware
