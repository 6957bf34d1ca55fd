// Package constants API 서비스 전반에서 사용하는 상수를 정의합니다.
package constants

import "time"

// 로그 발생 위치(컴포넌트) 식별을 위한 상수입니다.
const (
	ComponentService      = "api.service"
	ComponentHandler      = "api.handler"
	ComponentMiddleware   = "api.middleware"
	ComponentErrorHandler = "api.error_handler"
)

// 서버 설정 기본값입니다.
const (
	// DefaultRequestTimeout 요청 하나의 최대 처리 시간
	DefaultRequestTimeout = 60 * time.Second

	DefaultReadTimeout       = 15 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// DefaultBodyLimit 요청 본문의 최대 크기 (Echo BodyLimit 형식)
	DefaultBodyLimit = "64K"

	// ShutdownTimeout Graceful Shutdown 시 최대 대기 시간
	ShutdownTimeout = 5 * time.Second
)

// 상품 조회 기본값입니다.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// 헬스체크 상태 값입니다.
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"

	DependencyStorage = "storage"
)
