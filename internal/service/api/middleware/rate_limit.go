package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// maxIPRateLimiters 메모리에 유지하는 최대 고유 IP 수
	// 초과하면 맵에서 임의의 항목 하나를 제거합니다.
	maxIPRateLimiters = 10000

	retryAfter = "Retry-After"
)

// RateLimitConfig IP별 요청 허용량입니다. Per 동안 Requests 회의 요청을 허용하며,
// 순간적으로는 Burst 회까지 허용합니다.
type RateLimitConfig struct {
	Requests int
	Per      time.Duration
	Burst    int

	// Err 제한을 초과했을 때 반환할 에러 (nil이면 ErrRateLimitExceeded)
	Err error
}

func (c RateLimitConfig) limit() rate.Limit {
	return rate.Every(c.Per / time.Duration(c.Requests))
}

// retryAfterSeconds 토큰 하나가 다시 채워지는 데 걸리는 시간(초, 올림)
func (c RateLimitConfig) retryAfterSeconds() string {
	interval := c.Per / time.Duration(c.Requests)
	return strconv.Itoa(max(1, int(math.Ceil(interval.Seconds()))))
}

// ipRateLimiter IP 주소별 Rate Limiter를 관리합니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPRateLimiter(r rate.Limit, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
}

// getLimiter 특정 IP의 Rate Limiter를 반환합니다. 없으면 새로 생성합니다.
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limiters[ip]
	i.mu.RUnlock()

	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double-check: 다른 고루틴이 이미 생성했을 수 있음
	limiter, exists = i.limiters[ip]
	if exists {
		return limiter
	}

	if len(i.limiters) >= maxIPRateLimiters {
		for oldIP := range i.limiters {
			delete(i.limiters, oldIP)
			break
		}
	}

	limiter = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = limiter

	return limiter
}

// RateLimit IP 기반 Rate Limiting 미들웨어를 반환합니다.
//
// Token Bucket 알고리즘으로 IP별 요청 속도를 제한하며, 초과 시 429와 Retry-After 헤더를 반환합니다.
// 서버 전역 제한과 수집 요청 전용 제한처럼 서로 다른 설정으로 여러 번 생성할 수 있습니다.
//
// Panics:
//   - Requests, Per, Burst 중 하나라도 0 이하인 경우
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 {
		panic(fmt.Sprintf("RateLimit: Requests는 양수여야 합니다 (현재값: %d)", cfg.Requests))
	}
	if cfg.Per <= 0 {
		panic(fmt.Sprintf("RateLimit: Per는 양수여야 합니다 (현재값: %s)", cfg.Per))
	}
	if cfg.Burst <= 0 {
		panic(fmt.Sprintf("RateLimit: Burst는 양수여야 합니다 (현재값: %d)", cfg.Burst))
	}

	limitErr := cfg.Err
	if limitErr == nil {
		limitErr = ErrRateLimitExceeded
	}

	limiter := newIPRateLimiter(cfg.limit(), cfg.Burst)
	retryAfterSeconds := cfg.retryAfterSeconds()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if !limiter.getLimiter(ip).Allow() {
				applog.WithComponentAndFields(constants.ComponentMiddleware, applog.Fields{
					"remote_ip": ip,
					"path":      c.Request().URL.Path,
					"method":    c.Request().Method,
				}).Warn("요청 차단: 속도 제한(Rate Limit)을 초과하였습니다")

				c.Response().Header().Set(retryAfter, retryAfterSeconds)

				return limitErr
			}

			return next(c)
		}
	}
}
