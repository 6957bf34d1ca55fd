package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func newContext(e *echo.Echo, method, target, remoteAddr string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRateLimitConfig_Derived(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		cfg            RateLimitConfig
		wantLimit      rate.Limit
		wantRetryAfter string
	}{
		{name: "초당 20회", cfg: RateLimitConfig{Requests: 20, Per: time.Second, Burst: 40}, wantLimit: rate.Limit(20), wantRetryAfter: "1"},
		{name: "분당 5회", cfg: RateLimitConfig{Requests: 5, Per: time.Minute, Burst: 5}, wantLimit: rate.Every(12 * time.Second), wantRetryAfter: "12"},
		{name: "분당 1회", cfg: RateLimitConfig{Requests: 1, Per: time.Minute, Burst: 1}, wantLimit: rate.Every(time.Minute), wantRetryAfter: "60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, float64(tt.wantLimit), float64(tt.cfg.limit()), 1e-9)
			assert.Equal(t, tt.wantRetryAfter, tt.cfg.retryAfterSeconds())
		})
	}
}

func TestRateLimit_InvalidConfigPanics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  RateLimitConfig
	}{
		{name: "Requests 0", cfg: RateLimitConfig{Requests: 0, Per: time.Second, Burst: 1}},
		{name: "Per 0", cfg: RateLimitConfig{Requests: 1, Per: 0, Burst: 1}},
		{name: "Burst 음수", cfg: RateLimitConfig{Requests: 1, Per: time.Second, Burst: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, func() { RateLimit(tt.cfg) })
		})
	}
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	t.Parallel()

	e := echo.New()
	h := RateLimit(RateLimitConfig{Requests: 1, Per: time.Minute, Burst: 2})(okHandler)

	for i := 0; i < 2; i++ {
		c, rec := newContext(e, http.MethodGet, "/api/products", "10.0.0.1:1234")
		require.NoError(t, h(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	c, rec := newContext(e, http.MethodGet, "/api/products", "10.0.0.1:1234")
	err := h(c)
	require.Error(t, err)
	assert.Same(t, ErrRateLimitExceeded, err)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// 다른 IP는 독립적인 버킷을 사용한다
	c, rec = newContext(e, http.MethodGet, "/api/products", "10.0.0.2:1234")
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_CustomError(t *testing.T) {
	t.Parallel()

	errCustom := errors.New("too many scrapes")

	e := echo.New()
	h := RateLimit(RateLimitConfig{Requests: 1, Per: time.Hour, Burst: 1, Err: errCustom})(okHandler)

	c, _ := newContext(e, http.MethodPost, "/api/scrape", "10.0.0.3:1234")
	require.NoError(t, h(c))

	c, _ = newContext(e, http.MethodPost, "/api/scrape", "10.0.0.3:1234")
	assert.ErrorIs(t, h(c), errCustom)
}

func TestIPRateLimiter_GetLimiter(t *testing.T) {
	t.Parallel()

	t.Run("같은 IP는 같은 Limiter를 반환한다", func(t *testing.T) {
		t.Parallel()

		l := newIPRateLimiter(rate.Limit(1), 1)
		assert.Same(t, l.getLimiter("1.1.1.1"), l.getLimiter("1.1.1.1"))
		assert.NotSame(t, l.getLimiter("1.1.1.1"), l.getLimiter("2.2.2.2"))
	})

	t.Run("동시 접근", func(t *testing.T) {
		t.Parallel()

		l := newIPRateLimiter(rate.Limit(1), 1)

		var wg sync.WaitGroup
		results := make([]*rate.Limiter, 50)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = l.getLimiter("3.3.3.3")
			}(i)
		}
		wg.Wait()

		for _, r := range results {
			assert.Same(t, results[0], r)
		}
		assert.Len(t, l.limiters, 1)
	})

	t.Run("최대 개수를 넘지 않는다", func(t *testing.T) {
		t.Parallel()

		l := newIPRateLimiter(rate.Limit(1), 1)
		for i := 0; i < maxIPRateLimiters+10; i++ {
			l.getLimiter(string(rune('a'+i%26)) + time.Duration(i).String())
		}
		assert.LessOrEqual(t, len(l.limiters), maxIPRateLimiters)
	})
}
