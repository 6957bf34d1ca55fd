package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/price-tracker/internal/config"
	"github.com/darkkaiser/price-tracker/internal/pkg/version"
	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	"github.com/darkkaiser/price-tracker/internal/service/api/model/product"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/store/memory"
	"github.com/darkkaiser/price-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// Test Helpers
// =============================================================================

type stubTracker struct {
	products []contract.Product
	err      error
}

func (s stubTracker) CollectAndPersist(context.Context, string, int) ([]contract.Product, error) {
	return s.products, s.err
}

func newTestConfig(port int) *config.AppConfig {
	cfg := &config.AppConfig{Debug: true}
	cfg.HTTPServer = config.HTTPServerConfig{
		ListenPort:      port,
		RequestTimeout:  10 * time.Second,
		BodyLimit:       "64K",
		RateLimit:       config.RateLimitConfig{Requests: 100, Per: time.Second, Burst: 100},
		ScrapeRateLimit: config.RateLimitConfig{Requests: 1, Per: time.Minute, Burst: 1},
		CORS:            config.CORSConfig{AllowOrigins: []string{"*"}},
	}
	return cfg
}

func newTestService(t *testing.T, port int) *Service {
	t.Helper()

	return NewService(newTestConfig(port), stubTracker{products: []contract.Product{}}, memory.New(), version.Info{Version: "1.0.0"})
}

// =============================================================================
// Constructor
// =============================================================================

func TestNewService(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(8080)
	store := memory.New()

	t.Run("성공", func(t *testing.T) {
		t.Parallel()

		s := NewService(cfg, stubTracker{}, store, version.Info{Version: "1.2.3"})
		assert.Same(t, cfg, s.appConfig)
		assert.Equal(t, "1.2.3", s.buildInfo.Version)
		assert.False(t, s.running)
	})

	t.Run("필수 의존성 누락", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, constants.PanicMsgAppConfigRequired, func() { NewService(nil, stubTracker{}, store, version.Info{}) })
		assert.PanicsWithValue(t, constants.PanicMsgTrackerRequired, func() { NewService(cfg, nil, store, version.Info{}) })
		assert.PanicsWithValue(t, constants.PanicMsgStoreRequired, func() { NewService(cfg, stubTracker{}, nil, version.Info{}) })
	})
}

// =============================================================================
// Server Setup
// =============================================================================

func TestService_setupServer(t *testing.T) {
	t.Parallel()

	e := newTestService(t, 8080).setupServer()
	require.NotNil(t, e)
	assert.True(t, e.Debug)

	routes := make(map[string]bool)
	for _, r := range e.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /version",
		"POST /api/scrape",
		"GET /api/products",
		"GET /api/products/:id",
		"GET /api/products/stats/summary",
	} {
		assert.True(t, routes[want], "%s 라우트가 등록되어야 함", want)
	}
}

func TestService_handleServerError(t *testing.T) {
	t.Parallel()

	s := newTestService(t, 8080)

	assert.NotPanics(t, func() {
		s.handleServerError(nil)
		s.handleServerError(http.ErrServerClosed)
		s.handleServerError(assert.AnError)
	})
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestService_Lifecycle(t *testing.T) {
	port, err := testutil.GetFreePort()
	require.NoError(t, err)

	s := newTestService(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))
	require.NoError(t, testutil.WaitForServer(port, 2*time.Second))

	s.runningMu.Lock()
	assert.True(t, s.running)
	s.runningMu.Unlock()

	baseURL := fmt.Sprintf("http://localhost:%d", port)

	resp, err := http.Get(baseURL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Server"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	resp.Body.Close()

	// 수집 요청 전용 제한 (분당 1회)
	scrape := func() *http.Response {
		resp, err := http.Post(baseURL+"/api/scrape", "application/json", strings.NewReader(`{"searchTerm":"laptop"}`))
		require.NoError(t, err)
		return resp
	}

	first := scrape()
	var body product.ScrapeResponse
	require.NoError(t, json.NewDecoder(first.Body).Decode(&body))
	first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.True(t, body.Success)

	second := scrape()
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, "60", second.Header.Get("Retry-After"))

	// 중복 시작은 무시된다
	wg.Add(1)
	require.NoError(t, s.Start(ctx, wg))

	http.DefaultClient.CloseIdleConnections()
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(constants.ShutdownTimeout + time.Second):
		t.Fatal("서비스가 제한 시간 내에 종료되지 않았습니다")
	}

	s.runningMu.Lock()
	assert.False(t, s.running)
	s.runningMu.Unlock()
}

func TestService_PortInUse(t *testing.T) {
	port, err := testutil.GetFreePort()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := newTestService(t, port)
	wg := &sync.WaitGroup{}
	wg.Add(1)
	require.NoError(t, first.Start(ctx, wg))
	require.NoError(t, testutil.WaitForServer(port, 2*time.Second))

	// 같은 포트로 시작한 두 번째 서비스는 즉시 종료되어야 한다
	second := newTestService(t, port)
	wg2 := &sync.WaitGroup{}
	wg2.Add(1)
	require.NoError(t, second.Start(context.Background(), wg2))

	done := make(chan struct{})
	go func() {
		wg2.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("포트 충돌 시 서비스가 종료되어야 합니다")
	}

	second.runningMu.Lock()
	assert.False(t, second.running)
	second.runningMu.Unlock()

	cancel()
	wg.Wait()
}
