package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/darkkaiser/price-tracker/internal/config"
	"github.com/darkkaiser/price-tracker/internal/pkg/version"
	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	"github.com/darkkaiser/price-tracker/internal/service/api/handler/product"
	"github.com/darkkaiser/price-tracker/internal/service/api/handler/system"
	appmiddleware "github.com/darkkaiser/price-tracker/internal/service/api/middleware"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/labstack/echo/v4"
)

// Service 상품 조회 및 수집 요청 API 서버의 생명주기를 관리합니다.
//
// Start로 시작하며 서버는 고루틴에서 실행됩니다. serviceStopCtx가 취소되면
// Graceful Shutdown(최대 5초)을 수행한 뒤 serviceStopWG.Done()을 호출합니다.
type Service struct {
	appConfig *config.AppConfig

	tracker product.Tracker
	store   contract.ProductStore

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, tracker product.Tracker, store contract.ProductStore, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic(constants.PanicMsgAppConfigRequired)
	}
	if tracker == nil {
		panic(constants.PanicMsgTrackerRequired)
	}
	if store == nil {
		panic(constants.PanicMsgStoreRequired)
	}

	return &Service{
		appConfig: appConfig,

		tracker: tracker,
		store:   store,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다. 이 함수는 즉시 반환되며 실제 서버는 고루틴에서 실행됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버를 생성하고 핸들러와 라우트를 등록합니다.
func (s *Service) setupServer() *echo.Echo {
	httpCfg := s.appConfig.HTTPServer

	systemHandler := system.New(s.store, s.buildInfo)
	productHandler := product.New(s.tracker, s.store)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:          s.appConfig.Debug,
		AllowOrigins:   httpCfg.CORS.AllowOrigins,
		RequestTimeout: httpCfg.RequestTimeout,
		BodyLimit:      httpCfg.BodyLimit,
		RateLimit: appmiddleware.RateLimitConfig{
			Requests: httpCfg.RateLimit.Requests,
			Per:      httpCfg.RateLimit.Per,
			Burst:    httpCfg.RateLimit.Burst,
		},
	})

	RegisterRoutes(e, systemHandler, productHandler, appmiddleware.RateLimitConfig{
		Requests: httpCfg.ScrapeRateLimit.Requests,
		Per:      httpCfg.ScrapeRateLimit.Per,
		Burst:    httpCfg.ScrapeRateLimit.Burst,
		Err:      appmiddleware.ErrTooManyScrapes,
	})

	return e
}

// startHTTPServer HTTP 서버를 시작하고, 서버가 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.HTTPServer.ListenPort
	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port": port,
	}).Info(constants.LogMsgHTTPServerStarting)

	s.handleServerError(e.Start(fmt.Sprintf(":%d", port)))
}

func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgHTTPServerStopped)
		return
	}

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"port":  s.appConfig.HTTPServer.ListenPort,
		"error": err,
	}).Error(constants.LogMsgHTTPServerFatalError)
}

// waitForShutdown 종료 신호 또는 서버의 조기 종료를 기다린 뒤 상태를 정리합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)
	case <-httpServerDone:
		// 포트 바인딩 실패 등으로 서버가 이미 종료되었으므로 Shutdown 없이 상태만 정리
		applog.WithComponent(constants.ComponentService).Error(constants.LogMsgServiceUnexpectedExit)

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgHTTPServerShutdownError)
	}

	<-httpServerDone

	s.cleanup()
}

func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}
