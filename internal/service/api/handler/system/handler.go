// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 헬스체크, 버전 정보 등 상품 데이터와 무관한 시스템 수준의 API를 처리합니다.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/darkkaiser/price-tracker/internal/pkg/version"
	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	"github.com/darkkaiser/price-tracker/internal/service/api/model/system"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/labstack/echo/v4"
)

// pingTimeout 저장소 헬스체크 한 번에 허용하는 최대 시간
const pingTimeout = 2 * time.Second

// Pinger 연결 상태를 확인할 수 있는 의존성입니다.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	storage Pinger

	buildInfo version.Info

	serverStartTime time.Time
}

// New Handler 인스턴스를 생성합니다.
func New(storage Pinger, buildInfo version.Info) *Handler {
	if storage == nil {
		panic(constants.PanicMsgStoreRequired)
	}

	return &Handler{
		storage: storage,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler 서버와 저장소의 상태를 반환합니다.
//
// 저장소 Ping이 실패하면 전체 상태는 unhealthy가 되지만 응답 코드는 200을 유지합니다.
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/health",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgHealthCheck)

	deps := map[string]system.DependencyStatus{
		constants.DependencyStorage: h.checkStorage(c.Request().Context()),
	}

	// 하나라도 unhealthy면 전체 상태를 unhealthy로 설정
	serverStatus := constants.HealthStatusHealthy
	for _, dep := range deps {
		if dep.Status != constants.HealthStatusHealthy {
			serverStatus = constants.HealthStatusUnhealthy
			break
		}
	}

	return c.JSON(http.StatusOK, system.HealthResponse{
		Status:       serverStatus,
		Uptime:       int64(time.Since(h.serverStartTime).Seconds()),
		Dependencies: deps,
	})
}

func (h *Handler) checkStorage(ctx context.Context) system.DependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := h.storage.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return system.DependencyStatus{
			Status:    constants.HealthStatusUnhealthy,
			LatencyMs: latency,
			Message:   err.Error(),
		}
	}

	return system.DependencyStatus{
		Status:    constants.HealthStatusHealthy,
		LatencyMs: latency,
		Message:   constants.MsgStorageHealthy,
	}
}

// VersionHandler 빌드 버전 정보를 반환합니다.
func (h *Handler) VersionHandler(c echo.Context) error {
	applog.WithComponentAndFields(constants.ComponentHandler, applog.Fields{
		"endpoint":  "/version",
		"method":    c.Request().Method,
		"remote_ip": c.RealIP(),
	}).Debug(constants.LogMsgVersionInfo)

	return c.JSON(http.StatusOK, system.VersionResponse{
		Version:     h.buildInfo.Version,
		Commit:      h.buildInfo.Commit,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   h.buildInfo.GoVersion,
	})
}
