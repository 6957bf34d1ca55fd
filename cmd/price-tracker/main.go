package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/darkkaiser/price-tracker/internal/config"
	"github.com/darkkaiser/price-tracker/internal/pkg/version"
	"github.com/darkkaiser/price-tracker/internal/service"
	"github.com/darkkaiser/price-tracker/internal/service/api"
	"github.com/darkkaiser/price-tracker/internal/service/collector"
	"github.com/darkkaiser/price-tracker/internal/service/collector/fallback"
	"github.com/darkkaiser/price-tracker/internal/service/collector/source"
	"github.com/darkkaiser/price-tracker/internal/service/collector/source/amazon"
	"github.com/darkkaiser/price-tracker/internal/service/collector/source/oxylabs"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/service/notification/telegram"
	"github.com/darkkaiser/price-tracker/internal/service/reconcile"
	"github.com/darkkaiser/price-tracker/internal/service/scheduler"
	"github.com/darkkaiser/price-tracker/internal/service/tracker"
	"github.com/darkkaiser/price-tracker/internal/store/memory"
	"github.com/darkkaiser/price-tracker/internal/store/sqlite"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	log "github.com/sirupsen/logrus"
)

const (
	banner = `
  ____         _                 _____                     _
 |  _ \  _ __ (_)  ___  ___     |_   _|_ __  __ _   ___  | | __ ___  _ __
 | |_) || '__|| | / __|/ _ \      | | | '__|/ _' | / __| | |/ // _ \| '__|
 |  __/ | |   | || (__|  __/      | | | |  | (_| || (__  |   <|  __/| |
 |_|    |_|   |_| \___|\___|      |_| |_|   \__,_| \___| |_|\_\\___||_|
                                                                  %s
                                                        developed by DarkKaiser
--------------------------------------------------------------------------------
`

	componentMain = "main"
)

func main() {
	configFile := flag.String("config", config.DefaultFilename, "설정 파일 경로")
	seedOnly := flag.Bool("seed", false, "대체 데이터셋을 저장소에 적재한 뒤 종료")
	flag.Parse()

	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	logOpts := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}

	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields(componentMain, log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent(componentMain).Warn(warning)
	}

	code := run(appConfig, buildInfo, *seedOnly)

	appLogCloser.Close()
	os.Exit(code)
}

// run 저장소와 서비스를 구성하고 종료 신호를 받을 때까지 실행합니다. 반환값은 프로세스 종료 코드입니다.
func run(appConfig *config.AppConfig, buildInfo version.Info, seedOnly bool) int {
	store, err := openStore(context.Background(), appConfig.Storage)
	if err != nil {
		applog.WithComponentAndFields(componentMain, log.Fields{
			"driver": appConfig.Storage.Driver,
			"error":  err,
		}).Error("저장소 초기화 실패")
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			applog.WithComponentAndFields(componentMain, log.Fields{"error": err}).Warn("저장소 종료 중 오류가 발생했습니다")
		}
	}()

	var notifier *telegram.Notifier
	if appConfig.Notifier.Telegram.Enabled {
		notifier, err = telegram.New(appConfig.Notifier.Telegram)
		if err != nil {
			applog.WithComponentAndFields(componentMain, log.Fields{"error": err}).Error("텔레그램 알림 서비스 초기화 실패")
			return 1
		}
	}

	priceTracker := newTracker(appConfig, store, notifier)

	if seedOnly {
		n, err := priceTracker.Seed(context.Background())
		if err != nil {
			applog.WithComponentAndFields(componentMain, log.Fields{
				"file":  appConfig.Collector.FallbackFile,
				"error": err,
			}).Error("시드 데이터 적재 실패")
			return 1
		}

		applog.WithComponentAndFields(componentMain, log.Fields{"count": n}).Info("시드 데이터 적재 완료")
		return 0
	}

	services := []service.Service{
		scheduler.NewService(appConfig.Scheduler.Jobs, priceTracker),
		api.NewService(appConfig, priceTracker, store, buildInfo),
	}
	if notifier != nil {
		services = append([]service.Service{notifier}, services...)
	}

	serviceStopCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serviceStopWG := &sync.WaitGroup{}

	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields(componentMain, log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			return 1
		}
	}

	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponentAndFields(componentMain, log.Fields{
		"port": appConfig.HTTPServer.ListenPort,
	}).Info("서버 가동 완료")

	<-termC

	applog.WithComponent(componentMain).Info("종료 신호 수신: 서비스를 정리합니다")
	cancel()
	serviceStopWG.Wait()

	return 0
}

// openStore 설정된 드라이버로 상품 저장소를 엽니다.
func openStore(ctx context.Context, cfg config.StorageConfig) (contract.ProductStore, error) {
	if cfg.Driver == "memory" {
		return memory.New(), nil
	}

	s, err := sqlite.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// newSources 활성화된 수집 소스를 등록 순서(구조화 API, HTML 스크래핑)대로 생성합니다.
func newSources(cfg config.SourcesConfig) []source.Source {
	var sources []source.Source

	if cfg.Oxylabs.Enabled {
		sources = append(sources, oxylabs.New(oxylabs.Config{
			Username: cfg.Oxylabs.Username,
			Password: cfg.Oxylabs.Password,
			Endpoint: cfg.Oxylabs.Endpoint,
			Timeout:  cfg.Oxylabs.Timeout,
		}))
	}
	if cfg.Amazon.Enabled {
		sources = append(sources, amazon.New(amazon.Config{
			BaseURL:          cfg.Amazon.BaseURL,
			Timeout:          cfg.Amazon.Timeout,
			MaxResponseBytes: cfg.Amazon.MaxResponseBytes,
		}))
	}

	return sources
}

// newTracker 수집, 보완, 병합 단계를 연결한 Tracker를 생성합니다. notifier가 nil이면 가격 변동 알림을 보내지 않습니다.
func newTracker(appConfig *config.AppConfig, repo contract.ProductRepository, notifier *telegram.Notifier) *tracker.Tracker {
	dataset := fallback.New(appConfig.Collector.FallbackFile)

	var fb collector.FallbackProvider
	if appConfig.Collector.FallbackEnabled {
		fb = dataset
	}

	resolverOpts := []reconcile.ResolverOption{
		reconcile.WithRecordDelay(appConfig.Reconcile.RecordDelay),
	}
	if notifier != nil {
		resolverOpts = append(resolverOpts, reconcile.WithPriceObserver(notifier))
	}

	return tracker.New(
		collector.New(newSources(appConfig.Sources), fb),
		reconcile.NewCompleter(nil, nil),
		reconcile.NewResolver(repo, resolverOpts...),
		tracker.WithDefaultMaxResults(appConfig.Collector.DefaultMaxResults),
		tracker.WithStrictConfiguration(!appConfig.Sources.Amazon.Enabled && !appConfig.Collector.FallbackEnabled),
		tracker.WithSeed(dataset, repo),
	)
}
