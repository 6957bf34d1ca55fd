// Package scheduler 설정 파일에 정의된 검색어를 Cron 스케줄에 맞춰 주기적으로 수집합니다.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/darkkaiser/price-tracker/internal/config"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/pkg/cronx"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// Tracker 검색어 하나에 대한 수집 파이프라인을 실행합니다.
type Tracker interface {
	CollectAndPersist(ctx context.Context, searchTerm string, maxResults int) ([]contract.Product, error)
}

// Scheduler 활성화된 수집 작업을 Cron 스케줄에 맞춰 실행하는 서비스입니다.
type Scheduler struct {
	jobs []config.JobConfig

	tracker Tracker

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(jobs []config.JobConfig, tracker Tracker) *Scheduler {
	if tracker == nil {
		panic("Tracker는 필수입니다")
	}

	return &Scheduler{
		jobs:    jobs,
		tracker: tracker,
	}
}

// Start 활성화된 작업을 Cron 엔진에 등록하고 스케줄러를 시작합니다.
//
// serviceStopCtx가 취소되면 실행 중인 작업이 끝나기를 기다린 뒤 serviceStopWG.Done()을 호출합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Scheduler 서비스 초기화 프로세스를 시작합니다")

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// - Recover: 작업에서 panic이 발생해도 다른 작업에 영향을 주지 않음
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 이번 실행을 건너뜀
	logger := cron.VerbosePrintfLogger(applog.StandardLogger())
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(logger),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)

	s.registerJobs()

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_schedules": len(s.cron.Entries()),
		"total_defined_jobs":   len(s.jobs),
	}).Info("서비스 시작 완료: Scheduler 서비스가 정상적으로 초기화되었습니다")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 스케줄러를 중지하고 실행 중인 작업이 끝날 때까지 기다립니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Scheduler 서비스 중지 시그널을 수신했습니다")

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// registerJobs Enabled 작업만 등록합니다. 표현식이 잘못된 작업은 건너뜁니다.
func (s *Scheduler) registerJobs() {
	for _, job := range s.jobs {
		if !job.Enabled {
			continue
		}

		if _, err := s.cron.AddFunc(job.TimeSpec, func() { s.runJob(job) }); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"job_id": job.ID,
				"error":  NewErrInvalidCronSpec(job.ID, job.TimeSpec, err),
			}).Error("스케줄 등록 실패: 해당 작업을 건너뜁니다")
		}
	}
}

// runJob 작업 하나를 실행합니다.
//
// 종료 신호와 무관하게 context.Background()에서 파생된 컨텍스트를 사용합니다.
// cron.Stop()이 실행 중인 작업의 완료를 기다리므로 저장 도중 중단되지 않습니다.
func (s *Scheduler) runJob(job config.JobConfig) {
	start := time.Now()
	products, err := s.tracker.CollectAndPersist(context.Background(), job.SearchTerm, job.MaxResults)

	fields := applog.Fields{
		"job_id":      job.ID,
		"search_term": job.SearchTerm,
		"duration":    time.Since(start).String(),
	}

	if err != nil {
		fields["error"] = err
		applog.WithComponentAndFields(component, fields).Error("예약 수집 실패")
		return
	}

	fields["saved"] = len(products)
	applog.WithComponentAndFields(component, fields).Info("예약 수집 완료")
}
