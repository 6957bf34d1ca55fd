// Package tracker 검색어 하나에 대한 수집, 보완, 저장 과정을 하나의 작업으로 묶습니다.
package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/collector"
	"github.com/darkkaiser/price-tracker/internal/service/collector/source"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
)

const component = "tracker"

// DefaultMaxResults 호출자가 최대 결과 수를 지정하지 않았을 때 사용하는 값
const DefaultMaxResults = 10

// seedSearchTerm 시드 데이터 중 카테고리가 없는 항목에 사용할 검색어
const seedSearchTerm = "sample"

// Collector 검색어로 부분 상품 정보를 수집합니다.
type Collector interface {
	Collect(ctx context.Context, searchTerm string, maxResults int) ([]contract.Listing, collector.Report)
}

// Completer 부분 상품 정보를 저장 가능한 레코드로 보완합니다.
type Completer interface {
	Complete(l contract.Listing, searchTerm string) contract.Product
}

// Reconciler 레코드를 저장소의 기존 레코드와 대조하여 반영합니다.
type Reconciler interface {
	ReconcileAll(ctx context.Context, products []contract.Product) []contract.Product
}

// Dataset 시드용 상품 목록을 제공합니다. maxResults가 음수이면 전체를 반환합니다.
type Dataset interface {
	Fallback(maxResults int) ([]contract.Listing, error)
}

// Tracker 수집 요청의 진입점입니다.
type Tracker struct {
	collector  Collector
	completer  Completer
	reconciler Reconciler

	defaultMaxResults int

	// strictConfiguration 구조화 API가 유일한 수집 소스인 배포에서 설정 누락을 호출자에게 알릴지 여부
	strictConfiguration bool

	dataset Dataset
	repo    contract.ProductRepository
}

// Option Tracker 구성을 위한 옵션 함수 타입입니다.
type Option func(*Tracker)

// WithDefaultMaxResults maxResults가 0 이하일 때 사용할 값을 지정합니다.
func WithDefaultMaxResults(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.defaultMaxResults = n
		}
	}
}

// WithStrictConfiguration 수집 소스가 설정 누락으로 실패했을 때 에러를 반환하도록 합니다.
// 스크래핑과 대체 데이터셋이 모두 꺼져 있어 구조화 API만 남은 배포에서 사용합니다.
func WithStrictConfiguration(strict bool) Option {
	return func(t *Tracker) {
		t.strictConfiguration = strict
	}
}

// WithSeed Seed가 사용할 데이터셋과 저장소를 지정합니다.
func WithSeed(dataset Dataset, repo contract.ProductRepository) Option {
	return func(t *Tracker) {
		t.dataset = dataset
		t.repo = repo
	}
}

// New 새로운 Tracker를 생성합니다.
func New(c Collector, completer Completer, reconciler Reconciler, opts ...Option) *Tracker {
	if c == nil || completer == nil || reconciler == nil {
		panic("Collector, Completer, Reconciler는 필수입니다")
	}

	t := &Tracker{
		collector:         c,
		completer:         completer,
		reconciler:        reconciler,
		defaultMaxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// CollectAndPersist 검색어로 상품을 수집하고 보완하여 저장한 뒤, 저장에 성공한 레코드를 반환합니다.
//
// 수집 소스의 실패는 호출자에게 전파되지 않으며, 수집된 상품이 없으면 빈 목록을 반환합니다.
// 검색어가 비어 있으면 ErrSearchTermRequired를 반환합니다.
//
// 수집 주기는 호출자의 취소와 마감 시간에 영향을 받지 않고 끝까지 실행됩니다.
// 네트워크 대기 시간은 각 소스의 타임아웃으로만 제한됩니다.
func (t *Tracker) CollectAndPersist(ctx context.Context, searchTerm string, maxResults int) ([]contract.Product, error) {
	searchTerm = strings.TrimSpace(searchTerm)
	if searchTerm == "" {
		return nil, ErrSearchTermRequired
	}
	if maxResults <= 0 {
		maxResults = t.defaultMaxResults
	}

	// 클라이언트 연결 종료로 일부만 저장되는 일이 없도록 취소 신호를 끊는다
	ctx = context.WithoutCancel(ctx)

	start := time.Now()

	listings, report := t.collector.Collect(ctx, searchTerm, maxResults)
	if err := t.configurationError(report); err != nil {
		return nil, err
	}

	products := make([]contract.Product, 0, len(listings))
	for _, l := range listings {
		products = append(products, t.completer.Complete(l, searchTerm))
	}

	saved := t.reconciler.ReconcileAll(ctx, products)

	applog.WithComponentAndFields(component, applog.Fields{
		"search_term":   searchTerm,
		"max_results":   maxResults,
		"collected":     len(listings),
		"saved":         len(saved),
		"fallback_used": report.FallbackUsed,
		"elapsed":       time.Since(start).String(),
	}).Info("상품 수집 및 저장 완료")

	return saved, nil
}

// configurationError 엄격 모드에서 설정 누락으로 실패한 소스가 있고 결과가 하나도 없으면 에러를 반환합니다.
func (t *Tracker) configurationError(report collector.Report) error {
	if !t.strictConfiguration || report.Total() > 0 || (report.FallbackUsed && report.FallbackErr == nil) {
		return nil
	}

	for _, s := range report.Sources {
		if source.KindOf(s.Err) == source.KindConfiguration {
			return newErrSourceConfiguration(s.Err)
		}
	}
	return nil
}

// Seed 데이터셋 전체를 상품 URL 기준으로 저장소에 반영하고, 반영된 개수를 반환합니다.
//
// 이미 저장된 상품은 데이터셋의 값과 가격 이력으로 덮어씁니다.
func (t *Tracker) Seed(ctx context.Context) (int, error) {
	if t.dataset == nil || t.repo == nil {
		return 0, ErrSeedUnavailable
	}

	listings, err := t.dataset.Fallback(-1)
	if err != nil {
		return 0, err
	}

	seeded := 0
	for _, l := range listings {
		if err := ctx.Err(); err != nil {
			return seeded, err
		}

		term := l.Category
		if term == "" {
			term = seedSearchTerm
		}
		p := t.completer.Complete(l, term)

		if err := t.upsert(ctx, p); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"product_url": p.ProductURL,
			}).WithError(err).Warn("시드 상품 저장 실패, 건너뜁니다")
			continue
		}
		seeded++
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"total":  len(listings),
		"seeded": seeded,
	}).Info("시드 데이터 반영 완료")

	return seeded, nil
}

func (t *Tracker) upsert(ctx context.Context, p contract.Product) error {
	existing, err := t.repo.FindByProductURL(ctx, p.ProductURL)
	if err != nil {
		return err
	}

	if existing == nil {
		_, err = t.repo.Create(ctx, p)
		return err
	}

	_, err = t.repo.Update(ctx, existing.ID, p)
	return err
}
