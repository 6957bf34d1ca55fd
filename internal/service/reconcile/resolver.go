package reconcile

import (
	"context"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/pkg/concurrency"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
)

const component = "reconcile.resolver"

// DefaultRecordDelay 레코드 사이의 기본 대기 시간
const DefaultRecordDelay = 100 * time.Millisecond

// Resolver 상품 URL로 기존 레코드를 찾아 새로 만들거나 갱신하고, 가격 이력을 관리합니다.
//
// 같은 URL에 대한 동시 호출은 프로세스 안에서 직렬화됩니다.
// 여러 프로세스가 같은 저장소를 공유하는 경우의 경합은 저장소의 UNIQUE 제약에 맡깁니다.
type Resolver struct {
	repo     contract.ProductRepository
	clock    contract.Clock
	delay    time.Duration
	observer contract.PriceChangeNotifier

	locks *concurrency.KeyedMutex
}

// ResolverOption Resolver 구성을 위한 옵션 함수 타입입니다.
type ResolverOption func(*Resolver)

// WithClock 현재 시각을 반환하는 함수를 지정합니다.
func WithClock(clock contract.Clock) ResolverOption {
	return func(r *Resolver) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithRecordDelay 레코드 사이의 대기 시간을 지정합니다. 0이면 대기하지 않습니다.
func WithRecordDelay(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithPriceObserver 기존 상품의 가격이 바뀌었을 때 알림을 받을 수신자를 지정합니다.
func WithPriceObserver(observer contract.PriceChangeNotifier) ResolverOption {
	return func(r *Resolver) {
		r.observer = observer
	}
}

// NewResolver 새로운 Resolver를 생성합니다.
func NewResolver(repo contract.ProductRepository, opts ...ResolverOption) *Resolver {
	if repo == nil {
		panic("ProductRepository는 필수입니다")
	}

	r := &Resolver{
		repo:  repo,
		clock: time.Now,
		delay: DefaultRecordDelay,
		locks: concurrency.NewKeyedMutex(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Reconcile 상품 하나를 저장소에 반영합니다.
//
// 저장된 레코드가 없으면 그대로 생성합니다. 있으면 가격이 달라진 경우에만 새 가격을 이력 맨 앞에 추가하고,
// 같으면 저장된 이력을 유지한 채 나머지 필드를 입력값으로 갱신합니다.
func (r *Resolver) Reconcile(ctx context.Context, p contract.Product) (contract.Product, error) {
	if p.ProductURL == "" {
		return contract.Product{}, apperrors.New(apperrors.InvalidInput, "상품 URL이 비어 있습니다")
	}

	unlock := r.locks.Lock(p.ProductURL)
	defer unlock()

	existing, err := r.repo.FindByProductURL(ctx, p.ProductURL)
	if err != nil {
		return contract.Product{}, apperrors.Wrap(err, apperrors.System, "기존 상품 조회에 실패하였습니다")
	}

	if existing == nil {
		created, err := r.repo.Create(ctx, p)
		if err != nil {
			return contract.Product{}, apperrors.Wrap(err, apperrors.System, "상품 생성에 실패하였습니다")
		}
		return created, nil
	}

	now := r.clock()
	priceChanged := existing.Price != p.Price
	if priceChanged {
		p.PriceHistory = prependHistory(existing.PriceHistory, p.Price, now)
	} else {
		p.PriceHistory = existing.PriceHistory
	}

	updated, err := r.repo.Update(ctx, existing.ID, p)
	if err != nil {
		return contract.Product{}, apperrors.Wrap(err, apperrors.System, "상품 갱신에 실패하였습니다")
	}

	if priceChanged && r.observer != nil {
		r.observer.NotifyPriceChange(contract.PriceChange{
			Product:   updated,
			OldPrice:  existing.Price,
			NewPrice:  updated.Price,
			ChangedAt: now,
		})
	}

	return updated, nil
}

// ReconcileAll 상품들을 입력 순서대로 하나씩 반영하고, 성공한 레코드만 반환합니다.
//
// 레코드 사이에는 설정된 시간만큼 대기합니다. 개별 레코드의 실패는 기록 후 건너뜁니다.
// 한 번 시작한 반영은 중간에 멈추지 않고 모든 레코드를 처리합니다.
func (r *Resolver) ReconcileAll(ctx context.Context, products []contract.Product) []contract.Product {
	saved := make([]contract.Product, 0, len(products))

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for i, p := range products {
		if i > 0 && r.delay > 0 {
			if timer == nil {
				timer = time.NewTimer(r.delay)
			} else {
				timer.Reset(r.delay)
			}
			<-timer.C
		}

		result, err := r.Reconcile(ctx, p)
		if err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"product_url": p.ProductURL,
				"index":       i,
			}).WithError(err).Warn("상품 저장 실패, 해당 레코드를 건너뜁니다")
			continue
		}

		saved = append(saved, result)
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"requested": len(products),
		"saved":     len(saved),
	}).Debug("상품 일괄 반영 완료")

	return saved
}
