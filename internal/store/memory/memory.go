// Package memory 프로세스 메모리에 상품을 보관하는 저장소를 제공합니다.
//
// 프로세스가 종료되면 데이터가 사라지므로 테스트와 로컬 실행 용도로 사용합니다.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/store"
)

// Store contract.ProductStore의 메모리 구현체입니다.
type Store struct {
	mu sync.RWMutex

	nextID   int64
	products map[int64]contract.Product
	byURL    map[string]int64

	clock contract.Clock
}

var _ contract.ProductStore = (*Store)(nil)

// Option Store 구성을 위한 옵션 함수 타입입니다.
type Option func(*Store)

// WithClock 생성/수정 시각 기록에 사용할 시계를 지정합니다.
func WithClock(clock contract.Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New 빈 메모리 저장소를 생성합니다.
func New(opts ...Option) *Store {
	s := &Store{
		products: make(map[int64]contract.Product),
		byURL:    make(map[string]int64),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) FindByProductURL(_ context.Context, productURL string) (*contract.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byURL[productURL]
	if !ok {
		return nil, nil
	}
	p := clone(s.products[id])
	return &p, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*contract.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	p = clone(p)
	return &p, nil
}

func (s *Store) Create(_ context.Context, p contract.Product) (contract.Product, error) {
	if p.ProductURL == "" {
		return contract.Product{}, store.ErrProductURLRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byURL[p.ProductURL]; exists {
		return contract.Product{}, store.NewErrDuplicateProductURL(p.ProductURL)
	}

	s.nextID++
	now := s.clock()

	p = clone(p)
	p.ID = s.nextID
	p.CreatedAt = now
	p.UpdatedAt = now

	s.products[p.ID] = p
	s.byURL[p.ProductURL] = p.ID

	return clone(p), nil
}

func (s *Store) Update(_ context.Context, id int64, p contract.Product) (contract.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[id]
	if !ok {
		return contract.Product{}, store.NewErrProductNotFound(id)
	}

	if p.ProductURL == "" {
		p.ProductURL = existing.ProductURL
	}
	if p.ProductURL != existing.ProductURL {
		if _, taken := s.byURL[p.ProductURL]; taken {
			return contract.Product{}, store.NewErrDuplicateProductURL(p.ProductURL)
		}
		delete(s.byURL, existing.ProductURL)
		s.byURL[p.ProductURL] = id
	}

	p = clone(p)
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.clock()

	s.products[id] = p

	return clone(p), nil
}

func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.products)), nil
}

func (s *Store) Average(_ context.Context, field contract.Field) (float64, bool, error) {
	value, err := fieldValue(field)
	if err != nil {
		return 0, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.products) == 0 {
		return 0, false, nil
	}

	var sum float64
	for _, p := range s.products {
		sum += value(p)
	}
	return sum / float64(len(s.products)), true, nil
}

func (s *Store) List(_ context.Context, q contract.ListQuery) ([]contract.Product, error) {
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))

	s.mu.RLock()
	result := make([]contract.Product, 0, len(s.products))
	for _, p := range s.products {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(p.Title), keyword) &&
			!strings.Contains(strings.ToLower(p.Category), keyword) {
			continue
		}
		result = append(result, clone(p))
	}
	s.mu.RUnlock()

	slices.SortFunc(result, compareBy(q.Sort))

	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func fieldValue(field contract.Field) (func(contract.Product) float64, error) {
	switch field {
	case contract.FieldPrice:
		return func(p contract.Product) float64 { return p.Price }, nil
	case contract.FieldRating:
		return func(p contract.Product) float64 { return p.Rating }, nil
	default:
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 집계 필드입니다: %s", field)
	}
}

// compareBy 정렬 기준이 같은 상품은 ID 역순(최근 생성 순)으로 정렬합니다.
func compareBy(order contract.SortOrder) func(a, b contract.Product) int {
	byNewest := func(a, b contract.Product) int {
		if c := b.ScrapedAt.Compare(a.ScrapedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	}

	switch order {
	case contract.SortPriceAsc:
		return func(a, b contract.Product) int {
			if c := cmp.Compare(a.Price, b.Price); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		}
	case contract.SortPriceDesc:
		return func(a, b contract.Product) int {
			if c := cmp.Compare(b.Price, a.Price); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		}
	case contract.SortRating:
		return func(a, b contract.Product) int {
			if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
				return c
			}
			if c := cmp.Compare(b.ReviewsCount, a.ReviewsCount); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		}
	default:
		return byNewest
	}
}

func clone(p contract.Product) contract.Product {
	p.PriceHistory = slices.Clone(p.PriceHistory)
	return p
}
