package mocks

import (
	"context"

	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository contract.ProductRepository의 Mock 구현체입니다.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByProductURL(ctx context.Context, productURL string) (*contract.Product, error) {
	args := m.Called(ctx, productURL)
	if p := args.Get(0); p != nil {
		return p.(*contract.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p contract.Product) (contract.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(contract.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id int64, p contract.Product) (contract.Product, error) {
	args := m.Called(ctx, id, p)
	return args.Get(0).(contract.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Average(ctx context.Context, field contract.Field) (float64, bool, error) {
	args := m.Called(ctx, field)
	return args.Get(0).(float64), args.Bool(1), args.Error(2)
}

// MockPriceChangeNotifier contract.PriceChangeNotifier의 Mock 구현체입니다.
type MockPriceChangeNotifier struct {
	mock.Mock
}

func (m *MockPriceChangeNotifier) NotifyPriceChange(change contract.PriceChange) {
	m.Called(change)
}
