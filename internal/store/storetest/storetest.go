// Package storetest contract.ProductStore 구현체가 공통으로 만족해야 하는 동작을 검증합니다.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory 테스트마다 비어 있는 새 저장소를 생성합니다.
type Factory func(t *testing.T, clock contract.Clock) contract.ProductStore

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// Run 공통 시나리오를 하위 테스트로 실행합니다.
func Run(t *testing.T, newStore Factory) {
	t.Run("FindByProductURL_Absent", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, nil)
		p, err := s.FindByProductURL(context.Background(), "https://amazon.com/dp/none")
		require.NoError(t, err)
		assert.Nil(t, p)

		byID, err := s.FindByID(context.Background(), 999)
		require.NoError(t, err)
		assert.Nil(t, byID)
	})

	t.Run("Create_And_Find", func(t *testing.T) {
		t.Parallel()

		clock := testutil.NewClock(baseTime)
		s := newStore(t, clock.Now)
		ctx := context.Background()

		in := testutil.NewProduct("https://amazon.com/dp/A1", 19.99, baseTime)
		created, err := s.Create(ctx, in)
		require.NoError(t, err)

		assert.NotZero(t, created.ID)
		assert.True(t, baseTime.Equal(created.CreatedAt))
		assert.True(t, baseTime.Equal(created.UpdatedAt))

		found, err := s.FindByProductURL(ctx, in.ProductURL)
		require.NoError(t, err)
		require.NotNil(t, found)
		assertSameProduct(t, created, *found)

		byID, err := s.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, in.ProductURL, byID.ProductURL)
	})

	t.Run("Create_DuplicateURL", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, nil)
		ctx := context.Background()

		p := testutil.NewProduct("https://amazon.com/dp/DUP", 10, baseTime)
		_, err := s.Create(ctx, p)
		require.NoError(t, err)

		_, err = s.Create(ctx, p)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Conflict))

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("Create_EmptyURL", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, nil)
		_, err := s.Create(context.Background(), testutil.NewProduct("", 10, baseTime))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("Update", func(t *testing.T) {
		t.Parallel()

		clock := testutil.NewClock(baseTime)
		s := newStore(t, clock.Now)
		ctx := context.Background()

		created, err := s.Create(ctx, testutil.NewProduct("https://amazon.com/dp/U1", 19.99, baseTime))
		require.NoError(t, err)

		later := clock.Advance(time.Hour)
		next := testutil.NewProduct("https://amazon.com/dp/U1", 24.99, later)
		next.Title = "Renamed"
		next.PriceHistory = []contract.PricePoint{{Price: 24.99, Date: later}, {Price: 19.99, Date: baseTime}}

		updated, err := s.Update(ctx, created.ID, next)
		require.NoError(t, err)

		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, 24.99, updated.Price)
		assert.True(t, baseTime.Equal(updated.CreatedAt), "생성 시각은 유지된다")
		assert.True(t, later.Equal(updated.UpdatedAt))
		require.Len(t, updated.PriceHistory, 2)
		assert.Equal(t, 24.99, updated.PriceHistory[0].Price)
		assert.True(t, later.Equal(updated.PriceHistory[0].Date))

		found, err := s.FindByProductURL(ctx, "https://amazon.com/dp/U1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assertSameProduct(t, updated, *found)
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, nil)
		_, err := s.Update(context.Background(), 42, testutil.NewProduct("https://amazon.com/dp/X", 1, baseTime))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})

	t.Run("ReturnedHistoryIsIsolated", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, nil)
		ctx := context.Background()

		created, err := s.Create(ctx, testutil.NewProduct("https://amazon.com/dp/ISO", 5, baseTime))
		require.NoError(t, err)
		created.PriceHistory[0].Price = 999

		found, err := s.FindByProductURL(ctx, "https://amazon.com/dp/ISO")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, 5.0, found.PriceHistory[0].Price)
	})

	t.Run("Count_And_Average", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, nil)
		ctx := context.Background()

		_, ok, err := s.Average(ctx, contract.FieldPrice)
		require.NoError(t, err)
		assert.False(t, ok, "레코드가 없으면 평균이 없다")

		for i, price := range []float64{10, 20, 30} {
			p := testutil.NewProduct(fmt.Sprintf("https://amazon.com/dp/AVG%d", i), price, baseTime)
			p.Rating = float64(i + 3)
			_, err := s.Create(ctx, p)
			require.NoError(t, err)
		}

		n, err := s.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		avgPrice, ok, err := s.Average(ctx, contract.FieldPrice)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.InDelta(t, 20.0, avgPrice, 1e-9)

		avgRating, ok, err := s.Average(ctx, contract.FieldRating)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.InDelta(t, 4.0, avgRating, 1e-9)

		_, _, err = s.Average(ctx, contract.Field("reviews"))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("List", func(t *testing.T) {
		t.Parallel()

		s := newStore(t, nil)
		ctx := context.Background()

		seed := []struct {
			url, title, category string
			price, rating        float64
			offset               time.Duration
		}{
			{"https://amazon.com/dp/L1", "Wireless Mouse", "mouse", 25, 4.1, 0},
			{"https://amazon.com/dp/L2", "Gaming Laptop", "laptop", 1200, 4.7, time.Minute},
			{"https://amazon.com/dp/L3", "Office Laptop 100%", "laptop", 650, 3.9, 2 * time.Minute},
			{"https://amazon.com/dp/L4", "USB Hub", "Accessories", 15, 4.4, 3 * time.Minute},
		}
		for _, sd := range seed {
			p := testutil.NewProduct(sd.url, sd.price, baseTime.Add(sd.offset))
			p.Title, p.Category, p.Rating = sd.title, sd.category, sd.rating
			_, err := s.Create(ctx, p)
			require.NoError(t, err)
		}

		tests := []struct {
			name string
			q    contract.ListQuery
			want []string
		}{
			{name: "기본 정렬은 최신순", q: contract.ListQuery{}, want: []string{"L4", "L3", "L2", "L1"}},
			{name: "가격 오름차순", q: contract.ListQuery{Sort: contract.SortPriceAsc}, want: []string{"L4", "L1", "L3", "L2"}},
			{name: "가격 내림차순", q: contract.ListQuery{Sort: contract.SortPriceDesc}, want: []string{"L2", "L3", "L1", "L4"}},
			{name: "평점순", q: contract.ListQuery{Sort: contract.SortRating}, want: []string{"L2", "L4", "L1", "L3"}},
			{name: "키워드는 대소문자 무시", q: contract.ListQuery{Keyword: "LAPTOP", Sort: contract.SortPriceAsc}, want: []string{"L3", "L2"}},
			{name: "카테고리 일치", q: contract.ListQuery{Keyword: "accessories"}, want: []string{"L4"}},
			{name: "LIKE 특수문자는 문자 그대로", q: contract.ListQuery{Keyword: "100%"}, want: []string{"L3"}},
			{name: "개수 제한", q: contract.ListQuery{Limit: 2}, want: []string{"L4", "L3"}},
			{name: "일치 없음", q: contract.ListQuery{Keyword: "keyboard"}, want: []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.List(ctx, tt.q)
				require.NoError(t, err)

				ids := make([]string, 0, len(got))
				for _, p := range got {
					ids = append(ids, p.ProductURL[len("https://amazon.com/dp/"):])
				}
				assert.Equal(t, tt.want, ids)
			})
		}
	})
}

func assertSameProduct(t *testing.T, want, got contract.Product) {
	t.Helper()

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Price, got.Price)
	assert.Equal(t, want.Currency, got.Currency)
	assert.Equal(t, want.Rating, got.Rating)
	assert.Equal(t, want.ReviewsCount, got.ReviewsCount)
	assert.Equal(t, want.ImageURL, got.ImageURL)
	assert.Equal(t, want.ProductURL, got.ProductURL)
	assert.Equal(t, want.Category, got.Category)
	assert.True(t, want.ScrapedAt.Equal(got.ScrapedAt), "scrapedAt: %v != %v", want.ScrapedAt, got.ScrapedAt)
	require.Len(t, got.PriceHistory, len(want.PriceHistory))
	for i := range want.PriceHistory {
		assert.Equal(t, want.PriceHistory[i].Price, got.PriceHistory[i].Price)
		assert.True(t, want.PriceHistory[i].Date.Equal(got.PriceHistory[i].Date))
	}
}
