package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/store/storetest"
	"github.com/darkkaiser/price-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.db")
	s, err := Open(context.Background(), path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func TestStore_Conformance(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T, clock contract.Clock) contract.ProductStore {
		s, _ := openTestStore(t, WithClock(clock))
		return s
	})
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	scrapedAt := time.Date(2025, 5, 10, 8, 30, 0, 123456789, time.UTC)

	s, path := openTestStore(t)
	created, err := s.Create(ctx, testutil.NewProduct("https://amazon.com/dp/PERSIST", 42.5, scrapedAt))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	found, err := reopened.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, 42.5, found.Price)
	assert.True(t, scrapedAt.Equal(found.ScrapedAt), "나노초 단위까지 보존된다")
	require.Len(t, found.PriceHistory, 1)
	assert.True(t, scrapedAt.Equal(found.PriceHistory[0].Date))
}

func TestStore_Ping(t *testing.T) {
	t.Parallel()

	s, _ := openTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"laptop", "laptop"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\temp`, `c:\\temp`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLike(tt.in), "Input: %s", tt.in)
	}
}
