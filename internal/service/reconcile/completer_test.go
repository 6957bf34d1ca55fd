package reconcile

import (
	"strings"
	"testing"
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSuffix string

func (s fixedSuffix) NewSuffix() string { return string(s) }

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestCompleter_Defaults(t *testing.T) {
	t.Parallel()

	c := NewCompleter(fixedClock, fixedSuffix("abc12"))
	p := c.Complete(contract.Listing{}, "wireless  mouse")

	token := "1740830400000-abc12"
	assert.Equal(t, "Unknown wireless  mouse Product #"+token, p.Title)
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, 0.0, p.Rating)
	assert.Equal(t, 0, p.ReviewsCount)
	assert.Equal(t, "https://via.placeholder.com/150", p.ImageURL)
	assert.Equal(t, "https://amazon.com/dummy/wireless-mouse-"+token, p.ProductURL)
	assert.Equal(t, "wireless  mouse", p.Category)
	assert.Equal(t, fixedNow, p.ScrapedAt)
	assert.Equal(t, []contract.PricePoint{{Price: 0, Date: fixedNow}}, p.PriceHistory)
}

func TestCompleter_KeepsProvidedFields(t *testing.T) {
	t.Parallel()

	scrapedAt := fixedNow.Add(-time.Hour)
	l := contract.Listing{
		Title:        "Logitech M185",
		Price:        contract.Float64(19.99),
		Currency:     "EUR",
		Rating:       contract.Float64(4.6),
		ReviewsCount: contract.Int(1234),
		ImageURL:     "https://m.media-amazon.com/images/I/1.jpg",
		ProductURL:   "https://www.amazon.com/dp/B004YAVF8I",
		Category:     "mouse",
		ScrapedAt:    &scrapedAt,
	}

	p := NewCompleter(fixedClock, fixedSuffix("x")).Complete(l, "wireless mouse")

	assert.Equal(t, "Logitech M185", p.Title)
	assert.Equal(t, 19.99, p.Price)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, 4.6, p.Rating)
	assert.Equal(t, 1234, p.ReviewsCount)
	assert.Equal(t, l.ImageURL, p.ImageURL)
	assert.Equal(t, l.ProductURL, p.ProductURL)
	assert.Equal(t, "mouse", p.Category)
	assert.Equal(t, scrapedAt, p.ScrapedAt)
	assert.Equal(t, []contract.PricePoint{{Price: 19.99, Date: fixedNow}}, p.PriceHistory)
}

func TestCompleter_ZeroValuesAreNotMissing(t *testing.T) {
	t.Parallel()

	l := contract.Listing{
		Title:        "Free Sample",
		Price:        contract.Float64(0),
		Rating:       contract.Float64(0),
		ReviewsCount: contract.Int(0),
		ProductURL:   "https://www.amazon.com/dp/FREE",
	}

	p := NewCompleter(fixedClock, fixedSuffix("x")).Complete(l, "sample")
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, "https://www.amazon.com/dp/FREE", p.ProductURL)
}

func TestCompleter_ProvidedHistory(t *testing.T) {
	t.Parallel()

	history := make([]contract.PricePoint, 40)
	for i := range history {
		history[i] = contract.PricePoint{Price: float64(i), Date: fixedNow.Add(-time.Duration(i) * time.Hour)}
	}

	l := contract.Listing{Price: contract.Float64(0), PriceHistory: history}
	p := NewCompleter(fixedClock, fixedSuffix("x")).Complete(l, "t")

	require.Len(t, p.PriceHistory, contract.MaxPriceHistory)
	assert.Equal(t, 0.0, p.PriceHistory[0].Price)

	p.PriceHistory[0].Price = 999
	assert.Equal(t, 0.0, history[0].Price, "입력 이력을 공유하지 않는다")
}

func TestCompleter_SyntheticKeysAreDistinct(t *testing.T) {
	t.Parallel()

	c := NewCompleter(fixedClock, nil)

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		p := c.Complete(contract.Listing{}, "usb hub")

		require.True(t, strings.HasPrefix(p.ProductURL, "https://amazon.com/dummy/usb-hub-1740830400000-"))
		_, dup := seen[p.ProductURL]
		require.False(t, dup, "중복 키: %s", p.ProductURL)
		seen[p.ProductURL] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestCompleter_TitleAndURLShareToken(t *testing.T) {
	t.Parallel()

	p := NewCompleter(fixedClock, nil).Complete(contract.Listing{}, "desk lamp")

	token := strings.TrimPrefix(p.Title, "Unknown desk lamp Product #")
	assert.True(t, strings.HasSuffix(p.ProductURL, "-"+token))
}
