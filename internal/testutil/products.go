package testutil

import (
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/contract"
)

// NewProduct 테스트용 상품 레코드를 생성합니다. 가격 이력은 [{price, scrapedAt}]로 채워집니다.
func NewProduct(url string, price float64, scrapedAt time.Time) contract.Product {
	return contract.Product{
		Title:        "Test Product " + url,
		Price:        price,
		Currency:     "USD",
		Rating:       4.5,
		ReviewsCount: 100,
		ImageURL:     "https://example.com/img.jpg",
		ProductURL:   url,
		Category:     "test",
		ScrapedAt:    scrapedAt,
		PriceHistory: []contract.PricePoint{{Price: price, Date: scrapedAt}},
	}
}
