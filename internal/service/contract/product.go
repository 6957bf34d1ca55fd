package contract

import "time"

// MaxPriceHistory 상품 하나가 보관하는 가격 이력의 최대 개수입니다.
const MaxPriceHistory = 30

// PricePoint 특정 시점에 관측된 가격입니다.
type PricePoint struct {
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
}

// Product 저장소에 영속화되는 정규화된 상품 레코드입니다.
//
// ProductURL은 상품을 식별하는 고유 키이며, PriceHistory는 최신 항목이 앞에 오도록 정렬되어
// 최대 MaxPriceHistory 개까지 유지됩니다.
type Product struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Price        float64      `json:"price"`
	Currency     string       `json:"currency"`
	Rating       float64      `json:"rating"`
	ReviewsCount int          `json:"reviewsCount"`
	ImageURL     string       `json:"imageUrl"`
	ProductURL   string       `json:"productUrl"`
	Category     string       `json:"category"`
	ScrapedAt    time.Time    `json:"scrapedAt"`
	PriceHistory []PricePoint `json:"priceHistory"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Listing 수집 소스가 반환하는 부분 상품 정보입니다.
//
// 모든 필드는 선택 사항입니다. 문자열은 빈 값, 숫자와 시각은 nil일 때 누락된 것으로 간주하며
// 누락된 필드는 영속화 전에 기본값으로 채워집니다.
type Listing struct {
	Title        string       `json:"title,omitempty"`
	Price        *float64     `json:"price,omitempty"`
	Currency     string       `json:"currency,omitempty"`
	Rating       *float64     `json:"rating,omitempty"`
	ReviewsCount *int         `json:"reviewsCount,omitempty"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	ProductURL   string       `json:"productUrl,omitempty"`
	Category     string       `json:"category,omitempty"`
	ScrapedAt    *time.Time   `json:"scrapedAt,omitempty"`
	PriceHistory []PricePoint `json:"priceHistory,omitempty"`
}

// Float64 값을 포인터로 감싸 반환합니다.
func Float64(v float64) *float64 { return &v }

// Int 값을 포인터로 감싸 반환합니다.
func Int(v int) *int { return &v }
