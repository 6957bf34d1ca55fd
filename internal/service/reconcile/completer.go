// Package reconcile 수집된 상품을 완전한 레코드로 보완하고, 저장소의 기존 레코드와 대조하여 저장합니다.
package reconcile

import (
	"fmt"
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/service/idgen"
	"github.com/darkkaiser/price-tracker/pkg/strutil"
)

const (
	// DefaultCurrency 통화가 없을 때 사용하는 기본 통화
	DefaultCurrency = "USD"

	// PlaceholderImageURL 이미지가 없을 때 사용하는 기본 이미지
	PlaceholderImageURL = "https://via.placeholder.com/150"

	// syntheticURLPrefix 상품 URL이 없을 때 합성하는 식별 키의 접두사
	syntheticURLPrefix = "https://amazon.com/dummy/"
)

// SuffixGenerator 합성 식별 키에 붙일 고유 접미사를 생성합니다.
type SuffixGenerator interface {
	NewSuffix() string
}

// Completer 누락된 필드를 기본값으로 채워 영속화 가능한 상품 레코드를 만듭니다.
type Completer struct {
	clock  contract.Clock
	suffix SuffixGenerator
}

// NewCompleter 새로운 Completer를 생성합니다. clock이나 suffix가 nil이면 기본 구현을 사용합니다.
func NewCompleter(clock contract.Clock, suffix SuffixGenerator) *Completer {
	if clock == nil {
		clock = time.Now
	}
	if suffix == nil {
		suffix = idgen.New()
	}

	return &Completer{
		clock:  clock,
		suffix: suffix,
	}
}

// Complete 부분 상품 정보의 누락된 필드를 채웁니다.
//
// 제목이나 URL이 없으면 "{밀리초 타임스탬프}-{접미사}" 형태의 토큰으로 합성하며,
// 같은 레코드의 제목과 URL에는 같은 토큰을 사용합니다.
func (c *Completer) Complete(l contract.Listing, searchTerm string) contract.Product {
	now := c.clock()

	var token string
	syntheticToken := func() string {
		if token == "" {
			token = fmt.Sprintf("%d-%s", now.UnixMilli(), c.suffix.NewSuffix())
		}
		return token
	}

	p := contract.Product{
		Title:        l.Title,
		Currency:     l.Currency,
		ImageURL:     l.ImageURL,
		ProductURL:   l.ProductURL,
		Category:     l.Category,
		ScrapedAt:    now,
		PriceHistory: nil,
	}

	if p.Title == "" {
		p.Title = fmt.Sprintf("Unknown %s Product #%s", searchTerm, syntheticToken())
	}
	if l.Price != nil {
		p.Price = *l.Price
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if l.Rating != nil {
		p.Rating = *l.Rating
	}
	if l.ReviewsCount != nil {
		p.ReviewsCount = *l.ReviewsCount
	}
	if p.ImageURL == "" {
		p.ImageURL = PlaceholderImageURL
	}
	if p.ProductURL == "" {
		p.ProductURL = syntheticURLPrefix + strutil.JoinFields(searchTerm, "-") + "-" + syntheticToken()
	}
	if p.Category == "" {
		p.Category = searchTerm
	}
	if l.ScrapedAt != nil {
		p.ScrapedAt = *l.ScrapedAt
	}

	if len(l.PriceHistory) > 0 {
		p.PriceHistory = capHistory(append([]contract.PricePoint(nil), l.PriceHistory...))
	} else {
		p.PriceHistory = []contract.PricePoint{{Price: p.Price, Date: now}}
	}

	return p
}
