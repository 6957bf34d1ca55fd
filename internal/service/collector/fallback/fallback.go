// Package fallback 실시간 수집 소스가 모두 비어 있을 때 사용하는 정적 상품 데이터셋을 제공합니다.
package fallback

import (
	_ "embed"
	"encoding/json"
	"os"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
)

const component = "collector.fallback"

//go:embed data/sample_products.json
var embeddedDataset []byte

// Provider 번들 데이터셋 또는 외부 파일에서 상품을 읽어옵니다.
//
// 호출할 때마다 데이터셋을 새로 읽으므로 파일을 교체하면 다음 호출부터 반영됩니다.
type Provider struct {
	// file 외부 데이터셋 경로 (비어 있으면 번들 데이터셋 사용)
	file string
}

// New 새로운 Provider를 생성합니다. file이 비어 있으면 번들 데이터셋을 사용합니다.
func New(file string) *Provider {
	return &Provider{file: file}
}

// Fallback 데이터셋의 앞에서부터 최대 maxResults개의 상품을 반환합니다. maxResults가 음수이면 전체를 반환합니다.
//
// 데이터셋을 읽지 못하면 빈 목록과 함께 에러를 반환합니다. 호출자는 에러를 기록만 하고 빈 목록을 그대로 사용합니다.
func (p *Provider) Fallback(maxResults int) ([]contract.Listing, error) {
	products, err := p.load()
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"file": p.file,
		}).WithError(err).Error("대체 데이터셋 로드 실패")

		return []contract.Listing{}, err
	}

	if maxResults >= 0 && maxResults < len(products) {
		products = products[:maxResults]
	}

	listings := make([]contract.Listing, 0, len(products))
	for _, prod := range products {
		listings = append(listings, toListing(prod))
	}

	return listings, nil
}

// All 데이터셋 전체를 반환합니다.
func (p *Provider) All() ([]contract.Product, error) {
	return p.load()
}

func (p *Provider) load() ([]contract.Product, error) {
	data := embeddedDataset
	if p.file != "" {
		b, err := os.ReadFile(p.file)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.System, "대체 데이터셋 파일(%s)을 읽을 수 없습니다", p.file)
		}
		data = b
	}

	var products []contract.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "대체 데이터셋의 JSON 형식이 올바르지 않습니다")
	}

	return products, nil
}

func toListing(p contract.Product) contract.Listing {
	l := contract.Listing{
		Title:        p.Title,
		Price:        contract.Float64(p.Price),
		Currency:     p.Currency,
		Rating:       contract.Float64(p.Rating),
		ReviewsCount: contract.Int(p.ReviewsCount),
		ImageURL:     p.ImageURL,
		ProductURL:   p.ProductURL,
		Category:     p.Category,
		PriceHistory: p.PriceHistory,
	}
	if !p.ScrapedAt.IsZero() {
		scrapedAt := p.ScrapedAt
		l.ScrapedAt = &scrapedAt
	}

	return l
}
