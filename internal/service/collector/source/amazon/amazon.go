// Package amazon Amazon 검색 결과 페이지를 한 번 요청하여 상품 카드를 추출하는 수집 어댑터입니다.
package amazon

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/darkkaiser/price-tracker/internal/service/collector/normalize"
	"github.com/darkkaiser/price-tracker/internal/service/collector/source"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/service/fetcher"
	"github.com/darkkaiser/price-tracker/internal/service/scraper"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/darkkaiser/price-tracker/pkg/strutil"
)

const (
	// Name 어댑터 이름
	Name = "amazon"

	component = "source.amazon"

	// DefaultBaseURL 검색 페이지의 기본 주소
	DefaultBaseURL = "https://www.amazon.com"

	// DefaultTimeout 요청 타임아웃 기본값
	DefaultTimeout = 10 * time.Second

	defaultCurrency = "USD"
)

// 검색 결과 카드 선택자
const (
	selectorCard       = `div[data-component-type="s-search-result"]`
	selectorTitle      = "h2 a span"
	selectorTitleAlt   = "h2 span"
	selectorLink       = "h2 a"
	selectorLinkAlt    = "a.a-link-normal"
	selectorPrice      = ".a-price .a-offscreen"
	selectorRating     = ".a-icon-alt"
	selectorReviews    = ".a-size-base"
	selectorReviewsAlt = `[aria-label$="ratings"]`
	selectorImage      = "img.s-image"
)

// Config Amazon 어댑터 설정입니다.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	MaxResponseBytes int64
}

// Adapter 검색 결과 페이지 스크래핑 어댑터입니다. 생성 후에는 상태가 바뀌지 않습니다.
type Adapter struct {
	cfg     Config
	scraper scraper.HTMLScraper
}

var _ source.Source = (*Adapter)(nil)

// Option Adapter 구성을 위한 옵션 함수 타입입니다.
type Option func(*Adapter)

// WithScraper 기본 HTTP 클라이언트 체인 대신 사용할 HTMLScraper를 지정합니다.
func WithScraper(s scraper.HTMLScraper) Option {
	return func(a *Adapter) {
		if s != nil {
			a.scraper = s
		}
	}
}

// New 새로운 Adapter를 생성합니다.
func New(cfg Config, opts ...Option) *Adapter {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	a := &Adapter{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.scraper == nil {
		a.scraper = scraper.New(
			fetcher.New(fetcher.Config{Timeout: cfg.Timeout, MaxBytes: cfg.MaxResponseBytes}),
			scraper.WithMaxResponseBodySize(cfg.MaxResponseBytes),
		)
	}

	return a
}

func (a *Adapter) Name() string {
	return Name
}

// Fetch 검색 결과 페이지를 한 번 요청하여 최대 maxResults개의 상품을 추출합니다.
//
// 요청이 실패하면 빈 목록과 함께 AdapterError를 반환하며 재시도하지 않습니다.
// 제목이나 링크가 없는 카드는 건너뛰고 나머지 카드는 계속 처리합니다.
func (a *Adapter) Fetch(ctx context.Context, searchTerm string, maxResults int) ([]contract.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	searchURL := a.searchURL(searchTerm)
	logger := applog.WithComponentAndFields(component, applog.Fields{
		"search_term": searchTerm,
		"url":         searchURL,
	})

	header := http.Header{}
	header.Set("Accept-Language", "en-US,en;q=0.9")

	doc, err := a.scraper.FetchHTMLDocument(ctx, searchURL, header)
	if err != nil {
		logger.WithError(err).Warn("Amazon 검색 페이지 요청 실패")
		return []contract.Listing{}, source.Classify(Name, err)
	}

	base, _ := url.Parse(a.cfg.BaseURL)
	listings, skipped := parseSearchResults(doc, base, searchTerm, maxResults)

	logger.WithFields(applog.Fields{
		"cards":    doc.Find(selectorCard).Length(),
		"skipped":  skipped,
		"returned": len(listings),
	}).Debug("Amazon 검색 결과 추출 완료")

	return listings, nil
}

func (a *Adapter) searchURL(searchTerm string) string {
	return a.cfg.BaseURL + "/s?k=" + url.QueryEscape(searchTerm)
}

// parseSearchResults 문서에서 상품 카드를 순서대로 추출합니다.
func parseSearchResults(doc *goquery.Document, base *url.URL, searchTerm string, maxResults int) ([]contract.Listing, int) {
	listings := make([]contract.Listing, 0)
	skipped := 0

	doc.Find(selectorCard).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if maxResults > 0 && len(listings) >= maxResults {
			return false
		}

		l, ok := parseCard(card, base, searchTerm)
		if !ok {
			skipped++
			applog.WithComponentAndFields(component, applog.Fields{
				"index": i,
				"asin":  card.AttrOr("data-asin", ""),
			}).Debug("추출할 정보가 없는 상품 카드를 건너뜁니다")
			return true
		}

		listings = append(listings, l)
		return true
	})

	return listings, skipped
}

// parseCard 카드 하나를 변환합니다.
//
// 제목이나 링크가 없어도 나머지 값으로 부분 상품을 만들며, 빈 필드는 보완 단계에서 채워집니다.
// 어떤 값도 추출하지 못한 경우에만 false를 반환합니다.
func parseCard(card *goquery.Selection, base *url.URL, searchTerm string) (contract.Listing, bool) {
	title := firstText(card, selectorTitle, selectorTitleAlt)

	href, _ := card.Find(selectorLink).First().Attr("href")
	if strings.TrimSpace(href) == "" {
		href, _ = card.Find(selectorLinkAlt).First().Attr("href")
	}
	productURL := resolveProductURL(base, href)

	l := contract.Listing{
		Title:      title,
		Currency:   defaultCurrency,
		ProductURL: productURL,
		Category:   searchTerm,
	}

	if price, ok := normalize.ParsePrice(card.Find(selectorPrice).First().Text()); ok {
		l.Price = contract.Float64(price)
	}
	if rating, ok := normalize.ParseRating(card.Find(selectorRating).First().Text()); ok {
		l.Rating = contract.Float64(rating)
	}
	if reviews, ok := parseReviews(card); ok {
		l.ReviewsCount = contract.Int(reviews)
	}

	img := card.Find(selectorImage).First()
	l.ImageURL = strings.TrimSpace(img.AttrOr("src", ""))
	if l.ImageURL == "" {
		l.ImageURL = strings.TrimSpace(img.AttrOr("data-src", ""))
	}

	if l.Title == "" && l.ProductURL == "" && l.Price == nil && l.Rating == nil && l.ReviewsCount == nil && l.ImageURL == "" {
		return contract.Listing{}, false
	}

	return l, true
}

// parseReviews 리뷰 수 후보 요소들 중 처음으로 숫자가 나오는 값을 사용합니다.
func parseReviews(card *goquery.Selection) (int, bool) {
	if label, ok := card.Find(selectorReviewsAlt).First().Attr("aria-label"); ok {
		if v, ok := normalize.ParseReviewsCount(label); ok {
			return v, true
		}
	}

	var (
		count int
		found bool
	)
	card.Find(selectorReviews).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		count, found = normalize.ParseReviewsCount(s.Text())
		return !found
	})

	return count, found
}

func firstText(card *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if text := strutil.NormalizeSpaces(card.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// resolveProductURL 링크를 절대 경로로 바꾸고 추적용 쿼리 문자열과 프래그먼트를 제거합니다.
func resolveProductURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return ""
	}

	u.RawQuery = ""
	u.Fragment = ""

	return u.String()
}
