// Package oxylabs Oxylabs Realtime API의 amazon_search 결과를 상품 목록으로 변환하는 수집 어댑터입니다.
package oxylabs

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/darkkaiser/price-tracker/internal/service/collector/normalize"
	"github.com/darkkaiser/price-tracker/internal/service/collector/source"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	"github.com/darkkaiser/price-tracker/internal/service/fetcher"
	"github.com/darkkaiser/price-tracker/internal/service/scraper"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/darkkaiser/price-tracker/pkg/strutil"
	"github.com/tidwall/gjson"
)

const (
	// Name 어댑터 이름
	Name = "oxylabs"

	component = "source.oxylabs"

	// DefaultEndpoint Oxylabs Realtime API 엔드포인트
	DefaultEndpoint = "https://realtime.oxylabs.io/v1/queries"

	// DefaultTimeout 요청 타임아웃 기본값
	DefaultTimeout = 30 * time.Second

	defaultCurrency = "USD"

	// productBaseURL 상대 경로로 내려오는 상품 URL의 기준 주소
	productBaseURL = "https://www.amazon.com"

	// resultsPath 응답에서 상품 목록이 위치한 경로
	resultsPath = "results.0.content.results"
)

// Config Oxylabs 어댑터 설정입니다.
type Config struct {
	Username string
	Password string
	Endpoint string
	Timeout  time.Duration
}

// queryPayload Realtime API 요청 본문입니다.
type queryPayload struct {
	Source string `json:"source"`
	Query  string `json:"query"`
	Domain string `json:"domain"`
	Parse  bool   `json:"parse"`
}

// Adapter 구조화 검색 API 어댑터입니다. 생성 후에는 상태가 바뀌지 않습니다.
type Adapter struct {
	cfg     Config
	scraper scraper.JSONScraper
}

var _ source.Source = (*Adapter)(nil)

// Option Adapter 구성을 위한 옵션 함수 타입입니다.
type Option func(*Adapter)

// WithScraper 기본 HTTP 클라이언트 체인 대신 사용할 JSONScraper를 지정합니다.
func WithScraper(s scraper.JSONScraper) Option {
	return func(a *Adapter) {
		if s != nil {
			a.scraper = s
		}
	}
}

// New 새로운 Adapter를 생성합니다. 자격증명은 여기서 검사하지 않고 Fetch 시점에 검사합니다.
func New(cfg Config, opts ...Option) *Adapter {
	cfg.Username = strings.TrimSpace(cfg.Username)
	cfg.Password = strings.TrimSpace(cfg.Password)
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	a := &Adapter{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.scraper == nil {
		a.scraper = scraper.New(fetcher.New(fetcher.Config{Timeout: cfg.Timeout}))
	}

	return a
}

func (a *Adapter) Name() string {
	return Name
}

// Fetch 검색어로 Realtime API를 호출하여 제목, URL, 가격을 모두 갖춘 상품만 최대 maxResults개 반환합니다.
//
// 자격증명이 없으면 네트워크 요청 없이 KindConfiguration 에러를 반환합니다.
func (a *Adapter) Fetch(ctx context.Context, searchTerm string, maxResults int) ([]contract.Listing, error) {
	if err := a.checkCredentials(); err != nil {
		return nil, source.NewAdapterError(Name, source.KindConfiguration, err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	header := http.Header{}
	header.Set("Authorization", "Basic "+basicAuth(a.cfg.Username, a.cfg.Password))

	logger := applog.WithComponentAndFields(component, applog.Fields{
		"search_term": searchTerm,
		"username":    strutil.MaskSensitiveData(a.cfg.Username),
	})

	body, err := a.scraper.FetchJSONBytes(ctx, http.MethodPost, a.cfg.Endpoint, queryPayload{
		Source: "amazon_search",
		Query:  searchTerm,
		Domain: "com",
		Parse:  true,
	}, header)
	if err != nil {
		logger.WithError(err).Warn("Oxylabs 검색 요청 실패")
		return nil, source.Classify(Name, err)
	}

	items := resultItems(gjson.GetBytes(body, resultsPath))

	listings := make([]contract.Listing, 0, min(len(items), max(maxResults, 0)))
	skipped := 0
	for _, item := range items {
		if maxResults > 0 && len(listings) >= maxResults {
			break
		}

		l, ok := toListing(item, searchTerm)
		if !ok {
			skipped++
			continue
		}
		listings = append(listings, l)
	}

	logger.WithFields(applog.Fields{
		"received": len(items),
		"skipped":  skipped,
		"returned": len(listings),
	}).Debug("Oxylabs 검색 결과 변환 완료")

	return listings, nil
}

func (a *Adapter) checkCredentials() error {
	if a.cfg.Username == "" {
		return ErrUsernameMissing
	}
	if a.cfg.Password == "" {
		return ErrPasswordMissing
	}
	return nil
}

// resultItems 상품 목록을 평탄화합니다.
// results가 배열이면 그대로, 그룹(paid, organic 등)의 맵이면 문서 순서대로 이어 붙입니다.
func resultItems(results gjson.Result) []gjson.Result {
	switch {
	case results.IsArray():
		return results.Array()
	case results.IsObject():
		var items []gjson.Result
		results.ForEach(func(_, group gjson.Result) bool {
			if group.IsArray() {
				items = append(items, group.Array()...)
			}
			return true
		})
		return items
	default:
		return nil
	}
}

// toListing 응답 항목 하나를 변환합니다. 제목, URL, 가격 중 하나라도 없으면 false를 반환합니다.
func toListing(item gjson.Result, searchTerm string) (contract.Listing, bool) {
	title := strutil.NormalizeSpaces(item.Get("title").String())
	productURL := absoluteURL(strings.TrimSpace(item.Get("url").String()))

	priceResult := item.Get("price")
	currency := strings.TrimSpace(item.Get("currency").String())
	if priceResult.IsObject() {
		if c := strings.TrimSpace(priceResult.Get("currency").String()); c != "" {
			currency = c
		}
		priceResult = priceResult.Get("value")
	}
	price, ok := numberOf(priceResult, normalize.ParsePrice)

	if title == "" || productURL == "" || !ok || price <= 0 {
		return contract.Listing{}, false
	}
	if currency == "" {
		currency = defaultCurrency
	}

	l := contract.Listing{
		Title:      title,
		Price:      contract.Float64(price),
		Currency:   currency,
		ImageURL:   firstNonEmpty(item.Get("image").String(), item.Get("url_image").String()),
		ProductURL: productURL,
		Category:   searchTerm,
	}
	if rating, ok := numberOf(item.Get("rating"), normalize.ParseRating); ok && normalize.ValidRating(rating) {
		l.Rating = contract.Float64(rating)
	}
	if reviews, ok := numberOf(item.Get("reviews_count"), func(s string) (float64, bool) {
		v, ok := normalize.ParseReviewsCount(s)
		return float64(v), ok
	}); ok {
		l.ReviewsCount = contract.Int(int(reviews))
	}

	return l, true
}

// numberOf 숫자 값은 그대로, 문자열 값은 parse로 변환합니다.
func numberOf(r gjson.Result, parse func(string) (float64, bool)) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		return parse(r.String())
	default:
		return 0, false
	}
}

func absoluteURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}

	base, _ := url.Parse(productBaseURL)
	return base.ResolveReference(u).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
