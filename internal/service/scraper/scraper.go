// Package scraper Fetcher 위에서 HTML 문서와 JSON 응답을 가져와 파싱하는 기능을 제공합니다.
package scraper

import (
	"context"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/darkkaiser/price-tracker/internal/service/fetcher"
)

// component 로깅용 컴포넌트 이름
const component = "collector.scraper"

// defaultMaxBodySize 요청/응답 본문의 기본 최대 크기입니다 (10MB).
const defaultMaxBodySize = 10 * 1024 * 1024

// HTMLScraper HTML 페이지를 가져와 goquery.Document로 파싱합니다.
type HTMLScraper interface {
	// FetchHTML 지정된 URL로 요청을 보내 HTML 문서를 가져옵니다.
	// 응답의 Content-Type을 참고하여 비 UTF-8 문서도 UTF-8로 변환합니다.
	FetchHTML(ctx context.Context, method, urlStr string, body io.Reader, header http.Header) (*goquery.Document, error)

	// FetchHTMLDocument GET 요청으로 HTML 문서를 가져옵니다.
	FetchHTMLDocument(ctx context.Context, urlStr string, header http.Header) (*goquery.Document, error)

	// ParseReader 이미 읽어둔 HTML 데이터를 파싱합니다.
	// urlStr은 상대 경로 해석에, contentType은 인코딩 감지에 사용되며 둘 다 빈 문자열일 수 있습니다.
	ParseReader(ctx context.Context, r io.Reader, urlStr string, contentType string) (*goquery.Document, error)
}

// JSONScraper JSON API 응답을 가져옵니다.
type JSONScraper interface {
	// FetchJSON 요청을 보내고 응답을 v로 디코딩합니다.
	// body가 io.Reader, string, []byte가 아니면 JSON으로 직렬화하여 전송합니다.
	FetchJSON(ctx context.Context, method, urlStr string, body any, header http.Header, v any) error

	// FetchJSONBytes 요청을 보내고 문법 검증을 마친 JSON 응답 본문을 그대로 반환합니다.
	FetchJSONBytes(ctx context.Context, method, urlStr string, body any, header http.Header) ([]byte, error)
}

// Scraper HTML과 JSON 스크래핑을 모두 제공하는 통합 인터페이스입니다.
type Scraper interface {
	HTMLScraper
	JSONScraper
}

type scraper struct {
	fetcher fetcher.Fetcher

	maxRequestBodySize  int64
	maxResponseBodySize int64
}

var _ Scraper = (*scraper)(nil)

// New 새로운 Scraper를 생성합니다. f가 nil이면 패닉이 발생합니다.
func New(f fetcher.Fetcher, opts ...Option) Scraper {
	if f == nil {
		panic("Fetcher는 필수입니다")
	}

	s := &scraper{
		fetcher:             f,
		maxRequestBodySize:  defaultMaxBodySize,
		maxResponseBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}
