package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"golang.org/x/net/html/charset"
)

func (s *scraper) FetchHTML(ctx context.Context, method, urlStr string, body io.Reader, header http.Header) (*goquery.Document, error) {
	reqBody, err := s.prepareBody(body)
	if err != nil {
		return nil, err
	}

	scraped, logger, err := s.executeRequest(ctx, requestParams{
		Method:        method,
		URL:           urlStr,
		Body:          reqBody,
		Header:        header,
		DefaultAccept: "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return nil, err
	}

	contentType := scraped.Response.Header.Get("Content-Type")
	if contentType != "" && !isHTMLContentType(contentType) {
		// 비표준 Content-Type이라도 내용은 HTML일 수 있어 파싱은 계속한다.
		logger.WithField("content_type", contentType).Warn("HTML이 아닌 Content-Type 응답, 파싱을 계속합니다")
	}

	if scraped.IsTruncated {
		logger.WithField("body_size", len(scraped.Body)).Error("응답 본문 크기 초과로 HTML 파싱을 중단합니다")
		return nil, newErrResponseBodyTooLarge(s.maxResponseBodySize, urlStr)
	}

	// 리다이렉트된 경우 최종 URL을 기준으로 상대 경로를 해석한다.
	var baseURL *url.URL
	if scraped.Response.Request != nil {
		baseURL = scraped.Response.Request.URL
	} else if u, err := url.Parse(urlStr); err == nil {
		baseURL = u
	}

	doc, err := parseHTML(scraped.Response.Body, baseURL, contentType)
	if err != nil {
		logger.WithError(err).
			WithFields(applog.Fields{
				"content_type": contentType,
				"body_preview": previewBody(scraped.Body),
			}).Warn("HTML 파싱 실패")

		return nil, newErrHTMLParseFailed(urlStr, err)
	}

	logger.WithFields(applog.Fields{
		"status_code": scraped.Response.StatusCode,
		"body_size":   len(scraped.Body),
	}).Debug("HTML 문서 수신 완료")

	return doc, nil
}

func (s *scraper) FetchHTMLDocument(ctx context.Context, urlStr string, header http.Header) (*goquery.Document, error) {
	return s.FetchHTML(ctx, http.MethodGet, urlStr, nil, header)
}

func (s *scraper) ParseReader(ctx context.Context, r io.Reader, urlStr string, contentType string) (*goquery.Document, error) {
	if r == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "파싱할 Reader가 nil입니다")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var baseURL *url.URL
	if urlStr != "" {
		u, err := url.Parse(urlStr)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "문서 URL이 올바르지 않습니다 (url=%s)", urlStr)
		}
		baseURL = u
	}

	doc, err := parseHTML(io.LimitReader(r, s.maxResponseBodySize), baseURL, contentType)
	if err != nil {
		return nil, newErrHTMLParseFailed(urlStr, err)
	}

	return doc, nil
}

// parseHTML contentType의 charset(없으면 문서의 meta 태그)을 기준으로 UTF-8로 변환한 뒤 파싱합니다.
func parseHTML(r io.Reader, baseURL *url.URL, contentType string) (*goquery.Document, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, err
	}
	doc.Url = baseURL

	return doc, nil
}
