package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/tidwall/gjson"
)

func (s *scraper) FetchJSON(ctx context.Context, method, urlStr string, body any, header http.Header, v any) error {
	if rv := reflect.ValueOf(v); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newErrDecodeTargetInvalidType(v)
	}

	data, err := s.FetchJSONBytes(ctx, method, urlStr, body, header)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return newErrJSONParsingFailed(urlStr, err)
	}
	// 하나의 JSON 값 뒤에 다른 데이터가 붙어 있으면 잘못된 응답으로 본다.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return newErrJSONParsingFailed(urlStr, errors.New("JSON 값 뒤에 불필요한 데이터가 있습니다"))
	}

	return nil
}

func (s *scraper) FetchJSONBytes(ctx context.Context, method, urlStr string, body any, header http.Header) ([]byte, error) {
	reqBody, err := s.prepareBody(body)
	if err != nil {
		return nil, err
	}

	if header == nil {
		header = make(http.Header)
	} else {
		header = header.Clone()
	}
	if reqBody != nil && header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}

	scraped, logger, err := s.executeRequest(ctx, requestParams{
		Method:        method,
		URL:           urlStr,
		Body:          reqBody,
		Header:        header,
		DefaultAccept: "application/json",
	})
	if err != nil {
		return nil, err
	}

	if scraped.Response.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	contentType := scraped.Response.Header.Get("Content-Type")
	if isHTMLContentType(contentType) {
		logger.WithField("body_preview", previewBody(scraped.Body)).Warn("JSON 대신 HTML 응답 수신")
		return nil, newErrUnexpectedHTMLResponse(urlStr, contentType)
	}
	if contentType != "" && !isJSONContentType(contentType) {
		logger.WithField("content_type", contentType).Debug("JSON이 아닌 Content-Type 응답, 파싱을 계속합니다")
	}

	if scraped.IsTruncated {
		return nil, newErrResponseBodyTooLarge(s.maxResponseBodySize, urlStr)
	}

	if !gjson.ValidBytes(scraped.Body) {
		logger.WithField("body_preview", previewBody(scraped.Body)).Warn("유효하지 않은 JSON 응답 수신")
		return nil, newErrJSONParsingFailed(urlStr, errors.New("유효하지 않은 JSON 문서입니다"))
	}

	return scraped.Body, nil
}
