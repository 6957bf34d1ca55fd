package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/fetcher"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/darkkaiser/price-tracker/pkg/strutil"
)

// maxPreviewLength 로그에 남길 응답 본문 미리보기의 최대 길이
const maxPreviewLength = 512

// requestParams 요청 실행에 필요한 값들입니다.
type requestParams struct {
	Method        string
	URL           string
	Body          io.Reader
	Header        http.Header
	DefaultAccept string
}

// scrapedResponse 본문을 메모리에 읽어둔 응답입니다.
type scrapedResponse struct {
	Response    *http.Response
	Body        []byte
	IsTruncated bool
}

// executeRequest 요청을 전송하고 응답 본문을 maxResponseBodySize까지 읽습니다.
// 반환된 응답의 Body는 읽어둔 본문을 다시 읽을 수 있는 NopCloser로 교체됩니다.
func (s *scraper) executeRequest(ctx context.Context, params requestParams) (scrapedResponse, *applog.Entry, error) {
	logger := applog.WithComponentAndFields(component, applog.Fields{
		"method": params.Method,
		"url":    params.URL,
	})

	req, err := http.NewRequestWithContext(ctx, params.Method, params.URL, params.Body)
	if err != nil {
		return scrapedResponse{}, logger, apperrors.Wrapf(err, apperrors.Internal, "HTTP 요청 생성에 실패하였습니다 (url=%s)", params.URL)
	}
	for key, values := range params.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Accept") == "" && params.DefaultAccept != "" {
		req.Header.Set("Accept", params.DefaultAccept)
	}

	resp, err := s.fetcher.Do(req)
	if err != nil {
		logger.WithError(err).Debug("HTTP 요청 실패")
		return scrapedResponse{}, logger, fetcher.ClassifyError(err, params.URL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxResponseBodySize+1))
	if err != nil {
		return scrapedResponse{}, logger, apperrors.Wrapf(fetcher.ClassifyError(err, params.URL), apperrors.ExecutionFailed, "응답 본문을 읽는 중 에러가 발생하였습니다 (url=%s)", params.URL)
	}

	truncated := int64(len(body)) > s.maxResponseBodySize
	if truncated {
		body = body[:s.maxResponseBodySize]
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return scrapedResponse{Response: resp, Body: body, IsTruncated: truncated}, logger, nil
}

// prepareBody 요청 본문을 재전송 가능한 Reader로 변환합니다.
func (s *scraper) prepareBody(body any) (io.Reader, error) {
	var data []byte

	switch v := body.(type) {
	case nil:
		return nil, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case io.Reader:
		b, err := io.ReadAll(io.LimitReader(v, s.maxRequestBodySize+1))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.Internal, "요청 본문 읽기에 실패하였습니다")
		}
		data = b
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.Internal, "JSON 요청 본문 인코딩에 실패하였습니다")
		}
		data = b
	}

	if int64(len(data)) > s.maxRequestBodySize {
		return nil, apperrors.Newf(apperrors.InvalidInput, "요청 본문이 허용된 크기(%d 바이트)를 초과하였습니다", s.maxRequestBodySize)
	}

	return bytes.NewReader(data), nil
}

// previewBody 로그용으로 본문 앞부분을 잘라 반환합니다. UTF-8이 아닌 바이너리는 생략합니다.
func previewBody(body []byte) string {
	if len(body) > maxPreviewLength*4 {
		body = body[:maxPreviewLength*4]
	}
	if !utf8.Valid(body) {
		return "[binary data]"
	}
	return strutil.Truncate(strutil.NormalizeSpaces(string(body)), maxPreviewLength)
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

func isHTMLContentType(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "text/html" || mt == "application/xhtml+xml"
}

func isJSONContentType(contentType string) bool {
	mt := mediaType(contentType)
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
