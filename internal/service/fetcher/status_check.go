package fetcher

import (
	"io"
	"net/http"
	"slices"

	"github.com/darkkaiser/price-tracker/pkg/strutil"
)

// maxBodySnippet 상태 코드 에러 메시지에 포함할 응답 본문의 최대 길이
const maxBodySnippet = 256

// StatusCodeFetcher 허용되지 않은 상태 코드의 응답을 에러로 변환하는 미들웨어입니다.
type StatusCodeFetcher struct {
	delegate        Fetcher
	allowedStatuses []int
}

var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 새로운 StatusCodeFetcher를 생성합니다.
// allowedStatuses를 지정하지 않으면 2xx 응답만 허용합니다.
func NewStatusCodeFetcher(delegate Fetcher, allowedStatuses ...int) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate:        delegate,
		allowedStatuses: allowedStatuses,
	}
}

func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		return resp, err
	}

	if statusErr := CheckResponseStatus(resp, f.allowedStatuses...); statusErr != nil {
		drainAndCloseBody(resp.Body)
		return nil, statusErr
	}

	return resp, nil
}

// CheckResponseStatus 응답 상태 코드를 검사하여 허용되지 않으면 에러를 반환합니다.
//
// 에러 메시지에는 디버깅을 위해 응답 본문의 앞부분이 포함됩니다. 본문은 닫지 않습니다.
func CheckResponseStatus(resp *http.Response, allowedStatuses ...int) error {
	if len(allowedStatuses) == 0 {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
	} else if slices.Contains(allowedStatuses, resp.StatusCode) {
		return nil
	}

	var snippet string
	if resp.Body != nil {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippet*4))
		snippet = strutil.Truncate(strutil.NormalizeSpaces(string(b)), maxBodySnippet)
	}

	var url string
	if resp.Request != nil && resp.Request.URL != nil {
		url = redactURL(resp.Request.URL)
	}

	return newErrHTTPStatus(resp.StatusCode, url, snippet)
}
