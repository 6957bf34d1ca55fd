package fetcher

import (
	"errors"
	"io"
	"net/http"
)

const (
	// DefaultMaxBytes 응답 본문의 기본 크기 제한값입니다 (10MB).
	DefaultMaxBytes = 10 * 1024 * 1024

	// NoLimit 응답 본문에 크기 제한을 적용하지 않습니다.
	NoLimit = -1
)

// maxBytesReader http.MaxBytesReader의 에러를 apperrors 형식으로 변환합니다.
type maxBytesReader struct {
	rc    io.ReadCloser
	limit int64
}

func (r *maxBytesReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return n, newErrResponseBodyTooLarge(r.limit)
		}
	}
	return n, err
}

func (r *maxBytesReader) Close() error {
	return r.rc.Close()
}

// MaxBytesFetcher 응답 본문의 크기를 제한하는 미들웨어입니다.
//
// Content-Length 헤더로 먼저 차단하고, 헤더가 없거나 실제 크기와 다른 응답은 읽는 시점에 차단합니다.
type MaxBytesFetcher struct {
	delegate Fetcher
	limit    int64
}

// NewMaxBytesFetcher 새로운 MaxBytesFetcher를 생성합니다.
// limit이 NoLimit이면 delegate를 그대로 반환하고, 0 이하이면 DefaultMaxBytes를 사용합니다.
func NewMaxBytesFetcher(delegate Fetcher, limit int64) Fetcher {
	if limit == NoLimit {
		return delegate
	}
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	return &MaxBytesFetcher{
		delegate: delegate,
		limit:    limit,
	}
}

func (f *MaxBytesFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	if resp.ContentLength > f.limit {
		drainAndCloseBody(resp.Body)
		return nil, newErrResponseBodyTooLargeByContentLength(resp.ContentLength, f.limit)
	}

	resp.Body = &maxBytesReader{
		rc:    http.MaxBytesReader(nil, resp.Body, f.limit),
		limit: f.limit,
	}

	return resp, nil
}
