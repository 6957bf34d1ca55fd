package fetcher

import (
	"net/http"
	"time"

	applog "github.com/darkkaiser/price-tracker/pkg/log"
)

// LoggingFetcher 요청 결과와 소요 시간을 Debug 레벨로 기록하는 미들웨어입니다.
type LoggingFetcher struct {
	delegate Fetcher
}

var _ Fetcher = (*LoggingFetcher)(nil)

// NewLoggingFetcher 새로운 LoggingFetcher를 생성합니다.
func NewLoggingFetcher(delegate Fetcher) *LoggingFetcher {
	return &LoggingFetcher{delegate: delegate}
}

func (f *LoggingFetcher) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := f.delegate.Do(req)

	fields := applog.Fields{
		"method":      req.Method,
		"url":         redactURL(req.URL),
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		applog.WithComponentAndFields(component, fields).
			WithError(err).
			Debug("HTTP 요청 실패")
		return resp, err
	}

	fields["status_code"] = resp.StatusCode
	applog.WithComponentAndFields(component, fields).Debug("HTTP 요청 완료")

	return resp, nil
}
