package fetcher

import (
	"net/url"
)

// redactURL 로그와 에러 메시지에 남기기 전에 URL의 사용자 정보와 쿼리 파라미터 값을 가립니다.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	redacted := *u
	if redacted.User != nil {
		redacted.User = url.User("xxxxx")
	}
	if redacted.RawQuery != "" {
		q := redacted.Query()
		for key := range q {
			q.Set(key, "xxxxx")
		}
		redacted.RawQuery = q.Encode()
	}

	return redacted.String()
}
