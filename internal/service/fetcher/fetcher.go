// Package fetcher 외부 수집 소스에 HTTP 요청을 보내는 클라이언트 체인을 제공합니다.
//
// 각 기능(User-Agent 주입, 상태 코드 검사, 응답 크기 제한, 로깅)은 Fetcher를 감싸는 미들웨어로 구현되며
// New 함수가 설정에 따라 체인을 조립합니다.
package fetcher

import (
	"context"
	"io"
	"net/http"
)

// component 로깅용 컴포넌트 이름
const component = "collector.fetcher"

// Fetcher HTTP 요청을 수행하는 인터페이스입니다.
//
// 반환된 응답의 Body는 호출자가 반드시 닫아야 합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get 지정된 URL로 HTTP GET 요청을 전송합니다.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}

// drainAndCloseBody 커넥션 재사용을 위해 남은 본문을 일부 읽어서 버린 뒤 닫습니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, body, 64*1024)
	_ = body.Close()
}
