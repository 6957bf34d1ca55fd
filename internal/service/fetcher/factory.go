package fetcher

import (
	"time"
)

// Config Fetcher 체인 구성 설정입니다.
type Config struct {
	// Timeout 요청 전체 타임아웃 (0 이하이면 DefaultTimeout)
	Timeout time.Duration

	// MaxBytes 응답 본문 크기 제한 (0이면 DefaultMaxBytes, NoLimit이면 제한 없음)
	MaxBytes int64

	// UserAgents 무작위로 사용할 User-Agent 목록 (비어 있으면 기본 목록)
	UserAgents []string

	// AllowedStatuses 허용할 상태 코드 (비어 있으면 2xx)
	AllowedStatuses []int
}

// New 설정에 따라 미들웨어 체인을 조립합니다.
//
// 요청은 User-Agent 주입 → 로깅 → 상태 코드 검사 → 크기 제한 → HTTP 전송 순서로 처리됩니다.
func New(cfg Config, opts ...HTTPOption) Fetcher {
	opts = append([]HTTPOption{WithTimeout(cfg.Timeout)}, opts...)

	var f Fetcher = NewHTTPFetcher(opts...)
	f = NewMaxBytesFetcher(f, cfg.MaxBytes)
	f = NewStatusCodeFetcher(f, cfg.AllowedStatuses...)
	f = NewLoggingFetcher(f)
	f = NewUserAgentFetcher(f, cfg.UserAgents)

	return f
}
