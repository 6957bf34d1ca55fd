package fetcher

import (
	"net"
	"net/http"
	"time"
)

const (
	// DefaultTimeout HTTP 요청 전체(연결, 헤더, 본문)에 적용되는 기본 타임아웃입니다.
	DefaultTimeout = 30 * time.Second

	defaultMaxIdleConns        = 100
	defaultIdleConnTimeout     = 90 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
)

// defaultTransport 모든 HTTPFetcher가 공유하는 Transport입니다.
var defaultTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
	MaxIdleConns:        defaultMaxIdleConns,
	MaxIdleConnsPerHost: defaultMaxIdleConns,
	IdleConnTimeout:     defaultIdleConnTimeout,
	ForceAttemptHTTP2:   true,
}

// HTTPFetcher net/http 클라이언트를 사용하는 가장 안쪽의 Fetcher입니다.
type HTTPFetcher struct {
	client *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

// HTTPOption HTTPFetcher 구성을 위한 옵션 함수 타입입니다.
type HTTPOption func(*http.Client)

// WithTimeout 요청 타임아웃을 설정합니다. 0 이하의 값은 무시됩니다.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(c *http.Client) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithTransport 기본 Transport 대신 사용할 RoundTripper를 지정합니다. (테스트용)
func WithTransport(rt http.RoundTripper) HTTPOption {
	return func(c *http.Client) {
		if rt != nil {
			c.Transport = rt
		}
	}
}

// NewHTTPFetcher 새로운 HTTPFetcher를 생성합니다.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	client := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: defaultTransport,
	}
	for _, opt := range opts {
		opt(client)
	}

	return &HTTPFetcher{client: client}
}

// Do HTTP 요청을 실행합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

// Timeout 설정된 요청 타임아웃을 반환합니다.
func (h *HTTPFetcher) Timeout() time.Duration {
	return h.client.Timeout
}
