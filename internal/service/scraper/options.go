package scraper

// Option Scraper 구성을 위한 옵션 함수 타입입니다.
type Option func(*scraper)

// WithMaxRequestBodySize 요청 본문의 최대 크기를 설정합니다. 0 이하의 값은 무시됩니다.
func WithMaxRequestBodySize(size int64) Option {
	return func(s *scraper) {
		if size > 0 {
			s.maxRequestBodySize = size
		}
	}
}

// WithMaxResponseBodySize 응답 본문의 최대 크기를 설정합니다. 0 이하의 값은 무시됩니다.
// 이 크기를 넘는 응답은 잘린 문서를 파싱하지 않고 에러로 처리합니다.
func WithMaxResponseBodySize(size int64) Option {
	return func(s *scraper) {
		if size > 0 {
			s.maxResponseBodySize = size
		}
	}
}
