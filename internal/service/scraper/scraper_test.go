package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
)

func newTestScraper(t *testing.T, handler http.HandlerFunc, opts ...Option) (Scraper, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(fetcher.New(fetcher.Config{}), opts...), srv
}

func TestNew_NilFetcherPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New(nil) })
}

func TestFetchHTMLDocument(t *testing.T) {
	t.Parallel()

	t.Run("UTF-8 문서 파싱과 상대 경로 기준 URL", func(t *testing.T) {
		t.Parallel()

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("Accept"), "text/html")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body><h1 class="title">노트북</h1><a href="/dp/1">link</a></body></html>`))
		})

		doc, err := s.FetchHTMLDocument(context.Background(), srv.URL+"/s?k=laptop", nil)
		require.NoError(t, err)

		assert.Equal(t, "노트북", doc.Find("h1.title").Text())
		require.NotNil(t, doc.Url)
		assert.Equal(t, "/s", doc.Url.Path)
	})

	t.Run("EUC-KR 문서를 UTF-8로 변환한다", func(t *testing.T) {
		t.Parallel()

		encoded, err := korean.EUCKR.NewEncoder().String(`<html><body><p id="v">가격 비교</p></body></html>`)
		require.NoError(t, err)

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=euc-kr")
			_, _ = w.Write([]byte(encoded))
		})

		doc, err := s.FetchHTMLDocument(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, "가격 비교", doc.Find("#v").Text())
	})

	t.Run("헤더 없이 meta 태그로 인코딩을 감지한다", func(t *testing.T) {
		t.Parallel()

		encoded, err := japanese.ShiftJIS.NewEncoder().String(`<html><head><meta charset="shift_jis"></head><body><p id="v">価格</p></body></html>`)
		require.NoError(t, err)

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(encoded))
		})

		doc, err := s.FetchHTMLDocument(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, "価格", doc.Find("#v").Text())
	})

	t.Run("상태 코드 에러", func(t *testing.T) {
		t.Parallel()

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := s.FetchHTMLDocument(context.Background(), srv.URL, nil)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})

	t.Run("응답 크기 초과", func(t *testing.T) {
		t.Parallel()

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>" + strings.Repeat("x", 200) + "</html>"))
		}, WithMaxResponseBodySize(64))

		_, err := s.FetchHTMLDocument(context.Background(), srv.URL, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResponseBodyTooLarge)
	})

	t.Run("사용자 지정 헤더를 전달한다", func(t *testing.T) {
		t.Parallel()

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "en-US", r.Header.Get("Accept-Language"))
			_, _ = w.Write([]byte("<html></html>"))
		})

		header := http.Header{}
		header.Set("Accept-Language", "en-US")
		_, err := s.FetchHTMLDocument(context.Background(), srv.URL, header)
		require.NoError(t, err)
	})
}

func TestParseReader(t *testing.T) {
	t.Parallel()

	s := New(fetcher.New(fetcher.Config{}))

	doc, err := s.ParseReader(context.Background(), strings.NewReader(`<div><span>ok</span></div>`), "https://www.amazon.com/s?k=x", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Find("span").Text())
	assert.Equal(t, "www.amazon.com", doc.Url.Host)

	_, err = s.ParseReader(context.Background(), nil, "", "")
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.ParseReader(ctx, strings.NewReader("<p></p>"), "", "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Query string `json:"query"`
	}

	t.Run("구조체 본문을 직렬화하여 전송하고 응답을 디코딩한다", func(t *testing.T) {
		t.Parallel()

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"query":"laptop"}`))
		})

		var got payload
		err := s.FetchJSON(context.Background(), http.MethodPost, srv.URL, payload{Query: "laptop"}, nil, &got)
		require.NoError(t, err)
		assert.Equal(t, "laptop", got.Query)
	})

	t.Run("HTML 응답은 파싱 에러", func(t *testing.T) {
		t.Parallel()

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>login</html>"))
		})

		var got payload
		err := s.FetchJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, &got)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})

	t.Run("잘못된 JSON", func(t *testing.T) {
		t.Parallel()

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"query":`))
		})

		_, err := s.FetchJSONBytes(context.Background(), http.MethodGet, srv.URL, nil, nil)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})

	t.Run("204 No Content는 디코딩을 생략한다", func(t *testing.T) {
		t.Parallel()

		s, srv := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		got := payload{Query: "unchanged"}
		require.NoError(t, s.FetchJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, &got))
		assert.Equal(t, "unchanged", got.Query)
	})

	t.Run("디코딩 대상이 포인터가 아니면 에러", func(t *testing.T) {
		t.Parallel()

		s := New(fetcher.New(fetcher.Config{}))
		err := s.FetchJSON(context.Background(), http.MethodGet, "http://127.0.0.1", nil, nil, payload{})
		assert.True(t, apperrors.Is(err, apperrors.Internal))
	})

	t.Run("요청 본문 크기 초과", func(t *testing.T) {
		t.Parallel()

		s := New(fetcher.New(fetcher.Config{}), WithMaxRequestBodySize(4))
		_, err := s.FetchJSONBytes(context.Background(), http.MethodPost, "http://127.0.0.1", "too long body", nil)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})
}

func TestNewErrHTMLStructureChanged(t *testing.T) {
	t.Parallel()

	err := NewErrHTMLStructureChanged("https://example.com", "selector=div.card")
	assert.ErrorIs(t, err, ErrHTMLStructureChanged)
	assert.Contains(t, err.Error(), "selector=div.card")
}
