package oxylabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/collector/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatResponse = `{
  "results": [{
    "content": {
      "results": [
        {"title": "Gaming Laptop 15", "price": 999.99, "currency": "USD", "rating": 4.6, "reviews_count": 1234, "image": "https://m.media-amazon.com/1.jpg", "url": "/dp/B001"},
        {"title": "No Price Laptop", "url": "/dp/B002"},
        {"title": "", "price": 10, "url": "/dp/B003"},
        {"title": "Missing URL", "price": 10},
        {"title": "Text Price Laptop", "price": "$1,299.00", "rating": "4.1 out of 5", "reviews_count": "2,001", "url_image": "https://m.media-amazon.com/2.jpg", "url": "https://www.amazon.com/dp/B004"},
        {"title": "Object Price Laptop", "price": {"value": 49.5, "currency": "EUR"}, "url": "/dp/B005"}
      ]
    }
  }]
}`

const groupedResponse = `{
  "results": [{
    "content": {
      "results": {
        "paid":    [{"title": "Sponsored Mouse", "price": 19.99, "url": "/dp/P001"}],
        "organic": [{"title": "Organic Mouse", "price": 24.99, "url": "/dp/O001"}, {"title": "Organic Mouse 2", "price": 29.99, "url": "/dp/O002"}],
        "total_results_count": 300
      }
    }
  }]
}`

func newTestServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "pass", pass)
		assert.Equal(t, http.MethodPost, r.Method)

		var payload queryPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "amazon_search", payload.Source)
		assert.Equal(t, "com", payload.Domain)
		assert.True(t, payload.Parse)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestAdapter_Fetch_MissingCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "사용자명 누락", username: "", password: "pass", wantErr: ErrUsernameMissing},
		{name: "공백 사용자명", username: "   ", password: "pass", wantErr: ErrUsernameMissing},
		{name: "비밀번호 누락", username: "user", password: "", wantErr: ErrPasswordMissing},
		{name: "둘 다 누락", wantErr: ErrUsernameMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			srv := newTestServer(t, http.StatusOK, flatResponse, &calls)

			a := New(Config{Username: tt.username, Password: tt.password, Endpoint: srv.URL})
			listings, err := a.Fetch(context.Background(), "laptop", 10)

			require.Error(t, err)
			assert.Nil(t, listings)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, source.KindConfiguration, source.KindOf(err))
			assert.True(t, apperrors.Is(err, apperrors.Configuration))
			assert.Zero(t, calls.Load(), "자격증명이 없으면 요청을 보내지 않는다")
		})
	}
}

func TestAdapter_Fetch_FlatResults(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, http.StatusOK, flatResponse, nil)
	a := New(Config{Username: "user", Password: "pass", Endpoint: srv.URL})

	listings, err := a.Fetch(context.Background(), "laptop", 10)
	require.NoError(t, err)
	require.Len(t, listings, 3, "제목, URL, 가격이 없는 항목은 제외한다")

	first := listings[0]
	assert.Equal(t, "Gaming Laptop 15", first.Title)
	assert.Equal(t, 999.99, *first.Price)
	assert.Equal(t, "USD", first.Currency)
	assert.Equal(t, 4.6, *first.Rating)
	assert.Equal(t, 1234, *first.ReviewsCount)
	assert.Equal(t, "https://m.media-amazon.com/1.jpg", first.ImageURL)
	assert.Equal(t, "https://www.amazon.com/dp/B001", first.ProductURL)
	assert.Equal(t, "laptop", first.Category)

	second := listings[1]
	assert.Equal(t, 1299.0, *second.Price)
	assert.Equal(t, 4.1, *second.Rating)
	assert.Equal(t, 2001, *second.ReviewsCount)
	assert.Equal(t, "https://m.media-amazon.com/2.jpg", second.ImageURL)
	assert.Equal(t, "https://www.amazon.com/dp/B004", second.ProductURL)

	third := listings[2]
	assert.Equal(t, 49.5, *third.Price)
	assert.Equal(t, "EUR", third.Currency)
	assert.Nil(t, third.Rating)
	assert.Nil(t, third.ReviewsCount)
}

func TestAdapter_Fetch_Truncates(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, http.StatusOK, flatResponse, nil)
	a := New(Config{Username: "user", Password: "pass", Endpoint: srv.URL})

	listings, err := a.Fetch(context.Background(), "laptop", 2)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "Gaming Laptop 15", listings[0].Title)
	assert.Equal(t, "Text Price Laptop", listings[1].Title)
}

func TestAdapter_Fetch_GroupedResults(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, http.StatusOK, groupedResponse, nil)
	a := New(Config{Username: "user", Password: "pass", Endpoint: srv.URL})

	listings, err := a.Fetch(context.Background(), "mouse", 10)
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "Sponsored Mouse", listings[0].Title)
	assert.Equal(t, "Organic Mouse", listings[1].Title)
	assert.Equal(t, "Organic Mouse 2", listings[2].Title)
}

func TestAdapter_Fetch_OutOfRangeRatingIsAbsent(t *testing.T) {
	t.Parallel()

	body := `{"results": [{"content": {"results": [
		{"title": "Numeric", "price": 10, "rating": 7.2, "url": "/dp/R001"},
		{"title": "Text", "price": 10, "rating": "10.5 out of 5", "url": "/dp/R002"},
		{"title": "Negative", "price": 10, "rating": -1.0, "url": "/dp/R003"},
		{"title": "Valid", "price": 10, "rating": 5, "url": "/dp/R004"}
	]}}]}`

	srv := newTestServer(t, http.StatusOK, body, nil)
	a := New(Config{Username: "user", Password: "pass", Endpoint: srv.URL})

	listings, err := a.Fetch(context.Background(), "mouse", 10)
	require.NoError(t, err)
	require.Len(t, listings, 4)

	assert.Nil(t, listings[0].Rating)
	assert.Nil(t, listings[1].Rating)
	assert.Nil(t, listings[2].Rating)
	require.NotNil(t, listings[3].Rating)
	assert.Equal(t, 5.0, *listings[3].Rating)
}

func TestAdapter_Fetch_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantKind source.Kind
	}{
		{name: "인증 실패", status: http.StatusUnauthorized, body: `{"message":"Unauthorized"}`, wantKind: source.KindTransport},
		{name: "서버 에러", status: http.StatusInternalServerError, body: `{}`, wantKind: source.KindTransport},
		{name: "깨진 JSON", status: http.StatusOK, body: `{"results": [`, wantKind: source.KindParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t, tt.status, tt.body, nil)
			a := New(Config{Username: "user", Password: "pass", Endpoint: srv.URL})

			listings, err := a.Fetch(context.Background(), "laptop", 10)
			require.Error(t, err)
			assert.Empty(t, listings)
			assert.Equal(t, tt.wantKind, source.KindOf(err))
		})
	}
}

func TestAdapter_Fetch_UnexpectedShape(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, http.StatusOK, `{"results": []}`, nil)
	a := New(Config{Username: "user", Password: "pass", Endpoint: srv.URL})

	listings, err := a.Fetch(context.Background(), "laptop", 10)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestAdapter_Fetch_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	a := New(Config{Username: "user", Password: "pass", Endpoint: srv.URL, Timeout: 50 * time.Millisecond})

	_, err := a.Fetch(context.Background(), "laptop", 10)
	require.Error(t, err)
	assert.Equal(t, source.KindTransport, source.KindOf(err))
	assert.True(t, apperrors.Is(err, apperrors.Timeout))
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	a := New(Config{Username: " user ", Password: "pass"})
	assert.Equal(t, Name, a.Name())
	assert.Equal(t, DefaultEndpoint, a.cfg.Endpoint)
	assert.Equal(t, DefaultTimeout, a.cfg.Timeout)
	assert.Equal(t, "user", a.cfg.Username)
}
