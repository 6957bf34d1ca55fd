package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		contentType string
		wantErr     bool
	}{
		{name: "정확히 일치", body: `{}`, contentType: echo.MIMEApplicationJSON},
		{name: "charset 파라미터 포함", body: `{}`, contentType: "application/json; charset=utf-8"},
		{name: "대소문자 무시", body: `{}`, contentType: "Application/JSON"},
		{name: "본문 없음", body: "", contentType: ""},
		{name: "헤더 누락", body: `{}`, contentType: "", wantErr: true},
		{name: "다른 타입", body: `a=b`, contentType: echo.MIMEApplicationForm, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set(echo.HeaderContentType, tt.contentType)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := ValidateContentType(echo.MIMEApplicationJSON)(okHandler)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.Same(t, ErrUnsupportedMediaType, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
