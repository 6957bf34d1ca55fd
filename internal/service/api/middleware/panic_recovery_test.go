package middleware

import (
	"errors"
	"net/http"
	"testing"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name       string
		panicValue any
		wantCause  error
		wantMsg    string
	}{
		{name: "error 값", panicValue: errBoom, wantCause: errBoom},
		{name: "문자열 값", panicValue: "nil map", wantMsg: "nil map"},
		{name: "정수 값", panicValue: 42, wantMsg: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			c, _ := newContext(e, http.MethodGet, "/panic", "")

			h := PanicRecovery()(func(c echo.Context) error {
				panic(tt.panicValue)
			})

			var err error
			require.NotPanics(t, func() { err = h(c) })
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.Internal))

			if tt.wantCause != nil {
				assert.ErrorIs(t, err, tt.wantCause)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestPanicRecovery_PassesThrough(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c, rec := newContext(e, http.MethodGet, "/", "")

	require.NoError(t, PanicRecovery()(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPanicRecovery_AbortHandlerRepanics(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c, _ := newContext(e, http.MethodGet, "/", "")

	h := PanicRecovery()(func(c echo.Context) error {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() { _ = h(c) })
}
