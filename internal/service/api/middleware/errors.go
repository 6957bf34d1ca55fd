package middleware

import (
	"fmt"
	"net/http"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/api/constants"
	"github.com/darkkaiser/price-tracker/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
)

var (
	// ErrRateLimitExceeded 허용된 요청 빈도를 초과한 클라이언트에게 반환하는 429 에러입니다.
	ErrRateLimitExceeded = httputil.NewTooManyRequestsError(constants.ErrMsgTooManyRequests)

	// ErrTooManyScrapes 수집 요청 전용 제한을 초과한 클라이언트에게 반환하는 429 에러입니다.
	ErrTooManyScrapes = httputil.NewTooManyRequestsError(constants.ErrMsgTooManyScrapes)

	// ErrUnsupportedMediaType 요청의 Content-Type을 지원하지 않을 때 반환하는 415 에러입니다.
	ErrUnsupportedMediaType = echo.NewHTTPError(http.StatusUnsupportedMediaType, constants.ErrMsgUnsupportedMedia)
)

// NewErrPanicRecovered 캡처된 패닉 값을 내부 시스템 오류로 래핑하여 새로운 에러를 생성합니다.
func NewErrPanicRecovered(r any) error {
	if err, ok := r.(error); ok {
		return apperrors.Wrap(err, apperrors.Internal, "패닉이 발생했습니다")
	}
	return apperrors.New(apperrors.Internal, fmt.Sprintf("%v", r))
}
