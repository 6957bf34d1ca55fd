package fetcher

import (
	"context"
	"errors"
	"net"
	"net/http"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
)

// ErrResponseBodyTooLarge 응답 본문이 크기 제한을 초과했을 때 반환됩니다.
var ErrResponseBodyTooLarge = apperrors.New(apperrors.ExecutionFailed, "응답 본문의 크기가 제한을 초과하였습니다")

func newErrResponseBodyTooLarge(limit int64) error {
	return apperrors.Wrapf(ErrResponseBodyTooLarge, apperrors.ExecutionFailed, "응답 본문 크기 제한(%d 바이트) 초과", limit)
}

func newErrResponseBodyTooLargeByContentLength(contentLength, limit int64) error {
	return apperrors.Wrapf(ErrResponseBodyTooLarge, apperrors.ExecutionFailed, "응답 본문 크기(Content-Length: %d 바이트)가 제한(%d 바이트)을 초과", contentLength, limit)
}

func newErrHTTPStatus(statusCode int, url, snippet string) error {
	errType := apperrors.ExecutionFailed
	switch {
	case statusCode >= 500 || statusCode == http.StatusTooManyRequests:
		errType = apperrors.Unavailable
	case statusCode == http.StatusUnauthorized:
		errType = apperrors.Unauthorized
	case statusCode == http.StatusForbidden:
		errType = apperrors.Forbidden
	case statusCode == http.StatusNotFound:
		errType = apperrors.NotFound
	}

	if snippet != "" {
		return apperrors.Newf(errType, "HTTP 요청이 실패하였습니다 (status=%d, url=%s): %s", statusCode, url, snippet)
	}
	return apperrors.Newf(errType, "HTTP 요청이 실패하였습니다 (status=%d, url=%s)", statusCode, url)
}

// ClassifyError 요청 전송 중 발생한 에러를 apperrors로 분류하여 감쌉니다.
// 이미 AppError인 경우 그대로 반환합니다.
func ClassifyError(err error, url string) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.Canceled) {
		return apperrors.Wrapf(err, apperrors.Unavailable, "요청이 취소되었습니다 (url=%s)", url)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.Wrapf(err, apperrors.Timeout, "요청 시간이 초과되었습니다 (url=%s)", url)
	}

	return apperrors.Wrapf(err, apperrors.Unavailable, "네트워크 요청이 실패하였습니다 (url=%s)", url)
}
