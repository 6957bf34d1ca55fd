package telegram

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxRetries 메시지 하나에 대한 최대 전송 시도 횟수
const maxRetries = 3

// send 메시지를 HTML 모드로 전송합니다. 429와 5xx 응답, 네트워크 오류는 재시도합니다.
func (n *Notifier) send(ctx context.Context, text string) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := n.rateLimiter.Wait(ctx); err != nil {
			return apperrors.Wrap(err, apperrors.Unavailable, "전송 대기 중 취소되었습니다")
		}

		msg := tgbotapi.NewMessage(n.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		msg.DisableWebPagePreview = true

		_, err := n.client.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		code, retryAfter := parseTelegramError(err)
		if !shouldRetry(code) {
			return apperrors.Wrapf(err, apperrors.ExecutionFailed, "텔레그램 API가 요청을 거부했습니다 (code=%d)", code)
		}
		if attempt >= maxRetries {
			break
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"attempt":     attempt,
			"max_retries": maxRetries,
			"code":        code,
			"error":       err,
		}).Warn("텔레그램 메시지 전송 실패: 재시도합니다")

		timer := time.NewTimer(n.delayForRetry(retryAfter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return apperrors.Wrap(ctx.Err(), apperrors.Unavailable, "재시도 대기 중 취소되었습니다")
		case <-timer.C:
		}
	}

	return apperrors.Wrapf(lastErr, apperrors.Unavailable, "텔레그램 메시지 전송에 %d회 실패했습니다", maxRetries)
}

// shouldRetry 응답 코드가 일시적인 실패를 나타내는지 확인합니다. 코드가 0이면 네트워크 오류입니다.
func shouldRetry(statusCode int) bool {
	return statusCode == 0 || statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}

// delayForRetry 서버가 retry_after를 알려주면 그 값을 우선 사용합니다.
func (n *Notifier) delayForRetry(retryAfter int) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	return n.retryDelay
}

// parseTelegramError 텔레그램 API 에러에서 응답 코드와 retry_after 값을 추출합니다.
func parseTelegramError(err error) (code int, retryAfter int) {
	var apiErrPtr *tgbotapi.Error
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code, apiErrPtr.ResponseParameters.RetryAfter
	}

	var apiErr tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.ResponseParameters.RetryAfter
	}

	return 0, 0
}
