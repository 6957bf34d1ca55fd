package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// Test Helpers
// =============================================================================

type fakeClient struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig

	// errs 순서대로 반환할 에러 목록 (소진되면 성공)
	errs []error

	block chan struct{}
}

func (f *fakeClient) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.messages = append(f.messages, c.(tgbotapi.MessageConfig))
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return tgbotapi.Message{}, err
	}
	return tgbotapi.Message{MessageID: len(f.messages)}, nil
}

func (f *fakeClient) sent() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tgbotapi.MessageConfig(nil), f.messages...)
}

func newTestNotifier(c client, onlyDrops bool, opts ...Option) *Notifier {
	opts = append([]Option{WithRateLimit(rate.Inf, 1), WithRetryDelay(0)}, opts...)
	return newNotifier(c, 1234, onlyDrops, opts...)
}

func priceChange(oldPrice, newPrice float64) contract.PriceChange {
	return contract.PriceChange{
		Product: contract.Product{
			ID:         1,
			Title:      "Apple MacBook Air <M3>",
			Price:      newPrice,
			Currency:   "USD",
			ProductURL: "https://amazon.com/dp/B0TEST?a=1&b=2",
		},
		OldPrice:  oldPrice,
		NewPrice:  newPrice,
		ChangedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// Message
// =============================================================================

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	t.Run("가격 하락", func(t *testing.T) {
		t.Parallel()

		msg := buildMessage(priceChange(1099, 999))
		assert.Equal(t,
			"📉 가격 하락\n<b>Apple MacBook Air &lt;M3&gt;</b>\nUSD 1,099.00 → USD 999.00 (-9.1%)\nhttps://amazon.com/dp/B0TEST?a=1&amp;b=2",
			msg)
	})

	t.Run("가격 상승", func(t *testing.T) {
		t.Parallel()

		msg := buildMessage(priceChange(19.99, 24.99))
		assert.Contains(t, msg, "📈 가격 상승")
		assert.Contains(t, msg, "USD 19.99 → USD 24.99 (+25.0%)")
	})

	t.Run("이전 가격이 0이면 변동률 생략", func(t *testing.T) {
		t.Parallel()

		msg := buildMessage(priceChange(0, 10))
		assert.Contains(t, msg, "USD 0.00 → USD 10.00\n")
		assert.NotContains(t, msg, "%")
	})
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price    float64
		currency string
		want     string
	}{
		{1234.5, "USD", "USD 1,234.50"},
		{999, "USD", "USD 999.00"},
		{1234567.891, "EUR", "EUR 1,234,567.89"},
		{0, "", "0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPrice(tt.price, tt.currency))
	}
}

// =============================================================================
// Send / Retry
// =============================================================================

func TestNotifier_send(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		errs      []error
		wantErr   bool
		wantType  apperrors.ErrorType
		wantCalls int
	}{
		{name: "즉시 성공", wantCalls: 1},
		{name: "429 후 성공", errs: []error{&tgbotapi.Error{Code: 429, Message: "Too Many Requests"}}, wantCalls: 2},
		{name: "네트워크 오류 후 성공", errs: []error{errors.New("connection reset")}, wantCalls: 2},
		{
			name:      "400은 재시도하지 않음",
			errs:      []error{&tgbotapi.Error{Code: 400, Message: "Bad Request: can't parse entities"}},
			wantErr:   true,
			wantType:  apperrors.ExecutionFailed,
			wantCalls: 1,
		},
		{
			name:      "재시도 횟수 소진",
			errs:      []error{tgbotapi.Error{Code: 502}, tgbotapi.Error{Code: 502}, tgbotapi.Error{Code: 502}},
			wantErr:   true,
			wantType:  apperrors.Unavailable,
			wantCalls: maxRetries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &fakeClient{errs: tt.errs}
			n := newTestNotifier(c, false)

			err := n.send(context.Background(), "hello")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, tt.wantType))
			} else {
				require.NoError(t, err)
			}

			sent := c.sent()
			require.Len(t, sent, tt.wantCalls)
			assert.Equal(t, int64(1234), sent[0].ChatID)
			assert.Equal(t, tgbotapi.ModeHTML, sent[0].ParseMode)
			assert.Equal(t, "hello", sent[0].Text)
		})
	}
}

func TestNotifier_send_CancelledDuringRetryWait(t *testing.T) {
	t.Parallel()

	c := &fakeClient{errs: []error{&tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 30}}}}
	n := newTestNotifier(c, false)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.send(ctx, "hello")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	assert.Less(t, time.Since(start), 5*time.Second, "retry_after(30초)를 기다리지 않고 취소되어야 한다")
}

func TestParseTelegramError(t *testing.T) {
	t.Parallel()

	code, retryAfter := parseTelegramError(&tgbotapi.Error{Code: 429, ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 7}})
	assert.Equal(t, 429, code)
	assert.Equal(t, 7, retryAfter)

	code, _ = parseTelegramError(tgbotapi.Error{Code: 403})
	assert.Equal(t, 403, code)

	code, retryAfter = parseTelegramError(errors.New("dial tcp: timeout"))
	assert.Zero(t, code)
	assert.Zero(t, retryAfter)
}

// =============================================================================
// Queue / Lifecycle
// =============================================================================

func TestNotifier_NotifyPriceChange_OnlyDrops(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(&fakeClient{}, true)

	n.NotifyPriceChange(priceChange(10, 12))
	assert.Len(t, n.queue, 0, "상승 이벤트는 무시")

	n.NotifyPriceChange(priceChange(12, 10))
	assert.Len(t, n.queue, 1)
}

func TestNotifier_NotifyPriceChange_DropsWhenFull(t *testing.T) {
	t.Parallel()

	n := newTestNotifier(&fakeClient{}, false, WithQueueSize(2))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			n.NotifyPriceChange(priceChange(10, float64(i)))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("큐가 가득 차도 호출자를 블로킹하면 안 된다")
	}
	assert.Len(t, n.queue, 2)
}

func TestNotifier_StartDeliversAndDrainsOnStop(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	c := &fakeClient{block: block}
	n := newTestNotifier(c, false)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, n.Start(ctx, &wg))

	wg.Add(1)
	require.NoError(t, n.Start(ctx, &wg), "중복 호출은 무시된다")

	for i := 1; i <= 3; i++ {
		n.NotifyPriceChange(priceChange(100, float64(100-i)))
	}

	// 첫 전송이 진행 중인 상태에서 종료 신호를 보낸 뒤 전송을 풀어준다
	cancel()
	close(block)
	wg.Wait()

	assert.Len(t, c.sent(), 3, "종료 시 큐에 남은 이벤트도 전송된다")

	n.runningMu.Lock()
	assert.False(t, n.running)
	n.runningMu.Unlock()
}
