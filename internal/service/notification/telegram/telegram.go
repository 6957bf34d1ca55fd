// Package telegram 가격 변동 이벤트를 텔레그램 메시지로 전송하는 알림 수신자를 제공합니다.
//
// NotifyPriceChange는 호출자를 블로킹하지 않습니다. 이벤트는 크기가 제한된 큐에 쌓이고,
// Start로 시작된 전송 고루틴이 텔레그램 API 호출 속도 제한을 지키며 순서대로 전송합니다.
// 큐가 가득 차면 새 이벤트는 경고 로그와 함께 버려집니다.
package telegram

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/darkkaiser/price-tracker/internal/config"
	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/darkkaiser/price-tracker/internal/service/contract"
	applog "github.com/darkkaiser/price-tracker/pkg/log"
	"github.com/darkkaiser/price-tracker/pkg/strutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// component 텔레그램 알림 수신자의 로깅용 컴포넌트 이름
const component = "notification.telegram"

const (
	// defaultQueueSize 전송 대기 중인 이벤트의 최대 개수
	defaultQueueSize = 100

	// httpClientTimeout 텔레그램 API 요청 하나의 최대 시간
	httpClientTimeout = 30 * time.Second

	// sendTimeout 이벤트 하나의 전송(재시도 포함)에 허용하는 최대 시간
	sendTimeout = 30 * time.Second

	// drainTimeout 종료 시 큐에 남은 이벤트를 전송하는 데 허용하는 최대 시간
	drainTimeout = 10 * time.Second
)

// client 텔레그램 봇 API 중 메시지 전송 기능만 추상화한 인터페이스입니다.
type client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier 가격 변동 이벤트를 텔레그램으로 전송합니다.
type Notifier struct {
	chatID    int64
	onlyDrops bool

	client client

	queue chan contract.PriceChange

	// rateLimiter 채팅방당 초당 1회 전송 정책을 지키기 위한 제한기
	rateLimiter *rate.Limiter

	retryDelay time.Duration

	running   bool
	runningMu sync.Mutex
}

var _ contract.PriceChangeNotifier = (*Notifier)(nil)

// Option Notifier 구성을 위한 옵션 함수 타입입니다.
type Option func(*Notifier)

// WithQueueSize 전송 대기 큐의 크기를 지정합니다.
func WithQueueSize(n int) Option {
	return func(t *Notifier) {
		if n > 0 {
			t.queue = make(chan contract.PriceChange, n)
		}
	}
}

// WithRateLimit 메시지 전송 속도 제한을 지정합니다.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(t *Notifier) {
		t.rateLimiter = rate.NewLimiter(limit, burst)
	}
}

// WithRetryDelay 전송 실패 후 재시도 전 기본 대기 시간을 지정합니다.
func WithRetryDelay(d time.Duration) Option {
	return func(t *Notifier) {
		if d >= 0 {
			t.retryDelay = d
		}
	}
}

// New 봇 토큰으로 텔레그램 API 클라이언트를 초기화하여 Notifier를 생성합니다.
// 토큰 검증을 위해 getMe API를 한 번 호출합니다.
func New(cfg config.TelegramConfig, opts ...Option) (*Notifier, error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"bot_token": strutil.MaskSensitiveData(cfg.BotToken),
		"chat_id":   cfg.ChatID,
	}).Debug("텔레그램 봇 API 클라이언트 초기화")

	botAPI, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: httpClientTimeout})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Configuration, "텔레그램 봇 API 클라이언트 초기화에 실패했습니다. BotToken이 올바른지 확인해주세요")
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"bot_username": botAPI.Self.UserName,
	}).Info("텔레그램 봇 연결 완료")

	return newNotifier(botAPI, cfg.ChatID, cfg.OnlyDrops, opts...), nil
}

func newNotifier(c client, chatID int64, onlyDrops bool, opts ...Option) *Notifier {
	n := &Notifier{
		chatID:    chatID,
		onlyDrops: onlyDrops,

		client: c,

		queue: make(chan contract.PriceChange, defaultQueueSize),

		rateLimiter: rate.NewLimiter(rate.Limit(1), 1),

		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyPriceChange 가격 변동 이벤트를 전송 큐에 추가합니다.
//
// 하락 알림만 설정된 경우 상승 이벤트는 무시합니다. 큐가 가득 차면 이벤트를 버립니다.
func (n *Notifier) NotifyPriceChange(change contract.PriceChange) {
	if n.onlyDrops && !change.Dropped() {
		return
	}

	select {
	case n.queue <- change:
	default:
		applog.WithComponentAndFields(component, applog.Fields{
			"product_url": change.Product.ProductURL,
			"old_price":   change.OldPrice,
			"new_price":   change.NewPrice,
			"queue_size":  cap(n.queue),
		}).Warn("알림 큐가 가득 차 가격 변동 알림을 버립니다")
	}
}

// Start 전송 고루틴을 시작합니다.
//
// serviceStopCtx가 취소되면 진행 중인 전송을 마치고, 큐에 남은 이벤트를 최대 10초 동안 전송한 뒤
// serviceStopWG.Done()을 호출합니다.
func (n *Notifier) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	n.runningMu.Lock()
	defer n.runningMu.Unlock()

	if n.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("텔레그램 알림 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}
	n.running = true

	go n.run(serviceStopCtx, serviceStopWG)

	applog.WithComponentAndFields(component, applog.Fields{
		"chat_id":    n.chatID,
		"only_drops": n.onlyDrops,
	}).Info("텔레그램 알림 서비스 시작됨")

	return nil
}

func (n *Notifier) run(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	defer func() {
		n.runningMu.Lock()
		n.running = false
		n.runningMu.Unlock()
	}()

	for {
		select {
		case change := <-n.queue:
			// 전송은 종료 신호와 무관하게 sendTimeout 안에서 끝까지 진행한다
			n.deliver(context.Background(), change)

		case <-serviceStopCtx.Done():
			n.drain()
			return
		}
	}
}

// drain 종료 시 큐에 남은 이벤트를 제한 시간 안에서 최대한 전송합니다.
func (n *Notifier) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case change := <-n.queue:
			n.deliver(ctx, change)
		default:
			applog.WithComponent(component).Info("텔레그램 알림 서비스 중지됨")
			return
		}

		if ctx.Err() != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"remaining": len(n.queue),
			}).Warn("종료 제한 시간 초과: 남은 가격 변동 알림을 버립니다")
			return
		}
	}
}

// deliver 이벤트 하나를 메시지로 변환하여 전송합니다. 한 건의 패닉이 전송 루프를 멈추지 않도록 격리합니다.
func (n *Notifier) deliver(parent context.Context, change contract.PriceChange) {
	ctx, cancel := context.WithTimeout(parent, sendTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"product_url": change.Product.ProductURL,
				"panic":       r,
			}).Error("메시지 처리 실패: 전송 중 패닉 발생 (해당 건 스킵)")
		}
	}()

	if err := n.send(ctx, buildMessage(change)); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id":     n.chatID,
			"product_url": change.Product.ProductURL,
			"error":       err,
		}).Error("가격 변동 알림 전송 실패")
	}
}
