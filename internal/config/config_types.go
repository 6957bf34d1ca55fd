package config

import "time"

// AppConfig 애플리케이션의 모든 설정을 담는 최상위 구조체입니다.
type AppConfig struct {
	Debug      bool             `json:"debug"`
	HTTPServer HTTPServerConfig `json:"http_server"`
	Sources    SourcesConfig    `json:"sources"`
	Collector  CollectorConfig  `json:"collector"`
	Reconcile  ReconcileConfig  `json:"reconcile"`
	Storage    StorageConfig    `json:"storage"`
	Scheduler  SchedulerConfig  `json:"scheduler"`
	Notifier   NotifierConfig   `json:"notifier"`
}

// HTTPServerConfig 상품 조회 및 수집 요청 API 서버 설정입니다.
type HTTPServerConfig struct {
	ListenPort      int             `json:"listen_port" validate:"min=1,max=65535"`
	RequestTimeout  time.Duration   `json:"request_timeout" validate:"gt=0"`
	BodyLimit       string          `json:"body_limit" validate:"required"`
	RateLimit       RateLimitConfig `json:"rate_limit"`
	ScrapeRateLimit RateLimitConfig `json:"scrape_rate_limit"`
	CORS            CORSConfig      `json:"cors"`
}

// RateLimitConfig IP별 요청 허용량입니다. Per 동안 Requests 회의 요청을 허용합니다.
type RateLimitConfig struct {
	Requests int           `json:"requests" validate:"min=1"`
	Per      time.Duration `json:"per" validate:"gt=0"`
	Burst    int           `json:"burst" validate:"min=1"`
}

// CORSConfig 교차 출처 요청 허용 정책입니다.
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"min=1,dive,cors_origin"`
}

// SourcesConfig 상품 수집 소스 설정입니다.
type SourcesConfig struct {
	Oxylabs OxylabsConfig `json:"oxylabs"`
	Amazon  AmazonConfig  `json:"amazon"`
}

// OxylabsConfig 구조화 검색 API(Oxylabs Realtime) 설정입니다.
//
// 자격증명은 설정 파일 대신 OXYLABS_USERNAME / OXYLABS_PASSWORD 환경 변수로 주입하는 것을 권장합니다.
// 자격증명이 비어 있어도 설정 로드는 실패하지 않으며, 수집 시점에 Configuration 에러로 처리됩니다.
type OxylabsConfig struct {
	Enabled  bool          `json:"enabled"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Endpoint string        `json:"endpoint" validate:"required,url"`
	Timeout  time.Duration `json:"timeout" validate:"gt=0"`
}

// AmazonConfig 검색 결과 페이지 스크래핑 설정입니다.
type AmazonConfig struct {
	Enabled          bool          `json:"enabled"`
	BaseURL          string        `json:"base_url" validate:"required,url"`
	Timeout          time.Duration `json:"timeout" validate:"gt=0"`
	MaxResponseBytes int64         `json:"max_response_bytes" validate:"gte=0"`
}

// CollectorConfig 수집 파이프라인 설정입니다.
type CollectorConfig struct {
	DefaultMaxResults int    `json:"default_max_results" validate:"min=1,max=100"`
	FallbackEnabled   bool   `json:"fallback_enabled"`
	FallbackFile      string `json:"fallback_file" validate:"omitempty,file"`
}

// ReconcileConfig 상품 식별 및 이력 관리 설정입니다.
type ReconcileConfig struct {
	// RecordDelay 레코드 하나를 저장한 뒤 다음 레코드를 처리하기 전까지의 대기 시간
	RecordDelay time.Duration `json:"record_delay" validate:"gte=0"`
}

// StorageConfig 상품 저장소 설정입니다.
type StorageConfig struct {
	Driver string `json:"driver" validate:"oneof=sqlite memory"`
	DSN    string `json:"dsn" validate:"required_if=Driver sqlite"`
}

// SchedulerConfig 주기적인 자동 수집 설정입니다.
type SchedulerConfig struct {
	Jobs []JobConfig `json:"jobs" validate:"unique=ID,dive"`
}

// JobConfig 하나의 검색어에 대한 자동 수집 일정입니다.
type JobConfig struct {
	ID         string `json:"id" validate:"required"`
	SearchTerm string `json:"search_term" validate:"required"`
	MaxResults int    `json:"max_results" validate:"gte=0,lte=100"`
	TimeSpec   string `json:"time_spec" validate:"required,cron_spec"`
	Enabled    bool   `json:"enabled"`
}

// NotifierConfig 가격 변동 알림 설정입니다.
type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

// TelegramConfig 텔레그램 봇 설정입니다.
type TelegramConfig struct {
	Enabled   bool   `json:"enabled"`
	BotToken  string `json:"bot_token" validate:"required_if=Enabled true,omitempty,telegram_bot_token"`
	ChatID    int64  `json:"chat_id" validate:"required_if=Enabled true"`
	OnlyDrops bool   `json:"only_drops"`
}
