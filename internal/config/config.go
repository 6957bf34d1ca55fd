// Package config 애플리케이션 설정을 로드하고 검증합니다.
//
// 설정은 다음 순서로 병합되며 뒤의 값이 앞의 값을 덮어씁니다.
//
//  1. 기본값 (newDefaultConfig)
//  2. JSON 설정 파일 (price-tracker.json)
//  3. OXYLABS_USERNAME / OXYLABS_PASSWORD 환경 변수
//  4. PRICE_TRACKER_ 접두사 환경 변수 (이중 언더스코어는 계층 구분자)
//
// 환경 변수를 읽기 전에 작업 디렉토리의 .env 파일이 있으면 먼저 로드합니다.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/price-tracker/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션 식별자입니다. 로그 파일명과 기본 설정 파일명에 사용됩니다.
	AppName = "price-tracker"

	// DefaultFilename 경로가 지정되지 않았을 때 읽는 설정 파일입니다.
	DefaultFilename = AppName + ".json"

	// DefaultEnvFilename 환경 변수 로드 전에 읽는 dotenv 파일입니다.
	DefaultEnvFilename = ".env"

	// EnvPrefix 설정 키를 덮어쓰는 환경 변수 접두사입니다.
	// 예: PRICE_TRACKER_HTTP_SERVER__LISTEN_PORT -> http_server.listen_port
	EnvPrefix = "PRICE_TRACKER_"

	oxylabsEnvPrefix = "OXYLABS_"
)

// newDefaultConfig 설정 파일에 값이 없을 때 사용할 기본값입니다.
func newDefaultConfig() AppConfig {
	return AppConfig{
		Debug: false,
		HTTPServer: HTTPServerConfig{
			ListenPort:      5000,
			RequestTimeout:  120 * time.Second,
			BodyLimit:       "64K",
			RateLimit:       RateLimitConfig{Requests: 20, Per: time.Second, Burst: 40},
			ScrapeRateLimit: RateLimitConfig{Requests: 5, Per: time.Minute, Burst: 5},
			CORS:            CORSConfig{AllowOrigins: []string{"*"}},
		},
		Sources: SourcesConfig{
			Oxylabs: OxylabsConfig{
				Enabled:  true,
				Endpoint: "https://realtime.oxylabs.io/v1/queries",
				Timeout:  30 * time.Second,
			},
			Amazon: AmazonConfig{
				Enabled:          true,
				BaseURL:          "https://www.amazon.com",
				Timeout:          10 * time.Second,
				MaxResponseBytes: 10 * 1024 * 1024,
			},
		},
		Collector: CollectorConfig{
			DefaultMaxResults: 10,
			FallbackEnabled:   true,
		},
		Reconcile: ReconcileConfig{
			RecordDelay: 100 * time.Millisecond,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    AppName + ".db",
		},
	}
}

// Load 기본 설정 파일을 읽어 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 설정 파일을 읽어 설정을 로드합니다. 파일이 없으면 기본값과 환경 변수만으로 구성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	if err := godotenv.Load(DefaultEnvFilename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("환경 변수 파일('%s')을 읽을 수 없습니다", DefaultEnvFilename))
	}

	k := koanf.New(".")

	// 1. 기본값
	if err := k.Load(structs.Provider(newDefaultConfig(), "json"), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일
	if filename != "" {
		if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
			}
		}
	}

	// 3. 수집 API 자격증명
	if err := k.Load(env.Provider(oxylabsEnvPrefix, ".", normalizeOxylabsEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "Oxylabs 환경 변수 로드에 실패했습니다")
	}

	// 4. 접두사 환경 변수
	if err := k.Load(env.Provider(EnvPrefix, ".", normalizeEnvKey), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, "설정 데이터를 구조체로 변환하는데 실패했습니다")
	}

	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

// normalizeEnvKey PRICE_TRACKER_SOURCES__AMAZON__TIMEOUT -> sources.amazon.timeout
func normalizeEnvKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// normalizeOxylabsEnvKey 자격증명 변수만 sources.oxylabs 하위 키로 매핑하고 나머지는 무시합니다.
func normalizeOxylabsEnvKey(s string) string {
	switch strings.TrimPrefix(s, oxylabsEnvPrefix) {
	case "USERNAME":
		return "sources.oxylabs.username"
	case "PASSWORD":
		return "sources.oxylabs.password"
	}
	return ""
}

// validate 로드된 설정의 정합성을 검사합니다.
func (c *AppConfig) validate() error {
	return checkStruct(newValidator(), c, "애플리케이션")
}

// VerifyRecommendations 오류는 아니지만 운영상 주의가 필요한 설정을 경고 메시지로 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.HTTPServer.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 관리자 권한이 필요할 수 있습니다", c.HTTPServer.ListenPort))
	}
	if c.Sources.Oxylabs.Enabled && (strings.TrimSpace(c.Sources.Oxylabs.Username) == "" || strings.TrimSpace(c.Sources.Oxylabs.Password) == "") {
		warnings = append(warnings, "Oxylabs 자격증명이 설정되지 않았습니다. 구조화 API 수집은 건너뛰고 스크래핑과 기본 데이터로 대체됩니다")
	}
	if !c.Sources.Oxylabs.Enabled && !c.Sources.Amazon.Enabled {
		warnings = append(warnings, "모든 실시간 수집 소스가 비활성화되어 있습니다")
	}
	if c.Storage.Driver == "memory" {
		warnings = append(warnings, "메모리 저장소를 사용합니다. 프로세스가 종료되면 수집된 상품이 모두 사라집니다")
	}

	return warnings
}
