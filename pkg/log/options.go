package log

import (
	"fmt"
	"os"
)

// Options 로그 시스템 초기화 옵션입니다.
type Options struct {
	Name  string // 로그 파일명에 사용되는 애플리케이션 식별자
	Dir   string // 로그 디렉토리 (기본값: logs)
	Level Level

	MaxAge     int // 보관 일수 (0: 삭제 안 함)
	MaxSizeMB  int // 파일당 최대 크기 (0: 100MB)
	MaxBackups int // 백업 파일 수 (0: 20개)

	EnableCriticalLog bool // ERROR 이상을 {name}.critical.log 로 별도 기록
	EnableVerboseLog  bool // DEBUG 이하를 {name}.verbose.log 로 분리 기록
	EnableConsoleLog  bool // 표준 출력에도 기록

	ReportCaller bool
}

// Validate 옵션의 정합성을 검사합니다.
func (o *Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if o.Dir != "" {
		if info, err := os.Stat(o.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", o.Dir)
		}
	}

	if o.MaxAge < 0 || o.MaxSizeMB < 0 || o.MaxBackups < 0 {
		return fmt.Errorf("로그 보관 설정은 0 이상이어야 합니다 (MaxAge=%d, MaxSizeMB=%d, MaxBackups=%d)", o.MaxAge, o.MaxSizeMB, o.MaxBackups)
	}

	return nil
}

// NewProductionOptions 운영 환경용 옵션을 반환합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: InfoLevel,

		MaxAge:     30,
		MaxSizeMB:  100,
		MaxBackups: 20,

		EnableCriticalLog: true,
		EnableVerboseLog:  true,
		EnableConsoleLog:  false,

		ReportCaller: true,
	}
}

// NewDevelopmentOptions 개발 환경용 옵션을 반환합니다. 모든 로그를 한 파일과 콘솔에 기록합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:  appName,
		Level: TraceLevel,

		MaxAge:     1,
		MaxSizeMB:  50,
		MaxBackups: 5,

		EnableConsoleLog: true,

		ReportCaller: true,
	}
}
