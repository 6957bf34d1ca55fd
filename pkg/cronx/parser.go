// Package cronx 애플리케이션 전역에서 공유하는 Cron 표현식 규칙을 제공합니다.
package cronx

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// StandardParser 초 단위를 포함하는 6필드 형식과 @daily, @every 등의 디스크립터를 지원하는 파서를 반환합니다.
//
//   - "0 */30 * * * *" : 매 30분 0초
//   - "@every 6h"      : 6시간마다
func StandardParser() cron.Parser {
	return cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
}

// Validate StandardParser 기준으로 표현식의 유효성을 검사합니다.
func Validate(spec string) error {
	if _, err := StandardParser().Parse(spec); err != nil {
		return fmt.Errorf("Cron 표현식 파싱 실패(spec=%q): %w", spec, err)
	}
	return nil
}
