// Package log logrus 기반의 애플리케이션 로깅 유틸리티를 제공합니다.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// WithComponent 로그 발생 위치(컴포넌트)가 기록된 엔트리를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields 컴포넌트와 추가 필드가 기록된 엔트리를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	return logrus.WithField("component", component).WithFields(fields)
}

// SetDebugMode 디버그 모드일 때 Trace, 아니면 Info 레벨로 전역 레벨을 조정합니다.
func SetDebugMode(debug bool) {
	if debug {
		logrus.SetLevel(TraceLevel)
		return
	}
	logrus.SetLevel(InfoLevel)
}

// SetOutput 전역 로거의 기본 출력 대상을 변경합니다. 주로 테스트에서 사용합니다.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// StandardLogger 전역 logrus 로거를 반환합니다.
func StandardLogger() *Logger {
	return logrus.StandardLogger()
}
