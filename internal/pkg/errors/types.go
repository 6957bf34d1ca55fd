package errors

import "strconv"

// ErrorType 에러의 성격을 분류하는 타입입니다.
type ErrorType int

const (
	// Unknown 분류되지 않은 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류
	Internal

	// System 디스크, 데이터베이스 등 인프라 수준의 오류
	System

	// Configuration 필수 설정값(자격증명 등) 누락 또는 설정 오류
	// 일시적인 장애가 아니므로 재시도해도 해결되지 않습니다.
	Configuration

	// Unauthorized 인증 실패
	Unauthorized

	// Forbidden 권한 부족
	Forbidden

	// InvalidInput 입력값 검증 실패
	InvalidInput

	// Conflict 리소스 충돌 (중복 생성 등)
	Conflict

	// NotFound 리소스를 찾을 수 없음
	NotFound

	// ExecutionFailed 외부 API 호출이나 스크래핑 등 작업 수행 실패
	ExecutionFailed

	// ParsingFailed HTML/JSON 등 데이터 파싱 실패
	ParsingFailed

	// Timeout 시간 초과
	Timeout

	// Unavailable 서비스 일시적 사용 불가
	Unavailable
)

var errorTypeNames = [...]string{
	Unknown:         "Unknown",
	Internal:        "Internal",
	System:          "System",
	Configuration:   "Configuration",
	Unauthorized:    "Unauthorized",
	Forbidden:       "Forbidden",
	InvalidInput:    "InvalidInput",
	Conflict:        "Conflict",
	NotFound:        "NotFound",
	ExecutionFailed: "ExecutionFailed",
	ParsingFailed:   "ParsingFailed",
	Timeout:         "Timeout",
	Unavailable:     "Unavailable",
}

// String ErrorType의 이름을 반환합니다.
func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + strconv.Itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}
