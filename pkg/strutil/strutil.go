// Package strutil 문자열 정리와 마스킹 유틸리티를 제공합니다.
package strutil

import "strings"

// NormalizeSpaces 앞뒤 공백을 제거하고 연속된 공백(개행, 탭 포함)을 하나로 축약합니다.
//
//	"  Apple   MacBook\n Air  " -> "Apple MacBook Air"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JoinFields 공백으로 구분된 단어들을 sep 으로 연결합니다. 연속된 공백은 하나의 구분자로 취급합니다.
//
//	JoinFields("gaming  laptop", "-") -> "gaming-laptop"
func JoinFields(s, sep string) string {
	return strings.Join(strings.Fields(s), sep)
}

// Truncate 문자열을 최대 n개의 룬으로 자르고, 잘린 경우 "..."을 덧붙입니다.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// MaskSensitiveData 자격증명 등 민감한 값을 로그에 남길 수 있도록 마스킹합니다.
//
//   - 3자 이하: 전체 마스킹
//   - 12자 이하: 앞 4자만 노출
//   - 그 외: 앞 4자와 뒤 4자만 노출
func MaskSensitiveData(data string) string {
	switch {
	case data == "":
		return ""
	case len(data) <= 3:
		return "***"
	case len(data) <= 12:
		return data[:4] + "***"
	default:
		return data[:4] + "***" + data[len(data)-4:]
	}
}
