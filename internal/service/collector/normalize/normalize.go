// Package normalize 수집된 가격, 평점, 리뷰 수 문자열을 숫자로 변환합니다.
//
// 모든 함수는 순수 함수이며 값을 찾지 못하면 false를 반환합니다.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxRating 평점의 최댓값입니다. 0 ~ MaxRating 범위를 벗어난 평점은 없는 값으로 취급합니다.
const MaxRating = 5.0

var (
	priceRe   = regexp.MustCompile(`\$?([0-9,]+\.?[0-9]*)`)
	ratingRe  = regexp.MustCompile(`[0-9]+\.[0-9]+`)
	reviewsRe = regexp.MustCompile(`[0-9,]+`)
)

// ParsePrice 텍스트에서 처음 나타나는 가격을 추출합니다.
//
//	ParsePrice("$1,234.56") // 1234.56, true
//	ParsePrice("N/A")       // 0, false
func ParsePrice(text string) (float64, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	digits := strings.ReplaceAll(m[1], ",", "")
	v, err := strconv.ParseFloat(strings.TrimSuffix(digits, "."), 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// ParseRating 텍스트에서 처음 나타나는 소수 형태의 평점을 추출합니다.
//
//	ParseRating("4.5 out of 5 stars") // 4.5, true
//	ParseRating("10.5 out of 5")      // 0, false
func ParseRating(text string) (float64, bool) {
	m := ratingRe.FindString(text)
	if m == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil || !ValidRating(v) {
		return 0, false
	}

	return v, true
}

// ValidRating 평점이 0 이상 MaxRating 이하인지 확인합니다.
func ValidRating(v float64) bool {
	return v >= 0 && v <= MaxRating
}

// ParseReviewsCount 텍스트에서 처음 나타나는 정수(천 단위 구분자 허용)를 추출합니다.
//
//	ParseReviewsCount("(12,345)") // 12345, true
func ParseReviewsCount(text string) (int, bool) {
	m := reviewsRe.FindString(text)
	if m == "" {
		return 0, false
	}

	v, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, false
	}

	return v, true
}
