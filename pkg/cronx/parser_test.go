package cronx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		spec          string
		valid         bool
		errorContains string
	}{
		{name: "6필드", spec: "0 */30 * * * *", valid: true},
		{name: "범위와 요일", spec: "0 0 9-18 * * MON-FRI", valid: true},
		{name: "@daily", spec: "@daily", valid: true},
		{name: "@every", spec: "@every 6h", valid: true},
		{name: "5필드는 지원하지 않음", spec: "*/5 * * * *", errorContains: "expected exactly 6 fields"},
		{name: "빈 문자열", spec: "", errorContains: "empty spec string"},
		{name: "잘못된 값", spec: "0 99 * * * *", errorContains: "Cron 표현식 파싱 실패"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.spec)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.errorContains)
			}
		})
	}
}
