package validator_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/darkkaiser/price-tracker/internal/pkg/validator"
	go_validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Concurrency(t *testing.T) {
	t.Parallel()

	const routines = 50
	validators := make([]*go_validator.Validate, routines)

	var wg sync.WaitGroup
	wg.Add(routines)
	for i := range routines {
		go func(index int) {
			defer wg.Done()
			validators[index] = validator.Get()
		}(i)
	}
	wg.Wait()

	for i := 1; i < routines; i++ {
		assert.Same(t, validators[0], validators[i])
	}
}

type scrapeRequest struct {
	SearchTerm  string `json:"searchTerm" validate:"required,max=200" korean:"검색어"`
	MaxProducts int    `json:"maxProducts" validate:"min=0,max=100" korean:"최대 상품 수"`
}

type formatCase struct {
	Name     string   `validate:"required" korean:"이름"`
	Code     string   `validate:"omitempty,len=3" korean:"코드"`
	Tags     []string `validate:"omitempty,min=2" korean:"태그"`
	Limit    int      `validate:"omitempty,lte=100" korean:"개수"`
	Sort     string   `validate:"omitempty,oneof=price_asc price_desc" json:"sort"`
	Homepage string   `validate:"omitempty,url" korean:"홈페이지"`
	Letters  string   `validate:"omitempty,alpha" korean:"문자"`
}

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	valid := formatCase{Name: "ok"}

	tests := []struct {
		name   string
		modify func(c *formatCase)
		want   string
	}{
		{name: "required (받침 있음)", modify: func(c *formatCase) { c.Name = "" }, want: "이름은 필수입니다"},
		{name: "len (받침 없음)", modify: func(c *formatCase) { c.Code = "ab" }, want: "코드는 3자여야 합니다"},
		{name: "min slice", modify: func(c *formatCase) { c.Tags = []string{"a"} }, want: "태그는 최소 2개 이상이어야 합니다"},
		{name: "lte number", modify: func(c *formatCase) { c.Limit = 101 }, want: "개수는 100 이하이어야 합니다"},
		{name: "oneof with json name", modify: func(c *formatCase) { c.Sort = "rating" }, want: "sort는 허용된 값 중 하나여야 합니다 [price_asc price_desc]"},
		{name: "url", modify: func(c *formatCase) { c.Homepage = "not a url" }, want: "홈페이지는 올바른 URL 형식이어야 합니다"},
		{name: "기타 태그", modify: func(c *formatCase) { c.Letters = "123" }, want: "문자 값 검증 실패 (alpha)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid
			tt.modify(&c)

			err := validator.Struct(c)
			require.Error(t, err)
			assert.Equal(t, tt.want, validator.FormatValidationError(err))
		})
	}

	assert.NoError(t, validator.Struct(valid))
}

func TestStruct_ScrapeRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Struct(scrapeRequest{SearchTerm: "laptop", MaxProducts: 5}))

	err := validator.Struct(scrapeRequest{MaxProducts: 101})
	require.Error(t, err)
	assert.Equal(t, "검색어는 필수입니다", validator.FormatValidationError(err))

	err = validator.Struct(scrapeRequest{SearchTerm: "laptop", MaxProducts: 101})
	require.Error(t, err)
	assert.Equal(t, "최대 상품 수는 100 이하이어야 합니다", validator.FormatValidationError(err))
}

func TestFormatValidationError_EdgeCases(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validator.FormatValidationError(nil))
	assert.Equal(t, "plain", validator.FormatValidationError(errors.New("plain")))

	empty := go_validator.ValidationErrors{}
	assert.Equal(t, empty.Error(), validator.FormatValidationError(empty))
}
