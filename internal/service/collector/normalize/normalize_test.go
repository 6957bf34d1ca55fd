package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{input: "$1,234.56", want: 1234.56, wantOK: true},
		{input: "$19.99", want: 19.99, wantOK: true},
		{input: "24.99", want: 24.99, wantOK: true},
		{input: "From $5", want: 5, wantOK: true},
		{input: "$12.", want: 12, wantOK: true},
		{input: "$10.00 - $20.00", want: 10, wantOK: true},
		{input: "  $ 7.50 ", want: 7.5, wantOK: true},
		{input: "", wantOK: false},
		{input: "N/A", wantOK: false},
		{input: "$", wantOK: false},
		{input: ",,,", wantOK: false},
		{input: "Currently unavailable", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{input: "4.5 out of 5 stars", want: 4.5, wantOK: true},
		{input: "Rated 3.0", want: 3.0, wantOK: true},
		{input: "5 stars", wantOK: false},
		{input: "5.0 out of 5", want: 5.0, wantOK: true},
		{input: "0.0 out of 5", want: 0, wantOK: true},
		{input: "10.5 out of 5", wantOK: false},
		{input: "", wantOK: false},
		{input: "N/A", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseRating(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestValidRating(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidRating(0))
	assert.True(t, ValidRating(4.7))
	assert.True(t, ValidRating(MaxRating))
	assert.False(t, ValidRating(5.01))
	assert.False(t, ValidRating(-1))
}

func TestParseReviewsCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{input: "(12,345)", want: 12345, wantOK: true},
		{input: "1,024 ratings", want: 1024, wantOK: true},
		{input: "87", want: 87, wantOK: true},
		{input: "", wantOK: false},
		{input: "N/A", wantOK: false},
		{input: ",", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseReviewsCount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"$1,234.56", "4.7 out of 5", "(3,210)", "", "N/A"} {
		p1, ok1 := ParsePrice(in)
		p2, ok2 := ParsePrice(in)
		assert.Equal(t, p1, p2)
		assert.Equal(t, ok1, ok2)

		r1, _ := ParseRating(in)
		r2, _ := ParseRating(in)
		assert.Equal(t, r1, r2)

		c1, _ := ParseReviewsCount(in)
		c2, _ := ParseReviewsCount(in)
		assert.Equal(t, c1, c2)
	}
}
