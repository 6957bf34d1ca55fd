package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendBase62Fixed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		num    uint64
		length int
		want   string
	}{
		{num: 0, length: 3, want: "000"},
		{num: 61, length: 1, want: "z"},
		{num: 62, length: 1, want: "10"},
		{num: 123, length: 4, want: "001Z"},
		{num: 0, length: 0, want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, string(appendBase62Fixed(nil, tt.num, tt.length)))
	}
}

func TestGenerator_NewSuffix_Format(t *testing.T) {
	t.Parallel()

	g := New()
	s := g.NewSuffix()

	require.Len(t, s, seqLength+randLength)
	assert.Equal(t, "00001", s[:seqLength])
	for _, c := range s {
		assert.Contains(t, base62Chars, string(c))
	}
}

func TestGenerator_NewSuffix_UniqueConcurrent(t *testing.T) {
	t.Parallel()

	const (
		workers   = 8
		perWorker = 500
	)

	g := New()
	results := make(chan string, workers*perWorker)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				results <- g.NewSuffix()
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]struct{}, workers*perWorker)
	for s := range results {
		_, dup := seen[s]
		require.False(t, dup, "중복된 접미사: %s", s)
		seen[s] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}
