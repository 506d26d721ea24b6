package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than cap", "one two three", 5, "one two three"},
		{"exactly at cap", "one two three", 3, "one two three"},
		{"over cap", "one two three four", 2, "one two"},
		{"cap disabled", "one two three", 0, "one two three"},
		{"collapses odd spacing", "one   two  three", 2, "one two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateWords(tt.in, tt.n))
		})
	}
}

func TestFallbackSource_HonorsWordCap(t *testing.T) {
	src := NewFallbackSource(1)
	for i := 0; i < 20; i++ {
		text, err := src.RandomText(context.Background(), 30)
		require.NoError(t, err)
		assert.NotEmpty(t, text)
		assert.LessOrEqual(t, len(strings.Fields(text)), 30)
	}
}

func TestFallbackSource_SeedReproducible(t *testing.T) {
	a := NewFallbackSource(7)
	b := NewFallbackSource(7)
	for i := 0; i < 10; i++ {
		ta, _ := a.RandomText(context.Background(), 30)
		tb, _ := b.RandomText(context.Background(), 30)
		assert.Equal(t, ta, tb)
	}
}
