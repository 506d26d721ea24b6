package db

import (
	"context"
	"math/rand"
	"strings"
	"sync"
)

// fallbackSentences keeps the server usable without a database.
var fallbackSentences = []string{
	"The quick brown fox jumps over the lazy dog while the sun sets behind the distant mountains and the evening breeze carries the scent of pine through the quiet valley below.",
	"Typing fast is less about moving your fingers quickly and more about building muscle memory through steady deliberate practice every single day until the keyboard disappears.",
	"A small boat drifted across the calm lake at dawn and the fisherman watched the mist rise slowly from the water as the first light touched the tops of the tallest trees.",
	"Programmers spend most of their time reading code rather than writing it so clear names and short functions matter far more than clever tricks that save a line or two.",
	"The old library smelled of dust and paper and the afternoon light fell in long yellow stripes across the wooden floor where a cat slept between two towers of borrowed books.",
}

// FallbackSource is a TextProvider backed by the built-in corpus.
type FallbackSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewFallbackSource(seed int64) *FallbackSource {
	return &FallbackSource{rnd: rand.New(rand.NewSource(seed))}
}

func (f *FallbackSource) RandomText(_ context.Context, maxWords int) (string, error) {
	f.mu.Lock()
	sentence := fallbackSentences[f.rnd.Intn(len(fallbackSentences))]
	f.mu.Unlock()
	return TruncateWords(sentence, maxWords), nil
}

// TruncateWords caps a sentence at n words. Zero or negative n leaves the
// sentence untouched.
func TruncateWords(s string, n int) string {
	if n <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}
