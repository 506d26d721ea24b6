package game

import (
	"math"
	"time"
)

// WPM converts a validated correct-character count and elapsed race time
// into words per minute, using the standard five characters per word.
// Returns 0 for a non-positive elapsed time so clock skew never produces
// a garbage score.
func WPM(correctChars int, elapsed time.Duration) int {
	if correctChars <= 0 || elapsed <= 0 {
		return 0
	}
	words := float64(correctChars) / 5
	return int(math.Round(words / elapsed.Minutes()))
}

// Accuracy is the percentage of submitted characters that were correct.
// An empty submission is not a penalty: no attempt yet means 100.
func Accuracy(correctChars, totalTypedChars int) int {
	if totalTypedChars <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(correctChars) / float64(totalTypedChars)))
}

// ProgressPercent maps a correct-character count onto 0-100 of the race
// text, clamped so rounding never reports over 100.
func ProgressPercent(correctChars, textLength int) int {
	if textLength <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(correctChars) / float64(textLength)))
	if p > 100 {
		p = 100
	}
	return p
}
