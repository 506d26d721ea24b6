package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NuZard84/go-socket-typerace/internal/constants"
)

const raceText = "the quick brown fox jumps over the lazy dog"

func TestCorrectPrefixLen(t *testing.T) {
	tests := []struct {
		name  string
		typed string
		want  int
	}{
		{"empty", "", 0},
		{"single char", "t", 1},
		{"partial word", "the qui", 7},
		{"full text", raceText, len(raceText)},
		{"typo stops counting", "the quack brown fox", 6},
		{"first char wrong", "xhe quick", 0},
		// later characters matching again do not count past the typo
		{"mismatch then aligned tail", "the Quick brown fox", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CorrectPrefixLen(raceText, tt.typed))
		})
	}
}

func TestValidateProgress_AcceptsEveryPrefix(t *testing.T) {
	lim := DefaultLimits()
	prev := ""
	prevCorrect := 0
	for i := 1; i <= len(raceText); i++ {
		p := raceText[:i]
		got, reason := ValidateProgress(raceText, prev, prevCorrect, p, time.Second, lim)
		assert.Empty(t, reason, "prefix of length %d", i)
		assert.Equal(t, i, got)
		prev, prevCorrect = p, got
	}
}

func TestValidateProgress_Violations(t *testing.T) {
	lim := DefaultLimits()

	tests := []struct {
		name        string
		prevTyped   string
		prevCorrect int
		typed       string
		elapsed     time.Duration
		wantReason  string
	}{
		{
			"prefix regression beyond tolerance",
			raceText[:20], 20,
			raceText[:10], 2 * time.Second,
			constants.DQBufferRegression,
		},
		{
			"sharp buffer shrink",
			// the validated prefix holds steady, but a long garbage tail
			// vanished in a single update: paste-then-delete
			raceText[:10] + strings.Repeat("x", 20), 10,
			raceText[:10], 2 * time.Second,
			constants.DQBufferRegression,
		},
		{
			"full text pasted near-instantly",
			"", 0,
			raceText, 100 * time.Millisecond,
			constants.DQPastedInput,
		},
		{
			"sustained superhuman rate",
			raceText[:1], 1,
			raceText[:20], time.Second,
			constants.DQExcessiveSpeed,
		},
		{
			"typing past the end of the text",
			raceText, len(raceText),
			raceText + "xx", 2 * time.Second,
			constants.DQOverrunText,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := ValidateProgress(raceText, tt.prevTyped, tt.prevCorrect, tt.typed, tt.elapsed, lim)
			assert.Equal(t, tt.wantReason, reason)
			assert.Equal(t, tt.prevCorrect, got, "rejected update must not move the validated count")
		})
	}
}

func TestValidateProgress_RegressionWithinToleranceAccepted(t *testing.T) {
	lim := DefaultLimits()
	// Backspacing over a couple of characters is organic typing.
	got, reason := ValidateProgress(raceText, raceText[:12], 12, raceText[:10], time.Second, lim)
	assert.Empty(t, reason)
	assert.Equal(t, 10, got)
}

func TestValidateProgress_SlowFullSubmissionAccepted(t *testing.T) {
	lim := DefaultLimits()
	// 43 chars over 20 seconds is well under the WPM ceiling.
	got, reason := ValidateProgress(raceText, "", 0, raceText, 20*time.Second, lim)
	assert.Empty(t, reason)
	assert.Equal(t, len(raceText), got)
}

func TestValidateProgress_BurstWithinFloorAccepted(t *testing.T) {
	lim := DefaultLimits()
	// A handful of rollover keystrokes flushed in one update should not
	// read as superhuman speed.
	got, reason := ValidateProgress(raceText, raceText[:8], 8, raceText[:11], 50*time.Millisecond, lim)
	assert.Empty(t, reason)
	assert.Equal(t, 11, got)
}
