package game

import (
	"time"

	"github.com/NuZard84/go-socket-typerace/internal/constants"
)

// Limits holds the per-room anti-cheat and pacing thresholds. Zero value
// is not usable; start from DefaultLimits.
type Limits struct {
	MaxPlayers int

	// Anti-cheat thresholds, see ValidateProgress.
	MaxWPM              int
	RegressionTolerance int
	ShrinkThreshold     int
	PasteJumpChars      int
	PasteWindow         time.Duration
	SpeedFloor          time.Duration

	// Optional wall-clock cap on a running race. Zero disables it.
	RaceDurationCap time.Duration

	// Defensive per-connection update-rate cap.
	UpdatesPerSecond float64
	UpdateBurst      int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPlayers:          constants.MaxmimumPlayers,
		MaxWPM:              constants.MaxAllowedWPM,
		RegressionTolerance: 2,
		ShrinkThreshold:     10,
		PasteJumpChars:      20,
		PasteWindow:         250 * time.Millisecond,
		SpeedFloor:          500 * time.Millisecond,
		UpdatesPerSecond:    25,
		UpdateBurst:         50,
	}
}

// CorrectPrefixLen counts characters of typed that match text positionally
// from index 0, stopping at the first mismatch. A typo at position k caps
// the count at k even if later characters line up again: the race models
// strict sequential typing, not best-effort alignment.
func CorrectPrefixLen(text, typed string) int {
	tr := []rune(text)
	yr := []rune(typed)
	n := len(tr)
	if len(yr) < n {
		n = len(yr)
	}
	for i := 0; i < n; i++ {
		if tr[i] != yr[i] {
			return i
		}
	}
	return n
}

// ValidateProgress derives the new validated correct-character count from a
// full-buffer submission and screens it against the cheating signatures.
// The client resends its entire buffer on every keystroke, so the check is
// stateless given the previous snapshot. It returns the new count and an
// empty reason on acceptance, or the previous count and a disqualification
// reason from the constants package on rejection.
func ValidateProgress(text, prevTyped string, prevCorrect int, typed string, elapsed time.Duration, lim Limits) (int, string) {
	newCorrect := CorrectPrefixLen(text, typed)

	// A validated prefix shrinking past the tolerance, or the whole buffer
	// collapsing in one update, means the buffer was replaced rather than
	// typed: paste-then-delete leaves exactly this trace.
	if newCorrect < prevCorrect-lim.RegressionTolerance {
		return prevCorrect, constants.DQBufferRegression
	}
	if len([]rune(typed)) < len([]rune(prevTyped))-lim.ShrinkThreshold {
		return prevCorrect, constants.DQBufferRegression
	}

	gain := newCorrect - prevCorrect
	if gain >= lim.PasteJumpChars && elapsed <= lim.PasteWindow {
		return prevCorrect, constants.DQPastedInput
	}

	if gain > 0 {
		// Clamp the window so a burst of a few keystrokes in one network
		// flush does not read as superhuman speed.
		window := elapsed
		if window < lim.SpeedFloor {
			window = lim.SpeedFloor
		}
		if WPM(gain, window) > lim.MaxWPM {
			return prevCorrect, constants.DQExcessiveSpeed
		}
	}

	if len([]rune(typed)) > len([]rune(text)) {
		return prevCorrect, constants.DQOverrunText
	}

	return newCorrect, ""
}
