package constants

import "time"

// Room lifecycle and configuration constants
const (
	StatusWaiting  = "waiting"
	StatusRunning  = "running"
	StatusFinished = "finished"

	MaxmimumPlayers = 10
	MaxRooms        = 100

	DefaultTextWords = 30
	MaxAllowedWPM    = 220

	IdleGracePeriod   = 60 * time.Second
	FinishedRetention = 2 * time.Minute
)

// Disqualification reasons carried by user-disqualified events.
const (
	DQPastedInput      = "PastedInput"
	DQExcessiveSpeed   = "ExcessiveSpeed"
	DQBufferRegression = "BufferRegression"
	DQOverrunText      = "OverrunText"
)
