package game

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/NuZard84/go-socket-typerace/internal/models"
)

// Participant is the per-connection record inside a room. All mutable
// fields are owned by the room and guarded by its mutex; the outbound
// channel is the only thing touched from outside.
type Participant struct {
	ConnID   string
	Username string

	joinOrder    int
	typedText    string
	correctChars int
	progress     int
	wpm          int
	accuracy     int

	finished     bool
	completed    bool
	finishedAt   *time.Time
	disqualified bool
	dqReason     string

	lastUpdate time.Time
	limiter    *rate.Limiter
	send       chan<- models.OutEvent
}

// NewParticipant builds a participant bound to an outbound event channel.
// The gateway's write pump drains the channel; a nil channel is allowed
// in tests that do not care about broadcasts.
func NewParticipant(connID, username string, send chan<- models.OutEvent, lim Limits) *Participant {
	return &Participant{
		ConnID:   connID,
		Username: username,
		accuracy: 100,
		limiter:  rate.NewLimiter(rate.Limit(lim.UpdatesPerSecond), lim.UpdateBurst),
		send:     send,
	}
}

// State returns the broadcast-safe view. Caller holds the room lock.
func (p *Participant) State() models.UserState {
	return models.UserState{
		Username:     p.Username,
		Progress:     p.progress,
		WPM:          p.wpm,
		Accuracy:     p.accuracy,
		Finished:     p.finished,
		Disqualified: p.disqualified,
		DQReason:     p.dqReason,
	}
}

// disqualify freezes the participant at its last valid metrics.
// Both flags are monotonic and the reason is set exactly once.
func (p *Participant) disqualify(reason string, now time.Time) {
	if p.disqualified {
		return
	}
	p.disqualified = true
	p.dqReason = reason
	p.finished = true
	p.finishedAt = &now
}

// deliver pushes an event to the participant's connection without ever
// blocking room logic on a slow socket.
func (p *Participant) deliver(ev models.OutEvent) bool {
	if p.send == nil {
		return false
	}
	select {
	case p.send <- ev:
		return true
	default:
		return false
	}
}
