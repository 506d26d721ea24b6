package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NuZard84/go-socket-typerace/internal/constants"
	"github.com/NuZard84/go-socket-typerace/internal/models"
)

// Room is the authoritative state machine for one race. A single mutex
// serializes every operation against the room, which gives the required
// single-writer semantics per room while rooms stay fully independent of
// each other.
type Room struct {
	ID   string
	Text string

	mu           sync.RWMutex
	status       string
	startedAt    *time.Time
	hostConnID   string
	participants map[string]*Participant
	order        []string
	results      []models.ResultEntry
	nextJoin     int

	limits   Limits
	capTimer *time.Timer

	// now and after are swapped out in tests for deterministic timing.
	now   func() time.Time
	after func(d time.Duration, f func()) *time.Timer

	// Registry hooks, invoked when the room empties or reaches its
	// terminal state so the owner can schedule destruction.
	onEmpty    func(roomID string)
	onFinished func(roomID string)
}

func NewRoom(id, text string, limits Limits, onEmpty, onFinished func(string)) *Room {
	log.Info().Str("room", id).Int("textLen", len(text)).Msg("creating new room")
	return &Room{
		ID:           id,
		Text:         text,
		status:       constants.StatusWaiting,
		participants: make(map[string]*Participant),
		limits:       limits,
		now:          time.Now,
		after:        time.AfterFunc,
		onEmpty:      onEmpty,
		onFinished:   onFinished,
	}
}

// Status returns the current lifecycle state.
func (room *Room) Status() string {
	room.mu.RLock()
	defer room.mu.RUnlock()
	return room.status
}

// HostConnID returns the connection currently allowed to start the race.
func (room *Room) HostConnID() string {
	room.mu.RLock()
	defer room.mu.RUnlock()
	return room.hostConnID
}

// ParticipantCount reports the current roster size.
func (room *Room) ParticipantCount() int {
	room.mu.RLock()
	defer room.mu.RUnlock()
	return len(room.participants)
}

// Join adds a participant to a waiting room, or rebinds an existing
// member's connection after a reconnect. The first joiner becomes host.
// The returned snapshot lets the new client render consistent state even
// if it connected after earlier broadcasts went out.
func (room *Room) Join(p *Participant) (models.RaceStatePayload, error) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if existing, ok := room.participants[p.ConnID]; ok {
		// Reconnect with the same connection identity: swap the outbound
		// channel, keep all validated state.
		existing.send = p.send
		return room.snapshotLocked(), nil
	}

	if room.status != constants.StatusWaiting {
		return models.RaceStatePayload{}, ErrRoomAlreadyRunning
	}
	if len(room.participants) >= room.limits.MaxPlayers {
		return models.RaceStatePayload{}, ErrRoomFull
	}
	for _, other := range room.participants {
		if other.Username == p.Username {
			return models.RaceStatePayload{}, ErrUsernameTaken
		}
	}

	p.joinOrder = room.nextJoin
	room.nextJoin++
	room.participants[p.ConnID] = p
	room.order = append(room.order, p.ConnID)
	if room.hostConnID == "" {
		room.hostConnID = p.ConnID
	}

	log.Info().Str("room", room.ID).Str("conn", p.ConnID).Str("username", p.Username).
		Int("players", len(room.participants)).Msg("participant joined")

	room.broadcastLocked(models.OutEvent{
		Name:    models.EventUserJoined,
		Payload: models.UsersPayload{Users: room.usersLocked()},
	}, p.ConnID)

	return room.snapshotLocked(), nil
}

// Leave removes a participant. Host role transfers to the next joiner;
// an emptied room is handed to the registry for grace-period destruction.
func (room *Room) Leave(connID string) {
	room.mu.Lock()

	p, ok := room.participants[connID]
	if !ok {
		room.mu.Unlock()
		return
	}
	delete(room.participants, connID)
	for i, id := range room.order {
		if id == connID {
			room.order = append(room.order[:i], room.order[i+1:]...)
			break
		}
	}

	log.Info().Str("room", room.ID).Str("conn", connID).Str("username", p.Username).
		Int("players", len(room.participants)).Msg("participant left")

	if room.hostConnID == connID {
		if len(room.order) > 0 {
			room.hostConnID = room.order[0]
			log.Info().Str("room", room.ID).Str("conn", room.hostConnID).Msg("host role transferred")
		} else {
			// Nobody left to hold the role; the next joiner becomes host,
			// otherwise a rejoined room could never start.
			room.hostConnID = ""
		}
	}

	room.broadcastLocked(models.OutEvent{
		Name:    models.EventUserLeft,
		Payload: models.UsersPayload{Users: room.usersLocked()},
	})

	if room.status == constants.StatusRunning && len(room.participants) > 0 && room.allDoneLocked() {
		room.endLocked()
	}

	empty := len(room.participants) == 0
	room.mu.Unlock()

	if empty && room.onEmpty != nil {
		room.onEmpty(room.ID)
	}
}

// Start drives the waiting -> running transition. Host only.
func (room *Room) Start(requesterID string) error {
	room.mu.Lock()
	defer room.mu.Unlock()

	if requesterID != room.hostConnID {
		return ErrNotHost
	}
	if room.status != constants.StatusWaiting {
		return ErrInvalidState
	}

	now := room.now()
	room.startedAt = &now
	room.status = constants.StatusRunning
	for _, p := range room.participants {
		p.lastUpdate = now
	}

	if d := room.limits.RaceDurationCap; d > 0 {
		room.capTimer = room.after(d, room.ForceEnd)
	}

	log.Info().Str("room", room.ID).Int("players", len(room.participants)).Msg("race started")

	room.broadcastLocked(models.OutEvent{
		Name: models.EventRaceStarted,
		Payload: models.RaceStartedPayload{
			Text:      room.Text,
			StartTime: now.UnixMilli(),
			Users:     room.usersLocked(),
		},
	})
	return nil
}

// SubmitTyped ingests a full-buffer typing submission: the hot path.
// Rate-capped, guarded against stale states, validated against the
// anti-cheat rules, then folded into the participant's live metrics.
func (room *Room) SubmitTyped(connID, typedText string) error {
	room.mu.Lock()
	defer room.mu.Unlock()

	p, ok := room.participants[connID]
	if !ok {
		return ErrNotParticipant
	}
	if room.status != constants.StatusRunning {
		return ErrInvalidState
	}
	if p.finished || p.disqualified {
		return nil
	}
	if !p.limiter.Allow() {
		// Defensive cap: a client flooding faster than keystrokes can
		// arrive gets its excess updates dropped, not a state change.
		return nil
	}

	now := room.now()
	newCorrect, reason := ValidateProgress(room.Text, p.typedText, p.correctChars, typedText, now.Sub(p.lastUpdate), room.limits)

	if reason != "" {
		p.disqualify(reason, now)
		log.Warn().Str("room", room.ID).Str("conn", connID).Str("username", p.Username).
			Str("reason", reason).Msg("participant disqualified")
		room.broadcastLocked(models.OutEvent{
			Name:    models.EventUserDisqualified,
			Payload: models.UserDisqualifiedPayload{SocketID: connID, Reason: reason},
		})
		if room.allDoneLocked() {
			room.endLocked()
		}
		return nil
	}

	p.typedText = typedText
	p.correctChars = newCorrect
	p.lastUpdate = now
	p.progress = ProgressPercent(newCorrect, len([]rune(room.Text)))
	p.wpm = WPM(newCorrect, now.Sub(*room.startedAt))
	p.accuracy = Accuracy(newCorrect, len([]rune(typedText)))

	if newCorrect == len([]rune(room.Text)) {
		p.finished = true
		p.completed = true
		p.finishedAt = &now
		log.Info().Str("room", room.ID).Str("username", p.Username).
			Int("wpm", p.wpm).Msg("participant finished")
	}

	room.broadcastLocked(models.OutEvent{
		Name: models.EventProgressUpdate,
		Payload: models.ProgressUpdatePayload{
			SocketID: connID,
			Progress: p.progress,
			WPM:      p.wpm,
			Accuracy: p.accuracy,
		},
	})

	if room.allDoneLocked() {
		room.endLocked()
	}
	return nil
}

// Sync is the side-effect-free snapshot query. It is served to members
// and read-only observers alike and, under the room mutex, can never
// return state older than the last applied mutation.
func (room *Room) Sync() models.RaceStatePayload {
	room.mu.RLock()
	defer room.mu.RUnlock()
	return room.snapshotLocked()
}

// ForceEnd transitions the room to finished regardless of outstanding
// racers. Safe to call more than once; only the first call ends the race.
func (room *Room) ForceEnd() {
	room.mu.Lock()
	defer room.mu.Unlock()
	room.endLocked()
}

func (room *Room) allDoneLocked() bool {
	if len(room.participants) == 0 {
		return false
	}
	for _, p := range room.participants {
		if !p.finished && !p.disqualified {
			return false
		}
	}
	return true
}

func (room *Room) endLocked() {
	if room.status == constants.StatusFinished {
		return
	}
	room.status = constants.StatusFinished
	if room.capTimer != nil {
		room.capTimer.Stop()
	}

	// Stragglers keep their last valid metrics. They finished the race
	// without completing the text, which is not a disqualification.
	for _, p := range room.participants {
		p.finished = true
	}

	room.results = buildResults(room.rosterLocked())

	log.Info().Str("room", room.ID).Int("ranked", len(room.results)).Msg("race ended")

	room.broadcastLocked(models.OutEvent{
		Name: models.EventRaceEnded,
		Payload: models.RaceEndedPayload{
			Results: room.results,
			Podium:  Podium(room.results),
		},
	})

	if room.onFinished != nil {
		go room.onFinished(room.ID)
	}
}

// rosterLocked returns participants in join order.
func (room *Room) rosterLocked() []*Participant {
	parts := make([]*Participant, 0, len(room.order))
	for _, id := range room.order {
		parts = append(parts, room.participants[id])
	}
	return parts
}

func (room *Room) usersLocked() map[string]models.UserState {
	users := make(map[string]models.UserState, len(room.participants))
	for id, p := range room.participants {
		users[id] = p.State()
	}
	return users
}

func (room *Room) snapshotLocked() models.RaceStatePayload {
	snap := models.RaceStatePayload{
		RoomID: room.ID,
		Status: room.status,
		Users:  room.usersLocked(),
	}
	if room.status != constants.StatusWaiting {
		snap.Text = room.Text
	}
	if room.startedAt != nil {
		snap.StartTime = room.startedAt.UnixMilli()
	}
	if room.status == constants.StatusFinished {
		snap.Results = room.results
	}
	return snap
}

// broadcastLocked fans an event out to every participant except the
// listed ones. Sends never block room logic; a saturated connection
// just misses the event and recovers through sync-race-state.
func (room *Room) broadcastLocked(ev models.OutEvent, except ...string) {
	for _, id := range room.order {
		skip := false
		for _, ex := range except {
			if id == ex {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if !room.participants[id].deliver(ev) {
			log.Debug().Str("room", room.ID).Str("conn", id).Str("event", ev.Name).Msg("dropped outbound event")
		}
	}
}
