package models

import "encoding/json"

// Client -> engine event names.
const (
	EventCreateRoom     = "create-room"
	EventJoinRoom       = "join-room"
	EventStartRace      = "start-race"
	EventSyncRaceState  = "sync-race-state"
	EventTypingProgress = "typing-progress"
)

// Engine -> client event names.
const (
	EventRoomCreated      = "room-created"
	EventJoinConfirmed    = "join-confirmed"
	EventUserJoined       = "user-joined"
	EventUserLeft         = "user-left"
	EventRaceStarted      = "race-started"
	EventRaceState        = "race-state"
	EventProgressUpdate   = "progress-update"
	EventUserDisqualified = "user-disqualified"
	EventRaceEnded        = "race-ended"
	EventError            = "error"
)

// Event is the wire envelope for incoming websocket frames.
type Event struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutEvent is the wire envelope for outgoing frames. The payload is kept
// as a concrete struct so encoding happens once, in the write pump.
type OutEvent struct {
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Inbound payloads.

type CreateRoomPayload struct {
	Username string `json:"username"`
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type StartRacePayload struct {
	RoomID string `json:"roomId"`
}

type SyncRaceStatePayload struct {
	RoomID string `json:"roomId"`
}

type TypingProgressPayload struct {
	RoomID    string `json:"roomId"`
	TypedText string `json:"typedText"`
}

// UserState is the validated, broadcast-safe view of a participant.
// Raw typed text never leaves the engine.
type UserState struct {
	Username     string `json:"username"`
	Progress     int    `json:"progress"`
	WPM          int    `json:"wpm"`
	Accuracy     int    `json:"accuracy"`
	Finished     bool   `json:"finished"`
	Disqualified bool   `json:"disqualified,omitempty"`
	DQReason     string `json:"dqReason,omitempty"`
}

// ResultEntry is one row of the final ranked result set.
type ResultEntry struct {
	SocketID     string `json:"socketId"`
	Username     string `json:"username"`
	Rank         int    `json:"rank"`
	WPM          int    `json:"wpm"`
	Accuracy     int    `json:"accuracy"`
	Progress     int    `json:"progress"`
	Finished     bool   `json:"finished"`
	Disqualified bool   `json:"disqualified,omitempty"`
	DQReason     string `json:"dqReason,omitempty"`
}

// Outbound payloads.

type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

type UsersPayload struct {
	Users map[string]UserState `json:"users"`
}

type RaceStartedPayload struct {
	Text      string               `json:"text"`
	StartTime int64                `json:"startTime"`
	Users     map[string]UserState `json:"users"`
}

// RaceStatePayload is both the join-confirmed ack and the race-state
// snapshot reply. StartTime is epoch milliseconds, zero until running.
type RaceStatePayload struct {
	RoomID    string               `json:"roomId"`
	Status    string               `json:"status"`
	Text      string               `json:"text,omitempty"`
	StartTime int64                `json:"startTime,omitempty"`
	Users     map[string]UserState `json:"users"`
	Results   []ResultEntry        `json:"results,omitempty"`
}

type ProgressUpdatePayload struct {
	SocketID string `json:"socketId"`
	Progress int    `json:"progress"`
	WPM      int    `json:"wpm"`
	Accuracy int    `json:"accuracy"`
}

type UserDisqualifiedPayload struct {
	SocketID string `json:"socketId"`
	Reason   string `json:"reason"`
}

type RaceEndedPayload struct {
	Results []ResultEntry `json:"results"`
	Podium  []ResultEntry `json:"podium"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
