package game

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomAlreadyRunning = errors.New("room is already running")
	ErrRoomFull           = errors.New("room has reached maximum capacity")
	ErrUsernameTaken      = errors.New("this username is already taken")
	ErrNotHost            = errors.New("only the host can start the race")
	ErrInvalidState       = errors.New("operation not valid for current room status")
	ErrCapacityExceeded   = errors.New("maximum number of rooms reached")
	ErrNotParticipant     = errors.New("connection is not a participant of this room")
)

// ErrorCode maps an engine error to the code surfaced on the wire.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "RoomNotFound"
	case errors.Is(err, ErrRoomAlreadyRunning):
		return "RoomAlreadyRunning"
	case errors.Is(err, ErrRoomFull):
		return "RoomFull"
	case errors.Is(err, ErrUsernameTaken):
		return "UsernameTaken"
	case errors.Is(err, ErrNotHost):
		return "NotHost"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	case errors.Is(err, ErrCapacityExceeded):
		return "CapacityExceeded"
	case errors.Is(err, ErrNotParticipant):
		return "NotParticipant"
	default:
		return "Internal"
	}
}
