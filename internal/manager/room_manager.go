package manager

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NuZard84/go-socket-typerace/internal/game"
)

// RoomManager is the process-wide directory of live rooms. Lookups stay
// safe under concurrent creation and removal; everything else is
// room-local state behind each room's own lock.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[string]*game.Room
	maxRooms int

	limits    game.Limits
	idleGrace time.Duration
	retention time.Duration
}

func generateRoomID() string {
	uuidPart := uuid.New().String()[:8]
	return "room_0x" + uuidPart
}

// NewRoomManager creates a registry holding at most maxRooms rooms.
// idleGrace is how long an emptied room survives before destruction;
// retention is how long a finished room stays queryable.
func NewRoomManager(maxRooms int, limits game.Limits, idleGrace, retention time.Duration) *RoomManager {
	log.Info().Int("maxRooms", maxRooms).Msg("creating new room manager")
	return &RoomManager{
		rooms:     make(map[string]*game.Room),
		maxRooms:  maxRooms,
		limits:    limits,
		idleGrace: idleGrace,
		retention: retention,
	}
}

// CreateRoom allocates a fresh waiting room around the given race text.
func (rm *RoomManager) CreateRoom(text string) (*game.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if len(rm.rooms) >= rm.maxRooms {
		return nil, game.ErrCapacityExceeded
	}

	roomID := generateRoomID()
	for {
		if _, taken := rm.rooms[roomID]; !taken {
			break
		}
		roomID = generateRoomID()
	}

	room := game.NewRoom(roomID, text, rm.limits, rm.scheduleIdleDestroy, rm.scheduleRetentionDestroy)
	rm.rooms[roomID] = room
	log.Info().Str("room", roomID).Int("activeRooms", len(rm.rooms)).Msg("room registered")
	return room, nil
}

// GetRoom resolves a room id for event routing.
func (rm *RoomManager) GetRoom(roomID string) (*game.Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, ok := rm.rooms[roomID]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return room, nil
}

// ActiveRooms reports the current registry size.
func (rm *RoomManager) ActiveRooms() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// RemoveRoom drops a room from the registry immediately.
func (rm *RoomManager) RemoveRoom(roomID string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, ok := rm.rooms[roomID]; !ok {
		return
	}
	delete(rm.rooms, roomID)
	log.Info().Str("room", roomID).Int("activeRooms", len(rm.rooms)).Msg("room removed")
}

// scheduleIdleDestroy is installed as the room's on-empty hook. The grace
// period tolerates transient disconnects: if anyone rejoined by the time
// the timer fires, the room lives on.
func (rm *RoomManager) scheduleIdleDestroy(roomID string) {
	grace := rm.idleGrace
	log.Debug().Str("room", roomID).Dur("grace", grace).Msg("room empty, destruction scheduled")
	time.AfterFunc(grace, func() {
		room, err := rm.GetRoom(roomID)
		if err != nil || room.ParticipantCount() > 0 {
			return
		}
		rm.RemoveRoom(roomID)
	})
}

// scheduleRetentionDestroy is the room's on-finished hook: the room stays
// queryable for late state syncs, then gets torn down unconditionally.
func (rm *RoomManager) scheduleRetentionDestroy(roomID string) {
	log.Debug().Str("room", roomID).Dur("retention", rm.retention).Msg("room finished, retention window started")
	time.AfterFunc(rm.retention, func() {
		rm.RemoveRoom(roomID)
	})
}
