package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NuZard84/go-socket-typerace/internal/models"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func newTestConnection(id string) *connection {
	return &connection{id: id, send: make(chan models.OutEvent, 64)}
}

func TestHandleJoinRoom_SwitchingRoomsVacatesPreviousRoster(t *testing.T) {
	g := newTestGateway()

	host := newTestConnection("conn-host")
	require.NoError(t, g.handleCreateRoom(host, mustJSON(t, models.CreateRoomPayload{Username: "alice"})))
	roomA := host.room
	require.NotNil(t, roomA)

	hopper := newTestConnection("conn-hopper")
	require.NoError(t, g.handleJoinRoom(hopper, mustJSON(t, models.JoinRoomPayload{RoomID: roomA.ID, Username: "bob"})))
	require.Equal(t, 2, roomA.ParticipantCount())

	// hopping to a new room must remove the connection from the old one
	require.NoError(t, g.handleCreateRoom(hopper, mustJSON(t, models.CreateRoomPayload{Username: "bob"})))
	assert.Equal(t, 1, roomA.ParticipantCount())
	assert.NotNil(t, hopper.room)
	assert.NotEqual(t, roomA.ID, hopper.room.ID)

	// even with the hopper's channel torn down, broadcasts in the old
	// room reach nobody stale and never take the process down
	close(hopper.send)
	third := newTestConnection("conn-third")
	assert.NotPanics(t, func() {
		require.NoError(t, g.handleJoinRoom(third, mustJSON(t, models.JoinRoomPayload{RoomID: roomA.ID, Username: "carol"})))
	})
	assert.Equal(t, 2, roomA.ParticipantCount())
}

func TestHandleJoinRoom_SameRoomIsReconnectNotSwitch(t *testing.T) {
	g := newTestGateway()

	host := newTestConnection("conn-host")
	require.NoError(t, g.handleCreateRoom(host, mustJSON(t, models.CreateRoomPayload{Username: "alice"})))
	roomA := host.room

	// re-joining the room it is already in keeps the roster entry
	require.NoError(t, g.handleJoinRoom(host, mustJSON(t, models.JoinRoomPayload{RoomID: roomA.ID, Username: "alice"})))
	assert.Equal(t, 1, roomA.ParticipantCount())
	assert.Equal(t, "conn-host", roomA.HostConnID())
}
