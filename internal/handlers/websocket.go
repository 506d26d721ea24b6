package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/NuZard84/go-socket-typerace/internal/game"
	"github.com/NuZard84/go-socket-typerace/internal/manager"
	"github.com/NuZard84/go-socket-typerace/internal/models"
)

const (
	writeWait    = 5 * time.Second
	sendBuffer   = 64
	textFetchTTL = 5 * time.Second
)

// TextProvider supplies the race text for a new room.
type TextProvider interface {
	RandomText(ctx context.Context, maxWords int) (string, error)
}

// Gateway owns the websocket endpoint: it upgrades connections, assigns
// them stable ids, runs the read/write pumps and dispatches the event
// contract onto rooms resolved through the registry. It holds no game
// state of its own.
type Gateway struct {
	rooms        *manager.RoomManager
	texts        TextProvider
	limits       game.Limits
	maxTextWords int
	upgrader     websocket.Upgrader
}

func NewGateway(rooms *manager.RoomManager, texts TextProvider, limits game.Limits, maxTextWords int, allowedOrigin string) *Gateway {
	return &Gateway{
		rooms:        rooms,
		texts:        texts,
		limits:       limits,
		maxTextWords: maxTextWords,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return allowedOrigin == "*" || r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// connection is one websocket client. Outbound events are funneled
// through a buffered channel so room logic never blocks on the socket.
type connection struct {
	id   string
	sock *websocket.Conn
	send chan models.OutEvent
	room *game.Room
}

// HandleWebSocket upgrades the request and runs the connection until it
// drops. Disconnects translate into LeaveRoom.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sock, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &connection{
		id:   uuid.NewString(),
		sock: sock,
		send: make(chan models.OutEvent, sendBuffer),
	}
	log.Info().Str("conn", c.id).Str("remote", r.RemoteAddr).Msg("client connected")

	go c.writePump()
	g.readPump(c)
}

func (g *Gateway) readPump(c *connection) {
	defer func() {
		if c.room != nil {
			c.room.Leave(c.id)
		}
		close(c.send)
		log.Info().Str("conn", c.id).Msg("client disconnected")
	}()

	for {
		var ev models.Event
		if err := c.sock.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Str("conn", c.id).Err(err).Msg("websocket read error")
			}
			return
		}
		g.dispatch(c, ev)
	}
}

func (c *connection) writePump() {
	defer c.sock.Close()

	for ev := range c.send {
		c.sock.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.sock.WriteJSON(ev); err != nil {
			log.Warn().Str("conn", c.id).Err(err).Msg("websocket write error")
			return
		}
	}
	c.sock.SetWriteDeadline(time.Now().Add(writeWait))
	c.sock.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (g *Gateway) dispatch(c *connection, ev models.Event) {
	var err error
	switch ev.Name {
	case models.EventCreateRoom:
		err = g.handleCreateRoom(c, ev.Payload)
	case models.EventJoinRoom:
		err = g.handleJoinRoom(c, ev.Payload)
	case models.EventStartRace:
		err = g.handleStartRace(c, ev.Payload)
	case models.EventSyncRaceState:
		err = g.handleSync(c, ev.Payload)
	case models.EventTypingProgress:
		err = g.handleTypingProgress(c, ev.Payload)
	default:
		log.Debug().Str("conn", c.id).Str("event", ev.Name).Msg("unknown event ignored")
		return
	}

	if err != nil {
		c.reply(models.OutEvent{
			Name:    models.EventError,
			Payload: models.ErrorPayload{Code: game.ErrorCode(err), Message: err.Error()},
		})
	}
}

func (g *Gateway) handleCreateRoom(c *connection, raw json.RawMessage) error {
	var p models.CreateRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), textFetchTTL)
	defer cancel()
	text, err := g.texts.RandomText(ctx, g.maxTextWords)
	if err != nil {
		return err
	}

	room, err := g.rooms.CreateRoom(text)
	if err != nil {
		return err
	}

	// A connection races in one room at a time; a stale roster entry
	// would keep receiving broadcasts for a connection that moved on.
	if c.room != nil {
		c.room.Leave(c.id)
		c.room = nil
	}

	participant := game.NewParticipant(c.id, p.Username, c.send, g.limits)
	if _, err := room.Join(participant); err != nil {
		g.rooms.RemoveRoom(room.ID)
		return err
	}
	c.room = room

	c.reply(models.OutEvent{
		Name:    models.EventRoomCreated,
		Payload: models.RoomCreatedPayload{RoomID: room.ID},
	})
	return nil
}

func (g *Gateway) handleJoinRoom(c *connection, raw json.RawMessage) error {
	var p models.JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	room, err := g.rooms.GetRoom(p.RoomID)
	if err != nil {
		return err
	}

	// Joining the same room again is a reconnect and must keep state;
	// switching rooms has to vacate the old roster first.
	if c.room != nil && c.room != room {
		c.room.Leave(c.id)
		c.room = nil
	}

	participant := game.NewParticipant(c.id, p.Username, c.send, g.limits)
	snap, err := room.Join(participant)
	if err != nil {
		return err
	}
	c.room = room

	c.reply(models.OutEvent{Name: models.EventJoinConfirmed, Payload: snap})
	return nil
}

func (g *Gateway) handleStartRace(c *connection, raw json.RawMessage) error {
	var p models.StartRacePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	room, err := g.rooms.GetRoom(p.RoomID)
	if err != nil {
		return err
	}
	return room.Start(c.id)
}

func (g *Gateway) handleSync(c *connection, raw json.RawMessage) error {
	var p models.SyncRaceStatePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	room, err := g.rooms.GetRoom(p.RoomID)
	if err != nil {
		return err
	}

	c.reply(models.OutEvent{Name: models.EventRaceState, Payload: room.Sync()})
	return nil
}

func (g *Gateway) handleTypingProgress(c *connection, raw json.RawMessage) error {
	var p models.TypingProgressPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}

	room, err := g.rooms.GetRoom(p.RoomID)
	if err != nil {
		return err
	}
	return room.SubmitTyped(c.id, p.TypedText)
}

// reply queues an event for this connection only.
func (c *connection) reply(ev models.OutEvent) {
	select {
	case c.send <- ev:
	default:
		log.Debug().Str("conn", c.id).Str("event", ev.Name).Msg("dropped reply, send buffer full")
	}
}
