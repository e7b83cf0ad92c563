package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flaparena/backend/internal/hub"
	"github.com/flaparena/backend/internal/room"
	"github.com/flaparena/backend/internal/types"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		c := &client{id: uuid.NewString(), conn: conn, hub: h}
		c.log = log.With(zap.String("client", c.id))
		c.run(r.Context())
	}
}

type client struct {
	id   string
	conn *websocket.Conn
	hub  *hub.Hub
	log  *zap.Logger

	current *room.Room
}

func (c *client) run(ctx context.Context) {
	defer func() {
		if c.current != nil {
			c.current.Send(room.Leave{PlayerID: c.id})
		}
	}()

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			// Abnormal close; the deferred Leave starts the grace period.
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: "bad json"})
			continue
		}

		c.dispatch(ctx, cm)
	}
}

func (c *client) dispatch(ctx context.Context, cm types.ClientMessage) {
	switch cm.Type {
	case types.MsgCreateRoom:
		if c.current != nil {
			c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: "already in a room"})
			return
		}
		rm := c.hub.Create()
		c.join(ctx, rm, cm.DisplayName, types.MsgRoomCreated)

	case types.MsgJoinRoom:
		if c.current != nil {
			c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: "already in a room"})
			return
		}
		rm := c.hub.Room(cm.RoomID)
		if rm == nil {
			c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: hub.ErrRoomNotFound.Error()})
			return
		}
		c.join(ctx, rm, cm.DisplayName, types.MsgRoomJoined)

	case types.MsgLeaveRoom:
		if c.current == nil {
			return
		}
		c.current.Send(room.Leave{PlayerID: c.id})
		c.current = nil

	case types.MsgSetReady:
		if c.current == nil {
			c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: "not in a room"})
			return
		}
		c.current.Send(room.SetReady{PlayerID: c.id, Ready: cm.IsReady})

	case types.MsgJump:
		if c.current != nil {
			c.current.Send(room.Jump{PlayerID: c.id})
		}

	case types.MsgGetRoomPlayers:
		rm := c.current
		if cm.RoomID != "" {
			rm = c.hub.Room(cm.RoomID)
		}
		if rm == nil {
			c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: hub.ErrRoomNotFound.Error()})
			return
		}
		reply := make(chan room.PlayersView, 1)
		if !rm.Send(room.GetPlayers{Reply: reply}) {
			c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: hub.ErrRoomNotFound.Error()})
			return
		}
		view := <-reply
		c.reply(ctx, types.ServerMessage{
			Type:    types.MsgRoomPlayersUpdated,
			RoomID:  rm.ID(),
			Status:  string(view.Status),
			Players: view.Players,
		})

	default:
		c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: "unknown type"})
	}
}

// join registers with the room and, on success, starts the writer pumping
// room broadcasts to this connection. ackType distinguishes the create and
// join acknowledgements; both carry the same payload shape.
func (c *client) join(ctx context.Context, rm *room.Room, displayName, ackType string) {
	out := make(chan types.ServerMessage, 32)
	reply := make(chan room.JoinResult, 1)

	ok := rm.Send(room.Join{
		PlayerID: c.id,
		Name:     displayName,
		Outbox:   out,
		Reply:    reply,
	})
	if !ok {
		c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: hub.ErrRoomNotFound.Error()})
		return
	}

	res := <-reply
	if res.Err != nil {
		c.reply(ctx, types.ServerMessage{Type: types.MsgError, Error: res.Err.Error()})
		return
	}

	c.current = rm
	go c.writer(ctx, out)
	c.reply(ctx, types.ServerMessage{
		Type:    ackType,
		RoomID:  rm.ID(),
		Status:  string(res.Status),
		Players: res.Players,
	})
}

// writer drains one registration's outbox. The room closes the channel when
// this client leaves, gets dropped, or the room dies.
func (c *client) writer(ctx context.Context, out <-chan types.ServerMessage) {
	for msg := range out {
		c.reply(ctx, msg)
	}
}

func (c *client) reply(ctx context.Context, msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal server message", zap.Error(err))
		return
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.conn.Write(wctx, websocket.MessageText, payload); err != nil {
		c.log.Debug("write failed", zap.Error(err))
	}
}
