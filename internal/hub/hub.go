package hub

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"go.uber.org/zap"

	"github.com/flaparena/backend/internal/room"
	"github.com/flaparena/backend/internal/score"
)

var ErrRoomNotFound = errors.New("room not found")

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Reply chan *room.Room
}

type GetRoom struct {
	ID    string
	Reply chan *room.Room
}

// RemoveRoom is posted by a room's onEmpty callback once it has torn itself
// down; the hub only forgets the handle.
type RemoveRoom struct {
	ID string
}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	cfg    room.Config
	scores score.Store
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, cfg room.Config, scores score.Store, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		cfg:    cfg,
		scores: scores,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Create makes a new empty room under a fresh join code.
func (h *Hub) Create() *room.Room {
	reply := make(chan *room.Room, 1)
	h.inbox <- CreateRoom{Reply: reply}
	return <-reply
}

// Room looks up a room by join code; nil when absent.
func (h *Hub) Room(id string) *room.Room {
	reply := make(chan *room.Room, 1)
	h.inbox <- GetRoom{ID: id, Reply: reply}
	return <-reply
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				id := h.freshID()
				rm := room.New(h.ctx, id, h.cfg, h.scores, h.log, h.forget)
				h.rooms[id] = rm
				h.log.Info("room created", zap.String("room", id))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // May be nil

			case RemoveRoom:
				delete(h.rooms, msg.ID)
				h.log.Info("room removed", zap.String("room", msg.ID))

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Send(room.Shutdown{})
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

// forget runs on a room's loop goroutine, so it must post rather than touch
// the map directly.
func (h *Hub) forget(id string) {
	select {
	case h.inbox <- RemoveRoom{ID: id}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) freshID() string {
	for {
		id, err := generateCode()
		if err != nil {
			// crypto/rand failing is not survivable in any useful way.
			panic(err)
		}
		if _, exists := h.rooms[id]; !exists {
			return id
		}
		h.log.Warn("collision on room code, regenerating")
	}
}

func generateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}
