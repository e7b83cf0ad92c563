package room

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/flaparena/backend/internal/game"
	"github.com/flaparena/backend/internal/score"
	"github.com/flaparena/backend/internal/types"
)

var ErrRoomFull = errors.New("room is full")
var ErrInvalidState = errors.New("room is not accepting joins")

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusCountdown Status = "countdown"
	StatusPlaying   Status = "playing"
	StatusFinished  Status = "finished"
)

type Config struct {
	MaxPlayers        int
	MinPlayersToStart int
	TickInterval      time.Duration
	CountdownDelay    time.Duration
	GraceDelay        time.Duration
	PostGameDelay     time.Duration
	IdleTimeout       time.Duration // 0 disables idle teardown
	LeaderboardSize   int
	Seed              int64 // 0 means time-seeded
}

func DefaultConfig() Config {
	return Config{
		MaxPlayers:        4,
		MinPlayersToStart: 2,
		TickInterval:      time.Second / 60,
		CountdownDelay:    5 * time.Second,
		GraceDelay:        10 * time.Second,
		PostGameDelay:     5 * time.Second,
		IdleTimeout:       10 * time.Minute,
		LeaderboardSize:   10,
	}
}

// Room is one multiplayer session. All state below is owned by the loop
// goroutine and only ever touched there; the outside world talks to the room
// through its inbox.
type Room struct {
	id      string
	cfg     Config
	log     *zap.Logger
	scores  score.Store
	onEmpty func(id string)

	inbox  chan Msg
	ctx    context.Context
	cancel context.CancelFunc

	status  Status
	players []*game.Player // insertion order = UI order
	clients map[string]chan types.ServerMessage
	field   *game.ObstacleField

	ticker   *time.Ticker
	tickC    <-chan time.Time // nil while no game is running
	lastTick time.Time

	gen      uint64 // bumped on every status transition
	idleGen  uint64
	graceGen map[string]uint64
	skinIdx  int
	closed   bool
}

// New starts the room's loop. onEmpty is invoked (from the loop goroutine)
// exactly once, when the room tears itself down.
func New(parent context.Context, id string, cfg Config, scores score.Store, log *zap.Logger, onEmpty func(string)) *Room {
	ctx, cancel := context.WithCancel(parent)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := &Room{
		id:       id,
		cfg:      cfg,
		log:      log.With(zap.String("room", id)),
		scores:   scores,
		onEmpty:  onEmpty,
		inbox:    make(chan Msg, 64),
		ctx:      ctx,
		cancel:   cancel,
		status:   StatusWaiting,
		clients:  make(map[string]chan types.ServerMessage),
		field:    game.NewObstacleField(rand.New(rand.NewSource(seed))),
		graceGen: make(map[string]uint64),
	}
	r.armIdleTimer()

	go r.loop()
	return r
}

func (r *Room) ID() string { return r.id }

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Send delivers a message unless the room is already gone. Callers must use
// this instead of the raw inbox whenever the room may have been torn down.
func (r *Room) Send(m Msg) bool {
	select {
	case r.inbox <- m:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *Room) loop() {
	defer func() {
		if rec := recover(); rec != nil {
			// Fail the room, not the server.
			r.log.Error("room loop panicked, terminating room", zap.Any("panic", rec))
			r.teardown()
		}
	}()

	for {
		select {
		case <-r.ctx.Done():
			r.teardown()
			return

		case now := <-r.tickC:
			r.tick(now)

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				r.handleLeave(msg.PlayerID)
			case SetReady:
				r.handleSetReady(msg)
			case Jump:
				if p := r.player(msg.PlayerID); p != nil {
					p.Jump()
				}
			case GetPlayers:
				msg.Reply <- PlayersView{Players: r.snapshotPlayers(), Status: r.status}
			case GetState:
				msg.Reply <- View{
					Status:     r.status,
					Players:    r.snapshotPlayers(),
					NumClients: len(r.clients),
					Obstacles:  r.field.Snapshot(),
				}

			case countdownFired:
				if r.status == StatusCountdown && msg.gen == r.gen {
					r.startGame()
				}
			case graceFired:
				r.handleGraceExpired(msg)
			case postGameFired:
				if r.status == StatusFinished && msg.gen == r.gen {
					r.resetToLobby()
				}
			case idleFired:
				if r.status == StatusWaiting && msg.gen == r.idleGen {
					r.log.Info("room idle, tearing down")
					r.teardown()
					return
				}
			case bestScoresLoaded:
				r.applyBestScores(msg)
			case resultsReady:
				r.handleResultsReady(msg)

			case Shutdown:
				r.teardown()
				return
			}

			if r.closed {
				return
			}
		}
	}
}

// setStatus transitions the room and invalidates every timer armed against
// the previous status.
func (r *Room) setStatus(s Status) {
	r.status = s
	r.gen++
}

// after arms a cancellable scheduled task. The built message carries the
// generation current at arming time; the loop re-validates it on receipt.
func (r *Room) after(d time.Duration, build func() Msg) {
	m := build()
	time.AfterFunc(d, func() {
		select {
		case r.inbox <- m:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) armIdleTimer() {
	if r.cfg.IdleTimeout <= 0 {
		return
	}
	r.idleGen++
	gen := r.idleGen
	r.after(r.cfg.IdleTimeout, func() Msg { return idleFired{gen: gen} })
}

// touchIdle restarts the idle window on lobby activity.
func (r *Room) touchIdle() {
	if r.status == StatusWaiting {
		r.armIdleTimer()
	}
}

func (r *Room) teardown() {
	if r.closed {
		return
	}
	r.closed = true
	if r.ticker != nil {
		r.ticker.Stop()
	}
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
	if r.onEmpty != nil {
		r.onEmpty(r.id)
	}
}

// broadcast fans a message out to every connected client. A client whose
// outbox is full is dropped on the spot; its reader will notice the closed
// channel and leave properly.
func (r *Room) broadcast(msg types.ServerMessage) {
	for id, ch := range r.clients {
		select {
		case ch <- msg:
		default:
			r.log.Warn("dropping slow client", zap.String("player", id))
			close(ch)
			delete(r.clients, id)
		}
	}
}

func (r *Room) swapOutbox(playerID string, ch chan types.ServerMessage) {
	if old, ok := r.clients[playerID]; ok && old != ch {
		close(old)
	}
	r.clients[playerID] = ch
}

func (r *Room) player(id string) *game.Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) snapshotPlayers() []game.Player {
	out := make([]game.Player, len(r.players))
	for i, p := range r.players {
		out[i] = *p
	}
	return out
}

func (r *Room) aliveCount() int {
	n := 0
	for _, p := range r.players {
		if p.State == game.StatePlaying {
			n++
		}
	}
	return n
}

func (r *Room) allReady() bool {
	for _, p := range r.players {
		if !p.IsReady {
			return false
		}
	}
	return len(r.players) > 0
}
