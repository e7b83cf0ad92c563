package room

import (
	"github.com/flaparena/backend/internal/game"
	"github.com/flaparena/backend/internal/types"
)

type Msg interface{ isRoomMsg() }

// Join attaches a connection to the room. Outbox is where this client wants
// to receive server messages; the room closes it when the client is dropped.
type Join struct {
	PlayerID string
	Name     string
	Outbox   chan types.ServerMessage
	Reply    chan JoinResult
}

type JoinResult struct {
	PlayerID string
	Players  []game.Player
	Status   Status
	Err      error
}

type Leave struct{ PlayerID string }

type SetReady struct {
	PlayerID string
	Ready    bool
}

type Jump struct{ PlayerID string }

type GetPlayers struct{ Reply chan PlayersView }

type PlayersView struct {
	Players []game.Player
	Status  Status
}

type Shutdown struct{}

// GetState reflects internal state without data races. Test-only.
type GetState struct{ Reply chan View }

type View struct {
	Status     Status
	Players    []game.Player
	NumClients int
	Obstacles  []game.Obstacle
}

func (Join) isRoomMsg()       {}
func (Leave) isRoomMsg()      {}
func (SetReady) isRoomMsg()   {}
func (Jump) isRoomMsg()       {}
func (GetPlayers) isRoomMsg() {}
func (Shutdown) isRoomMsg()   {}
func (GetState) isRoomMsg()   {}

// Internal messages posted back to the inbox by timers and async score I/O.
// Each carries the generation it was armed against; the loop discards stale
// fires instead of trusting the closure.

type countdownFired struct{ gen uint64 }

type postGameFired struct{ gen uint64 }

type idleFired struct{ gen uint64 }

type graceFired struct {
	PlayerID string
	gen      uint64
}

type bestScoresLoaded struct {
	gen  uint64
	best map[string]int
}

type resultsReady struct {
	gen uint64
	msg types.ServerMessage
}

func (countdownFired) isRoomMsg()   {}
func (postGameFired) isRoomMsg()    {}
func (idleFired) isRoomMsg()        {}
func (graceFired) isRoomMsg()       {}
func (bestScoresLoaded) isRoomMsg() {}
func (resultsReady) isRoomMsg()     {}
