package room

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/flaparena/backend/internal/game"
	"github.com/flaparena/backend/internal/types"
)

func (r *Room) handleJoin(msg Join) {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		// Never reject a join over a missing name.
		name = "player-" + shortID(msg.PlayerID)
	}

	// Duplicate join for an id we already track (reconnect race): update in
	// place instead of adding a second entry.
	if p := r.player(msg.PlayerID); p != nil {
		r.swapOutbox(msg.PlayerID, msg.Outbox)
		p.Disconnected = false
		msg.Reply <- JoinResult{PlayerID: p.ID, Players: r.snapshotPlayers(), Status: r.status}
		return
	}

	// A same-name member inside its grace window reattaches regardless of
	// room status. The countdown-cancel path lands here too: the room is back
	// in Waiting but the disconnected player still occupies its slot.
	if p := r.disconnectedByName(name); p != nil {
		r.reconnect(p, msg)
		return
	}

	if r.status != StatusWaiting {
		msg.Reply <- JoinResult{Err: ErrInvalidState}
		return
	}

	if len(r.players) >= r.cfg.MaxPlayers {
		msg.Reply <- JoinResult{Err: ErrRoomFull}
		return
	}

	p := &game.Player{
		ID:        msg.PlayerID,
		Name:      r.uniqueName(name),
		Skin:      game.Skins[r.skinIdx%len(game.Skins)],
		State:     game.StateWaitingInLobby,
		IsCreator: len(r.players) == 0,
	}
	r.skinIdx++
	r.players = append(r.players, p)
	r.clients[p.ID] = msg.Outbox

	r.log.Info("player joined", zap.String("player", p.ID), zap.String("name", p.Name))
	r.touchIdle()
	msg.Reply <- JoinResult{PlayerID: p.ID, Players: r.snapshotPlayers(), Status: r.status}
	r.broadcast(types.ServerMessage{Type: types.MsgRoomPlayersUpdated, Players: r.snapshotPlayers()})
}

// reconnect reattaches a fresh connection to a player inside its grace
// window. The player keeps its roster slot, score and best score; only the
// connection identity changes.
func (r *Room) reconnect(p *game.Player, msg Join) {
	oldID := p.ID
	delete(r.graceGen, oldID) // any pending grace fire is now stale
	if ch, ok := r.clients[oldID]; ok {
		close(ch)
		delete(r.clients, oldID)
	}

	p.ID = msg.PlayerID
	p.Disconnected = false
	p.DisconnectedAt = time.Time{}
	r.clients[p.ID] = msg.Outbox

	r.log.Info("player reconnected", zap.String("old", oldID), zap.String("new", p.ID))
	msg.Reply <- JoinResult{PlayerID: p.ID, Players: r.snapshotPlayers(), Status: r.status}
	r.broadcast(types.ServerMessage{Type: types.MsgPlayerReconnected, OldID: oldID, NewID: p.ID})
}

func (r *Room) handleLeave(playerID string) {
	p := r.player(playerID)
	if p == nil {
		return
	}

	if ch, ok := r.clients[playerID]; ok {
		close(ch)
		delete(r.clients, playerID)
	}

	if r.status == StatusPlaying || r.status == StatusCountdown {
		// Keep the slot for a while so the player can reconnect.
		p.Disconnected = true
		p.DisconnectedAt = time.Now()
		r.broadcast(types.ServerMessage{Type: types.MsgPlayerTempDisc, PlayerID: p.ID})

		if r.status == StatusCountdown {
			r.cancelCountdown()
		}

		r.graceGen[p.ID]++
		gen := r.graceGen[p.ID]
		id := p.ID
		r.after(r.cfg.GraceDelay, func() Msg { return graceFired{PlayerID: id, gen: gen} })
		return
	}

	r.removePlayer(playerID)
	r.touchIdle()
}

func (r *Room) handleGraceExpired(msg graceFired) {
	if r.graceGen[msg.PlayerID] != msg.gen {
		return
	}
	p := r.player(msg.PlayerID)
	if p == nil || !p.Disconnected {
		return
	}
	r.log.Info("grace period expired", zap.String("player", p.ID))
	r.removePlayer(p.ID)
}

func (r *Room) removePlayer(playerID string) {
	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	removed := r.players[idx]
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	delete(r.graceGen, playerID)
	if ch, ok := r.clients[playerID]; ok {
		close(ch)
		delete(r.clients, playerID)
	}

	if len(r.players) == 0 {
		r.teardown()
		return
	}

	if removed.IsCreator {
		next := r.firstConnected()
		if next == nil {
			r.teardown()
			return
		}
		next.IsCreator = true
	}

	if r.status == StatusCountdown && len(r.players) < r.cfg.MinPlayersToStart {
		r.cancelCountdown()
	}
	if r.status == StatusPlaying && r.aliveCount() == 0 {
		r.gameOver()
		return
	}

	r.broadcast(types.ServerMessage{Type: types.MsgRoomPlayersUpdated, Players: r.snapshotPlayers()})
}

func (r *Room) handleSetReady(msg SetReady) {
	p := r.player(msg.PlayerID)
	if p == nil || p.IsReady == msg.Ready {
		return
	}
	switch r.status {
	case StatusPlaying, StatusFinished:
		return
	case StatusCountdown:
		if msg.Ready {
			return
		}
		// Un-readying during the countdown is the one allowed flip: it
		// cancels the start.
		p.IsReady = false
		r.broadcast(types.ServerMessage{Type: types.MsgPlayerReadyState, PlayerID: p.ID, IsReady: false})
		r.cancelCountdown()
		return
	}

	p.IsReady = msg.Ready
	r.touchIdle()
	r.broadcast(types.ServerMessage{Type: types.MsgPlayerReadyState, PlayerID: p.ID, IsReady: msg.Ready})

	if msg.Ready && len(r.players) >= r.cfg.MinPlayersToStart && r.allReady() {
		r.setStatus(StatusCountdown)
		r.broadcast(types.ServerMessage{Type: types.MsgAllReadyConfirmed})

		gen := r.gen
		r.after(r.cfg.CountdownDelay, func() Msg { return countdownFired{gen: gen} })
	}
}

func (r *Room) cancelCountdown() {
	if r.status != StatusCountdown {
		return
	}
	r.setStatus(StatusWaiting)
	r.armIdleTimer()
	r.broadcast(types.ServerMessage{
		Type:    types.MsgRoomPlayersUpdated,
		Status:  string(r.status),
		Players: r.snapshotPlayers(),
	})
}

func (r *Room) firstConnected() *game.Player {
	for _, p := range r.players {
		if !p.Disconnected {
			return p
		}
	}
	return nil
}

func (r *Room) disconnectedByName(name string) *game.Player {
	for _, p := range r.players {
		if p.Disconnected && p.Name == name {
			return p
		}
	}
	return nil
}

// uniqueName suffixes a disambiguating counter when the display name is
// already taken, e.g. "ada (2)".
func (r *Room) uniqueName(name string) string {
	taken := func(n string) bool {
		for _, p := range r.players {
			if p.Name == n {
				return true
			}
		}
		return false
	}
	if !taken(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)", name, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
