package room

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/flaparena/backend/internal/game"
	"github.com/flaparena/backend/internal/types"
)

const scoreIOTimeout = 3 * time.Second

func (r *Room) startGame() {
	r.setStatus(StatusPlaying)

	r.field.Reset()
	r.field.SpawnNext()
	for i, p := range r.players {
		p.PrepareForNewGame(i)
	}

	r.loadBestScores()

	r.log.Info("game started", zap.Int("players", len(r.players)))
	r.broadcast(types.ServerMessage{Type: types.MsgGameStarted, RoomID: r.id})

	r.lastTick = time.Time{}
	r.ticker = time.NewTicker(r.cfg.TickInterval)
	r.tickC = r.ticker.C
}

// loadBestScores fetches stored bests off the loop goroutine and posts them
// back as a message, so the tick never blocks on store I/O.
func (r *Room) loadBestScores() {
	gen := r.gen
	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Name
	}

	go func() {
		ctx, cancel := context.WithTimeout(r.ctx, scoreIOTimeout)
		defer cancel()

		best := make(map[string]int, len(names))
		for _, n := range names {
			b, err := r.scores.BestScore(ctx, n)
			if err != nil {
				r.log.Warn("best score load failed", zap.String("name", n), zap.Error(err))
				continue
			}
			best[n] = b
		}
		r.Send(bestScoresLoaded{gen: gen, best: best})
	}()
}

func (r *Room) applyBestScores(msg bestScoresLoaded) {
	if r.status != StatusPlaying || msg.gen != r.gen {
		return
	}
	for _, p := range r.players {
		if b, ok := msg.best[p.Name]; ok && b > p.BestScore {
			p.BestScore = b
		}
	}
}

func (r *Room) tick(now time.Time) {
	// The first tick seeds the clock; elapsed time is 0 so nothing moves.
	var elapsed float64
	if !r.lastTick.IsZero() {
		elapsed = float64(now.Sub(r.lastTick)) / float64(time.Millisecond)
	}
	r.lastTick = now

	if len(r.players) == 0 {
		r.gameOver()
		return
	}

	for _, p := range r.players {
		p.Update(elapsed)
	}

	r.field.Advance(elapsed)
	if r.field.NeedsSpawn() {
		r.field.SpawnNext()
	}

	game.CheckAll(r.field.Active(), r.players)

	if r.aliveCount() == 0 {
		r.gameOver()
		return
	}

	r.broadcast(types.ServerMessage{
		Type:      types.MsgGameLoopUpdate,
		Players:   r.snapshotPlayers(),
		Obstacles: r.field.Snapshot(),
	})
}

func (r *Room) gameOver() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
		r.tickC = nil
	}
	r.setStatus(StatusFinished)
	r.log.Info("game over")

	results := r.results()
	gen := r.gen
	players := r.snapshotPlayers()

	// Persist and rank off the loop goroutine; the broadcast happens when
	// resultsReady comes back.
	go func() {
		ctx, cancel := context.WithTimeout(r.ctx, scoreIOTimeout)
		defer cancel()

		for _, p := range players {
			if p.Name == "" {
				continue
			}
			if err := r.scores.SetBestScore(ctx, p.Name, p.Score); err != nil {
				r.log.Warn("best score persist failed", zap.String("name", p.Name), zap.Error(err))
			}
		}
		top, err := r.scores.Leaderboard(ctx, r.cfg.LeaderboardSize)
		if err != nil {
			r.log.Warn("leaderboard fetch failed", zap.Error(err))
		}

		r.Send(resultsReady{gen: gen, msg: types.ServerMessage{
			Type:        types.MsgGameOver,
			RoomID:      r.id,
			Results:     results,
			Leaderboard: top,
		}})
	}()
}

func (r *Room) handleResultsReady(msg resultsReady) {
	if r.status != StatusFinished || msg.gen != r.gen {
		return
	}
	r.broadcast(msg.msg)

	gen := r.gen
	r.after(r.cfg.PostGameDelay, func() Msg { return postGameFired{gen: gen} })
}

// results orders players by rank, best rank first. Players that never
// entered play sort last.
func (r *Room) results() []types.GameResult {
	out := make([]types.GameResult, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, types.GameResult{
			PlayerID:  p.ID,
			Name:      p.Name,
			Score:     p.Score,
			BestScore: p.BestScore,
			Rank:      p.Rank,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Rank, out[j].Rank
		if ri == 0 {
			return false
		}
		if rj == 0 {
			return true
		}
		return ri < rj
	})
	return out
}

func (r *Room) resetToLobby() {
	r.setStatus(StatusWaiting)
	for _, p := range r.players {
		p.IsReady = false
		p.State = game.StateWaitingInLobby
		p.Rank = 0
	}
	r.armIdleTimer()
	r.broadcast(types.ServerMessage{
		Type:    types.MsgBackToLobby,
		Status:  string(r.status),
		Players: r.snapshotPlayers(),
	})
}
