package game

import (
	"math"
	"time"
)

type PlayerState string

const (
	StateWaitingInLobby PlayerState = "waiting"
	StatePlaying        PlayerState = "playing"
	StateDied           PlayerState = "died"
)

var Skins = []string{"yellow", "red", "blue", "green"}

type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Skin      string      `json:"skin"`
	State     PlayerState `json:"state"`
	IsCreator bool        `json:"isCreator"`
	IsReady   bool        `json:"isReady"`

	PosX      int     `json:"posX"`
	PosY      int     `json:"posY"`
	VelocityY float64 `json:"velocityY"`
	Rotation  int     `json:"rotation"`

	Score     int `json:"score"`
	BestScore int `json:"bestScore"`
	Rank      int `json:"rank,omitempty"`

	Disconnected   bool      `json:"disconnected,omitempty"`
	DisconnectedAt time.Time `json:"-"`

	lastScoredObstacleID int
}

// Update integrates one tick of physics. Live players fall under gravity;
// dead players drift left at the level scroll speed so they visibly fall
// behind, with their vertical state frozen.
func (p *Player) Update(elapsedMs float64) {
	switch p.State {
	case StatePlaying:
		p.VelocityY += GravityPerTick
		p.PosY += int(math.Round(elapsedMs * p.VelocityY))
		p.Rotation += int(math.Round(p.VelocityY * RotationFactor))
		if p.Rotation > MaxRotation {
			p.Rotation = MaxRotation
		}
	case StateDied:
		p.PosX -= int(math.Floor(elapsedMs * ScrollSpeed))
	}
}

// Jump applies the upward impulse. Ignored unless the player is live.
func (p *Player) Jump() {
	if p.State != StatePlaying {
		return
	}
	p.VelocityY = JumpVelocity
	p.Rotation = JumpRotation
}

// Die marks the player dead and records its rank. Idempotent: a second call
// never reassigns the rank. aliveAtTickStart is the number of players still
// in StatePlaying when the current tick began, so every player dying in the
// same tick receives the same rank and the last survivor ends up with rank 1.
func (p *Player) Die(aliveAtTickStart int) {
	if p.State == StateDied {
		return
	}
	p.State = StateDied
	p.Rank = aliveAtTickStart
}

// UpdateScore awards one point for passing the given obstacle. The dedup
// guard matters because the pass condition holds across several ticks before
// the obstacle's scored flag is latched.
func (p *Player) UpdateScore(obstacleID int) {
	if obstacleID == p.lastScoredObstacleID {
		return
	}
	p.Score++
	p.lastScoredObstacleID = obstacleID
	if p.Score > p.BestScore {
		p.BestScore = p.Score
	}
}

// PrepareForNewGame resets the player onto its start slot. Players that never
// got a display name stay in the lobby instead of entering play.
func (p *Player) PrepareForNewGame(gridPosition int) {
	p.PosX = StartSlotX + gridPosition*StartSlotGap
	p.PosY = StartY
	p.VelocityY = 0
	p.Rotation = 0
	p.Score = 0
	p.Rank = 0
	p.lastScoredObstacleID = 0
	if p.Name == "" {
		p.State = StateWaitingInLobby
		return
	}
	p.State = StatePlaying
}
