package game

import (
	"math"
	"math/rand"
)

type Obstacle struct {
	ID      int  `json:"id"`
	PosX    int  `json:"posX"`
	GapTopY int  `json:"gapTopY"`
	Scored  bool `json:"scored"`
}

// ObstacleField owns one game's stream of obstacles. Obstacles are kept as an
// ordered queue, strictly descending in PosX from newest to oldest, and are
// only ever retired from the front (oldest first).
type ObstacleField struct {
	rng    *rand.Rand
	nextID int
	queue  []*Obstacle
}

func NewObstacleField(rng *rand.Rand) *ObstacleField {
	return &ObstacleField{rng: rng, nextID: 1}
}

// Reset drops all obstacles; IDs keep counting up so a stale
// lastScoredObstacleID from a previous game can never collide.
func (f *ObstacleField) Reset() {
	f.queue = f.queue[:0]
}

// SpawnNext creates one obstacle behind the newest one (or at the fixed
// first-obstacle offset when the field is empty) with a uniformly random gap.
func (f *ObstacleField) SpawnNext() *Obstacle {
	posX := FirstObstacleX
	if n := len(f.queue); n > 0 {
		posX = f.queue[n-1].PosX + ObstacleSpacing
	}
	o := &Obstacle{
		ID:      f.nextID,
		PosX:    posX,
		GapTopY: MinGapTopY + f.rng.Intn(MaxGapTopY-MinGapTopY+1),
	}
	f.nextID++
	f.queue = append(f.queue, o)
	return o
}

// Advance scrolls every obstacle left and retires the oldest one once its
// trailing edge leaves the screen. At most one obstacle can cross the left
// boundary per tick, so a single front check suffices.
func (f *ObstacleField) Advance(elapsedMs float64) {
	dx := int(math.Floor(elapsedMs * ScrollSpeed))
	for _, o := range f.queue {
		o.PosX -= dx
	}
	if len(f.queue) > 0 && f.queue[0].PosX+ObstacleWidth < 0 {
		f.queue = f.queue[1:]
	}
}

// NeedsSpawn reports whether the newest obstacle has scrolled far enough that
// the next one is due. The caller spawns exactly one obstacle per tick.
func (f *ObstacleField) NeedsSpawn() bool {
	n := len(f.queue)
	return n > 0 && f.queue[n-1].PosX < SpawnThresholdX
}

func (f *ObstacleField) Active() []*Obstacle { return f.queue }

// Snapshot copies the field for a broadcast payload.
func (f *ObstacleField) Snapshot() []Obstacle {
	out := make([]Obstacle, len(f.queue))
	for i, o := range f.queue {
		out[i] = *o
	}
	return out
}
