package game

// Logical playfield coordinates. Clients scale these to whatever they render.
const (
	ScreenWidth  = 800
	ScreenHeight = 600
	FloorY       = 560
)

const (
	PlayerWidth  = 50
	PlayerHeight = 40

	// Starting slots are staggered so players never spawn stacked.
	StartSlotX   = 80
	StartSlotGap = 60
	StartY       = 250
)

// Physics units: positions in px, velocities in px/ms, elapsed time in ms.
const (
	GravityPerTick = 0.02  // added to velocityY once per tick
	JumpVelocity   = -0.35 // impulse set on jump
	JumpRotation   = -20   // nose-up snap on jump, degrees
	RotationFactor = 3
	MaxRotation    = 90 // nose-down cap; no cap on nose-up
)

const (
	ObstacleWidth   = 80
	ObstacleGapSize = 200 // vertical opening between gap top and gap bottom
	MinGapTopY      = 60
	MaxGapTopY      = 300
	ObstacleSpacing = 350
	FirstObstacleX  = 900 // just past the right edge
	SpawnThresholdX = ScreenWidth / 2
	ScrollSpeed     = 0.15 // px/ms leftward
)
