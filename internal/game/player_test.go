package game

import "testing"

func TestUpdateScore_DedupsSameObstacle(t *testing.T) {
	p := &Player{Name: "a", State: StatePlaying}

	p.UpdateScore(7)
	p.UpdateScore(7)
	if p.Score != 1 {
		t.Fatalf("score = %d, want 1 after duplicate updates", p.Score)
	}

	p.UpdateScore(8)
	if p.Score != 2 {
		t.Fatalf("score = %d, want 2 after a new obstacle", p.Score)
	}
	if p.BestScore != 2 {
		t.Fatalf("bestScore = %d, want 2", p.BestScore)
	}
}

func TestBestScore_SurvivesNewGame(t *testing.T) {
	p := &Player{Name: "a", State: StatePlaying}
	p.UpdateScore(1)
	p.UpdateScore(2)
	p.UpdateScore(3)

	p.PrepareForNewGame(0)
	if p.Score != 0 {
		t.Fatalf("score = %d, want 0 after reset", p.Score)
	}
	if p.BestScore != 3 {
		t.Fatalf("bestScore = %d, want 3 across games", p.BestScore)
	}
}

func TestDie_Idempotent(t *testing.T) {
	p := &Player{Name: "a", State: StatePlaying}
	p.Die(3)
	p.Die(1)

	if p.State != StateDied {
		t.Fatalf("state = %v, want died", p.State)
	}
	if p.Rank != 3 {
		t.Fatalf("rank = %d, want 3 from the first death only", p.Rank)
	}
}

func TestJump_OnlyWhilePlaying(t *testing.T) {
	cases := []struct {
		name        string
		state       PlayerState
		wantImpulse bool
	}{
		{"playing", StatePlaying, true},
		{"died", StateDied, false},
		{"lobby", StateWaitingInLobby, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Player{Name: "a", State: tc.state, VelocityY: 1.0, Rotation: 45}
			p.Jump()
			got := p.VelocityY == JumpVelocity && p.Rotation == JumpRotation
			if got != tc.wantImpulse {
				t.Fatalf("jump applied = %v, want %v", got, tc.wantImpulse)
			}
		})
	}
}

func TestUpdate_PlayingIntegratesGravity(t *testing.T) {
	p := &Player{Name: "a", State: StatePlaying, PosY: 100}

	p.Update(16)
	if p.VelocityY != GravityPerTick {
		t.Fatalf("velocityY = %v, want %v", p.VelocityY, GravityPerTick)
	}

	// One tick rounds to no visible movement; a short stretch must fall.
	for i := 0; i < 30; i++ {
		p.Update(16)
	}
	if p.PosY <= 100 {
		t.Fatalf("posY = %d, want a fall from 100", p.PosY)
	}
}

func TestUpdate_RotationClampsNoseDownOnly(t *testing.T) {
	p := &Player{Name: "a", State: StatePlaying, VelocityY: 50, Rotation: 85}
	p.Update(16)
	if p.Rotation != MaxRotation {
		t.Fatalf("rotation = %d, want clamp at %d", p.Rotation, MaxRotation)
	}

	p = &Player{Name: "a", State: StatePlaying, VelocityY: -80, Rotation: -100}
	p.Update(16)
	if p.Rotation >= -100 {
		t.Fatalf("rotation = %d, nose-up must stay unclamped", p.Rotation)
	}
}

func TestUpdate_DeadPlayerDriftsLeft(t *testing.T) {
	p := &Player{Name: "a", State: StateDied, PosX: 200, PosY: 300, VelocityY: 0.5}
	p.Update(16)

	if p.PosX >= 200 {
		t.Fatalf("posX = %d, dead player should drift left", p.PosX)
	}
	if p.PosY != 300 || p.VelocityY != 0.5 {
		t.Fatalf("vertical state changed for a dead player: posY=%d vel=%v", p.PosY, p.VelocityY)
	}
}

func TestPrepareForNewGame_SlotsAndState(t *testing.T) {
	a := &Player{Name: "a", State: StateDied, Rank: 2, Score: 5}
	b := &Player{Name: "b", State: StateDied}
	unnamed := &Player{State: StateDied}

	a.PrepareForNewGame(0)
	b.PrepareForNewGame(1)
	unnamed.PrepareForNewGame(2)

	if a.PosX == b.PosX {
		t.Fatalf("start slots overlap at %d", a.PosX)
	}
	if a.State != StatePlaying || b.State != StatePlaying {
		t.Fatalf("named players must enter playing state")
	}
	if unnamed.State != StateWaitingInLobby {
		t.Fatalf("unnamed player must stay in lobby, got %v", unnamed.State)
	}
	if a.Score != 0 || a.Rank != 0 {
		t.Fatalf("score/rank not reset: %d/%d", a.Score, a.Rank)
	}
}
