package game

// CheckAll tests every live player against every active obstacle and the
// floor, latching scored flags and killing players as it goes. It returns
// whether any collision occurred this call.
//
// Boundary convention is strict everywhere a collision is decided: a player
// exactly flush with a gap edge or exactly on the floor line is still safe.
// The scoring pass is non-strict: reaching the obstacle's center counts.
//
// Every player that dies during one call receives the same rank, the count
// of players that were still live when the call started. Simultaneous deaths
// therefore tie regardless of iteration order.
func CheckAll(obstacles []*Obstacle, players []*Player) bool {
	aliveAtStart := 0
	for _, p := range players {
		if p.State == StatePlaying {
			aliveAtStart++
		}
	}

	collided := false
	for _, p := range players {
		if p.State != StatePlaying {
			continue
		}
		dead := false
		for _, o := range obstacles {
			overlaps := p.PosX+PlayerWidth > o.PosX && p.PosX < o.PosX+ObstacleWidth
			if !overlaps {
				continue
			}
			if !o.Scored && p.PosX+PlayerWidth/2 >= o.PosX+ObstacleWidth/2 {
				p.UpdateScore(o.ID)
				o.Scored = true
			}
			if !o.Scored && (p.PosY < o.GapTopY || p.PosY+PlayerHeight > o.GapTopY+ObstacleGapSize) {
				dead = true
			}
		}
		if p.PosY+PlayerHeight > FloorY {
			dead = true
		}
		if dead {
			p.Die(aliveAtStart)
			collided = true
		}
	}
	return collided
}
