package score

import "context"

type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Store is the durable best-score collaborator. The engine consults it only
// at game start (load) and game end (persist + leaderboard).
type Store interface {
	BestScore(ctx context.Context, name string) (int, error)
	// SetBestScore persists score for name. Implementations never lower an
	// already stored best.
	SetBestScore(ctx context.Context, name string, score int) error
	Leaderboard(ctx context.Context, n int) ([]Entry, error)
}
