package score

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps best scores in process memory. Used when no DATABASE_URL
// is configured, and by tests.
type MemoryStore struct {
	mu     sync.Mutex
	scores map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[string]int)}
}

func (s *MemoryStore) BestScore(_ context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scores[name], nil
}

func (s *MemoryStore) SetBestScore(_ context.Context, name string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if score > s.scores[name] {
		s.scores[name] = score
	}
	return nil
}

func (s *MemoryStore) Leaderboard(_ context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.scores))
	for name, sc := range s.scores {
		out = append(out, Entry{Name: name, Score: sc})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
