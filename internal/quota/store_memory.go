package quota

import (
	"context"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]map[string]int // day -> userID -> count
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]map[string]int)}
}

func (s *MemoryStore) Consume(ctx context.Context, userID, day string, limit int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		return 0, ErrLimitReached
	}
	byUser, ok := s.counts[day]
	if !ok {
		byUser = make(map[string]int)
		s.counts[day] = byUser
	}
	if byUser[userID] >= limit {
		return 0, ErrLimitReached
	}
	byUser[userID]++
	return byUser[userID], nil
}

func (s *MemoryStore) Count(ctx context.Context, userID, day string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[day][userID], nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]DayCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []DayCount
	for day, byUser := range s.counts {
		for userID, count := range byUser {
			out = append(out, DayCount{UserID: userID, GenerationDate: day, Count: count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GenerationDate != out[j].GenerationDate {
			return out[i].GenerationDate > out[j].GenerationDate
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
