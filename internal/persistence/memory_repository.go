package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/PokerZhyte/pokertracker/internal/parser"
	"github.com/PokerZhyte/pokertracker/internal/stats"
)

// MemoryRepository is an in-memory Repository used by tests and by runs that
// do not want a database file.
type MemoryRepository struct {
	mu      sync.Mutex
	hands   map[int64]*parser.Hand
	players map[string]stats.PlayerStats
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		hands:   make(map[int64]*parser.Hand),
		players: make(map[string]stats.PlayerStats),
	}
}

func (r *MemoryRepository) SaveHands(_ context.Context, hands []*parser.Hand) (SaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res SaveResult
	for _, h := range hands {
		if h == nil {
			res.Skipped++
			continue
		}
		if _, ok := r.hands[h.ID]; ok {
			res.Skipped++
			continue
		}
		r.hands[h.ID] = h
		res.Inserted++
	}
	return res, nil
}

func (r *MemoryRepository) HasHand(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.hands[id]
	return ok, nil
}

func (r *MemoryRepository) GetHand(_ context.Context, id int64) (*parser.Hand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hands[id], nil
}

func (r *MemoryRepository) CountHands(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.hands), nil
}

func (r *MemoryRepository) SavePlayerStats(_ context.Context, players []stats.PlayerStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range players {
		r.players[s.Name] = s
	}
	return nil
}

func (r *MemoryRepository) GetPlayerStats(_ context.Context, name string) (*stats.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.players[name]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemoryRepository) ListPlayerStats(_ context.Context) ([]stats.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stats.PlayerStats, 0, len(r.players))
	for _, s := range r.players {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
