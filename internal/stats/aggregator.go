package stats

import (
	"sort"
	"sync"

	"github.com/PokerZhyte/pokertracker/internal/parser"
)

// Aggregator owns the running aggregate of every tracked player. All
// mutation goes through it under a single lock, so hands can be folded in
// from a worker while readers take snapshots.
type Aggregator struct {
	mu      sync.Mutex
	players map[string]*PlayerStats
}

func NewAggregator() *Aggregator {
	return &Aggregator{players: make(map[string]*PlayerStats)}
}

// Seed preloads aggregates restored from storage, replacing any existing
// entry of the same name.
func (a *Aggregator) Seed(stats []PlayerStats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range stats {
		cp := s
		a.players[s.Name] = &cp
	}
}

// Update folds one hand into one player's aggregate. A player not seated in
// the hand is left untouched.
func (a *Aggregator) Update(name string, h *parser.Hand) {
	if _, err := h.PlayerByName(name); err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.get(name).AddHand(h)
}

// UpdateAll folds one hand into the aggregate of every player seated in it.
func (a *Aggregator) UpdateAll(h *parser.Hand) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range h.SeatedPlayers() {
		a.get(p.Name).AddHand(h)
	}
}

func (a *Aggregator) get(name string) *PlayerStats {
	s, ok := a.players[name]
	if !ok {
		s = NewPlayerStats(name)
		a.players[name] = s
	}
	return s
}

// Get returns a copy of one player's aggregate.
func (a *Aggregator) Get(name string) (PlayerStats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.players[name]
	if !ok {
		return PlayerStats{}, false
	}
	return *s, true
}

// Snapshot returns copies of every aggregate, sorted by player name.
func (a *Aggregator) Snapshot() []PlayerStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]PlayerStats, 0, len(a.players))
	for _, s := range a.players {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every tracked player name, sorted.
func (a *Aggregator) Names() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, 0, len(a.players))
	for name := range a.players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddHand folds one hand's outcomes into the aggregate. Rates are restored
// to numerators, bumped, and re-divided, which is exact because every
// denominator is an integer count.
func (s *PlayerStats) AddHand(h *parser.Hand) {
	p := evaluateHand(h, s.Name)

	numVPIP := restore(s.VPIP, s.Hands)
	numPFR := restore(s.PFR, s.Hands)
	if p.vpip {
		numVPIP++
	}
	if p.pfr {
		numPFR++
	}
	s.Hands++
	s.VPIP = numVPIP / float64(s.Hands)
	s.PFR = numPFR / float64(s.Hands)

	s.Calls += p.calls
	s.Bets += p.bets
	s.Raises += p.raises
	s.AF = divide(float64(s.Bets+s.Raises), float64(s.Calls))

	fold(&s.Pre3Bet, &s.CanPre3Bet, p.pre3Bet)
	fold(&s.FoldToPre3Bet, &s.CanFoldToPre3Bet, p.foldToPre3Bet)
	fold(&s.CBet, &s.CanCBet, p.cBet)
	fold(&s.FoldToCBet, &s.CanFoldToCBet, p.foldToCBet)
	fold(&s.Squeeze, &s.CanSqueeze, p.squeeze)
}
