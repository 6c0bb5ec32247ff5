package persistence

import (
	"context"

	"github.com/PokerZhyte/pokertracker/internal/parser"
	"github.com/PokerZhyte/pokertracker/internal/stats"
)

// SaveResult reports the outcome of a batch save. Hands already present are
// skipped, so re-importing a file is harmless.
type SaveResult struct {
	Inserted int
	Skipped  int
}

// HandRepository stores parsed hands together with their actions, blinds and
// known hole cards.
type HandRepository interface {
	SaveHands(ctx context.Context, hands []*parser.Hand) (SaveResult, error)
	HasHand(ctx context.Context, id int64) (bool, error)
	GetHand(ctx context.Context, id int64) (*parser.Hand, error)
	CountHands(ctx context.Context) (int, error)
}

// PlayerStatsRepository stores per-player running aggregates so the tracker
// resumes from where it left off instead of replaying every hand.
type PlayerStatsRepository interface {
	SavePlayerStats(ctx context.Context, players []stats.PlayerStats) error
	GetPlayerStats(ctx context.Context, name string) (*stats.PlayerStats, error)
	ListPlayerStats(ctx context.Context) ([]stats.PlayerStats, error)
}

type Repository interface {
	HandRepository
	PlayerStatsRepository
	Close() error
}
