package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PokerZhyte/pokertracker/internal/parser"
	"github.com/PokerZhyte/pokertracker/internal/stats"
)

const handLog = `PokerStars Hand #249638850870:  Hold'em No Limit ($0.01/$0.02 USD) - 2024/03/26 22:02:04 CET [2024/03/26 17:02:04 ET]
Table 'Ostara III' 6-max Seat #2 is the button
Seat 1: sidneivl ($3.24 in chips)
Seat 2: Savva08 ($1.96 in chips)
Seat 3: captelie52 ($0.70 in chips)
Seat 4: PokerZhyte ($2 in chips)
Seat 5: alencarbrasil19 ($1.59 in chips)
Seat 6: Cazunga ($2 in chips)
captelie52: posts small blind $0.01
PokerZhyte: posts big blind $0.02
*** HOLE CARDS ***
Dealt to PokerZhyte [2c 7d]
alencarbrasil19: calls $0.02
Cazunga: folds
sidneivl: folds
Savva08: folds
captelie52: calls $0.01
PokerZhyte: checks
*** FLOP *** [Qh 9s 3d]
captelie52: checks
PokerZhyte: checks
alencarbrasil19: checks
*** TURN *** [Qh 9s 3d] [6s]
captelie52: checks
PokerZhyte: checks
alencarbrasil19: bets $0.18
captelie52: folds
PokerZhyte: folds
Uncalled bet ($0.18) returned to alencarbrasil19
alencarbrasil19 collected $0.06 from pot
*** SUMMARY ***
Total pot $0.06 | Rake $0
`

func TestRepositoryParity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		newRepo func(t *testing.T) Repository
	}{
		{
			name: "memory",
			newRepo: func(_ *testing.T) Repository {
				return NewMemoryRepository()
			},
		},
		{
			name: "sqlite",
			newRepo: func(t *testing.T) Repository {
				repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "tracker.db"))
				require.NoError(t, err)
				t.Cleanup(func() {
					_ = repo.Close()
				})
				return repo
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := tt.newRepo(t)
			ctx := context.Background()

			hand, err := parser.ParseHand(handLog)
			require.NoError(t, err, "fixture must parse")

			res, err := repo.SaveHands(ctx, []*parser.Hand{hand})
			require.NoError(t, err)
			assert.Equal(t, SaveResult{Inserted: 1}, res)

			// Re-importing the same file must be a no-op.
			res, err = repo.SaveHands(ctx, []*parser.Hand{hand})
			require.NoError(t, err)
			assert.Equal(t, SaveResult{Skipped: 1}, res)

			ok, err := repo.HasHand(ctx, hand.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			n, err := repo.CountHands(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			got, err := repo.GetHand(ctx, hand.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, hand.ID, got.ID)
			assert.Equal(t, 0.06, got.End.Pot)
			require.NotNil(t, got.End.Winner)
			assert.Equal(t, "alencarbrasil19", got.End.Winner.Name)
			assert.Equal(t, "Ostara III", got.TableName)
			assert.True(t, got.RealMoney)

			missing, err := repo.GetHand(ctx, 42)
			require.NoError(t, err)
			assert.Nil(t, missing)

			hero := *stats.NewPlayerStats("PokerZhyte")
			hero.Hands = 3
			hero.VPIP = 1.0 / 3.0
			villain := *stats.NewPlayerStats("alencarbrasil19")
			villain.Hands = 1

			require.NoError(t, repo.SavePlayerStats(ctx, []stats.PlayerStats{hero, villain}))

			loaded, err := repo.GetPlayerStats(ctx, "PokerZhyte")
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, 3, loaded.Hands)
			assert.Equal(t, hero.VPIP, loaded.VPIP)
			assert.Equal(t, stats.RateUnknown, loaded.CBet, "untouched rate keeps the sentinel")

			none, err := repo.GetPlayerStats(ctx, "stranger")
			require.NoError(t, err)
			assert.Nil(t, none)

			// Saving again overwrites rather than duplicating.
			hero.Hands = 4
			require.NoError(t, repo.SavePlayerStats(ctx, []stats.PlayerStats{hero}))

			all, err := repo.ListPlayerStats(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "PokerZhyte", all[0].Name)
			assert.Equal(t, "alencarbrasil19", all[1].Name)
			assert.Equal(t, 4, all[0].Hands)
		})
	}
}
