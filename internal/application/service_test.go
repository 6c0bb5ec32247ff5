package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PokerZhyte/pokertracker/internal/parser"
	"github.com/PokerZhyte/pokertracker/internal/persistence"
	"github.com/PokerZhyte/pokertracker/internal/stats"
)

const turnFoldLog = `PokerStars Hand #249638850870:  Hold'em No Limit ($0.01/$0.02 USD) - 2024/03/26 22:02:04 CET [2024/03/26 17:02:04 ET]
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

const walkLog = `PokerStars Hand #249638850999:  Hold'em No Limit ($0.01/$0.02 USD) - 2024/03/26 22:05:11 CET [2024/03/26 17:05:11 ET]
Table 'Ostara III' 6-max Seat #3 is the button
Seat 3: captelie52 ($0.68 in chips)
Seat 4: PokerZhyte ($1.98 in chips)
captelie52: posts small blind $0.01
PokerZhyte: posts big blind $0.02
*** HOLE CARDS ***
Dealt to PokerZhyte [9c 9d]
captelie52: folds
Uncalled bet ($0.01) returned to PokerZhyte
PokerZhyte collected $0.02 from pot
*** SUMMARY ***
Total pot $0.02 | Rake $0
`

func newTestService() (*Service, *persistence.MemoryRepository) {
	repo := persistence.NewMemoryRepository()
	return NewService(repo, 2), repo
}

func TestImportText(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	report, err := svc.ImportText(ctx, "batch.txt", turnFoldLog+walkLog)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 2, report.Inserted)

	n, err := repo.CountHands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	hero, err := svc.PlayerStats(ctx, "PokerZhyte")
	require.NoError(t, err)
	require.NotNil(t, hero)
	assert.Equal(t, 2, hero.Hands)
	// Checked the big blind down in one hand, won a walk in the other.
	assert.Equal(t, 0.0, hero.VPIP)
}

func TestImportTextReportsCorruptBlocks(t *testing.T) {
	svc, _ := newTestService()
	corrupt := "PokerStars Hand #garbage with no parsable header\n"

	report, err := svc.ImportText(context.Background(), "batch.txt", turnFoldLog+corrupt+walkLog)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Parsed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].Block)
	assert.Equal(t, "batch.txt", report.Failures[0].Source)
}

func TestImportTextDeduplicates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ImportText(ctx, "a.txt", turnFoldLog)
	require.NoError(t, err)

	report, err := svc.ImportText(ctx, "a.txt", turnFoldLog)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 1, report.Skipped)

	// The duplicate must not reach the aggregator either.
	hero, err := svc.PlayerStats(ctx, "PokerZhyte")
	require.NoError(t, err)
	require.NotNil(t, hero)
	assert.Equal(t, 1, hero.Hands)
}

// brokenWriteRepo fails every hand write while the rest of the repository
// keeps working.
type brokenWriteRepo struct {
	*persistence.MemoryRepository
}

func (r *brokenWriteRepo) SaveHands(context.Context, []*parser.Hand) (persistence.SaveResult, error) {
	return persistence.SaveResult{}, errors.New("disk full")
}

func TestImportTextStorageFailureKeepsStats(t *testing.T) {
	repo := &brokenWriteRepo{MemoryRepository: persistence.NewMemoryRepository()}
	svc := NewService(repo, 2)
	ctx := context.Background()

	report, err := svc.ImportText(ctx, "a.txt", turnFoldLog)
	require.NoError(t, err, "a failed write is logged, not fatal")
	assert.Equal(t, 1, report.Parsed)
	assert.Equal(t, 0, report.Inserted, "nothing reached storage")

	// The in-memory aggregates stay authoritative.
	hero, err := svc.PlayerStats(ctx, "PokerZhyte")
	require.NoError(t, err)
	require.NotNil(t, hero)
	assert.Equal(t, 1, hero.Hands)
}

func TestHandleChunkBuffersPartialHand(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	cut := strings.Index(turnFoldLog, "*** FLOP ***")
	first, rest := turnFoldLog[:cut], turnFoldLog[cut:]

	require.NoError(t, svc.handleChunk(ctx, "HH1.txt", first))
	n, err := repo.CountHands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "half a hand must stay buffered")

	require.NoError(t, svc.handleChunk(ctx, "HH1.txt", rest))
	n, err = repo.CountHands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A following complete hand in a single chunk imports immediately.
	require.NoError(t, svc.handleChunk(ctx, "HH1.txt", walkLog))
	n, err = repo.CountHands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFlushImportsBuffered(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	// A hand cut off before its summary stays buffered by handleChunk.
	cut := strings.Index(turnFoldLog, "*** SUMMARY ***")
	require.NoError(t, svc.handleChunk(ctx, "HH1.txt", turnFoldLog[:cut]))
	n, err := repo.CountHands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "incomplete hand must not import before flush")

	require.NoError(t, svc.Flush(ctx))
	n, err = repo.CountHands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "flush imports the buffered hand")
}

func TestBootstrapSeedsAggregator(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	saved := *stats.NewPlayerStats("PokerZhyte")
	saved.Hands = 4
	saved.VPIP = 0.25
	require.NoError(t, repo.SavePlayerStats(ctx, []stats.PlayerStats{saved}))

	require.NoError(t, svc.Bootstrap(ctx))

	// The walk hand is a vpip for the small blind, not for the big blind
	// who takes it down without acting.
	_, err := svc.ImportText(ctx, "a.txt", walkLog)
	require.NoError(t, err)

	hero, err := svc.PlayerStats(ctx, "PokerZhyte")
	require.NoError(t, err)
	require.NotNil(t, hero)
	assert.Equal(t, 5, hero.Hands, "restored 4 plus 1")
	assert.Equal(t, 0.2, hero.VPIP, "1 in 5")
}

func TestPlayerStatsFallsBackToStorage(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	saved := *stats.NewPlayerStats("ghost")
	saved.Hands = 7
	require.NoError(t, repo.SavePlayerStats(ctx, []stats.PlayerStats{saved}))

	got, err := svc.PlayerStats(ctx, "ghost")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.Hands)

	missing, err := svc.PlayerStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
