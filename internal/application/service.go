package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/PokerZhyte/pokertracker/internal/parser"
	"github.com/PokerZhyte/pokertracker/internal/persistence"
	"github.com/PokerZhyte/pokertracker/internal/stats"
	"github.com/PokerZhyte/pokertracker/internal/watcher"
)

// Service ties the parser, the aggregator and the repository together. It is
// the layer the CLI talks to.
type Service struct {
	repo    persistence.Repository
	agg     *stats.Aggregator
	workers int

	// pending carries the trailing, possibly incomplete hand block of each
	// watched file between chunks.
	mu      sync.Mutex
	pending map[string]string
}

// ImportReport summarizes one import run. A malformed hand never aborts the
// run; it is counted and reported here.
type ImportReport struct {
	Parsed   int
	Failed   int
	Inserted int
	Skipped  int
	Failures []ImportFailure
}

type ImportFailure struct {
	Source string
	Block  int
	Err    error
}

func (r *ImportReport) merge(other ImportReport) {
	r.Parsed += other.Parsed
	r.Failed += other.Failed
	r.Inserted += other.Inserted
	r.Skipped += other.Skipped
	r.Failures = append(r.Failures, other.Failures...)
}

func NewService(repo persistence.Repository, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		repo:    repo,
		agg:     stats.NewAggregator(),
		workers: workers,
		pending: make(map[string]string),
	}
}

// Bootstrap restores every stored player aggregate into the in-memory
// aggregator so new hands continue the running averages.
func (s *Service) Bootstrap(ctx context.Context) error {
	saved, err := s.repo.ListPlayerStats(ctx)
	if err != nil {
		return fmt.Errorf("load player stats: %w", err)
	}
	s.agg.Seed(saved)
	slog.Info("aggregates restored", "players", len(saved))
	return nil
}

// ImportFiles imports hand-history files in order. Unreadable files abort
// the run; malformed hands inside a readable file do not.
func (s *Service) ImportFiles(ctx context.Context, paths []string) (ImportReport, error) {
	var report ImportReport
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return report, fmt.Errorf("read history file: %w", err)
		}
		fileReport, err := s.ImportText(ctx, path, string(raw))
		report.merge(fileReport)
		if err != nil {
			return report, err
		}
		slog.Info("file imported", "path", path,
			"parsed", fileReport.Parsed, "failed", fileReport.Failed)
	}
	s.persistStats(ctx)
	return report, nil
}

// ImportText parses a batch of raw history text, aggregates every hand and
// stores the batch. Blocks parse in parallel; hands are re-ordered by id
// before they reach the aggregator so rates fold in chronologically.
func (s *Service) ImportText(ctx context.Context, source, raw string) (ImportReport, error) {
	blocks := parser.Split(parser.Normalize(raw))
	if len(blocks) == 0 {
		return ImportReport{}, nil
	}

	parsed := make([]*parser.Hand, len(blocks))
	errs := make([]error, len(blocks))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, block := range blocks {
		i, block := i, block
		g.Go(func() error {
			parsed[i], errs[i] = parser.ParseHand(block)
			return nil
		})
	}
	_ = g.Wait()

	report := ImportReport{}
	hands := make([]*parser.Hand, 0, len(blocks))
	for i, h := range parsed {
		if errs[i] != nil {
			report.Failed++
			report.Failures = append(report.Failures, ImportFailure{
				Source: source, Block: i, Err: errs[i],
			})
			slog.Warn("hand rejected", "source", source, "block", i, "error", errs[i])
			continue
		}
		hands = append(hands, h)
	}
	report.Parsed = len(hands)

	sort.Slice(hands, func(i, j int) bool { return hands[i].ID < hands[j].ID })

	// Hands already stored were aggregated in a previous run. Feeding them
	// again would double-count, so only fresh hands reach the aggregator.
	fresh := make([]*parser.Hand, 0, len(hands))
	for _, h := range hands {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		seen, err := s.repo.HasHand(ctx, h.ID)
		if err != nil {
			return report, fmt.Errorf("check hand %d: %w", h.ID, err)
		}
		if seen {
			report.Skipped++
			continue
		}
		s.agg.UpdateAll(h)
		fresh = append(fresh, h)
	}

	// A failed write never invalidates the in-memory aggregates; the hands
	// were parsed and folded in, only their storage is missing. Inserted
	// stays at zero so the report reflects what actually reached storage.
	res, err := s.repo.SaveHands(ctx, fresh)
	if err != nil {
		slog.Error("save hands failed", "source", source, "hands", len(fresh), "error", err)
		return report, nil
	}
	report.Inserted = res.Inserted
	report.Skipped += res.Skipped
	return report, nil
}

// Watch follows a hand-history directory and feeds appended hands through
// the same pipeline until the context is cancelled. Hands already present
// on disk are not re-imported.
func (s *Service) Watch(ctx context.Context, dir string) error {
	hw, err := watcher.New(dir, watcher.Config{
		OnNewData: func(path, chunk string) {
			if err := s.handleChunk(ctx, path, chunk); err != nil {
				slog.Error("chunk import failed", "path", path, "error", err)
			}
		},
		OnNewFile: func(path string) {
			slog.Info("new history file", "path", path)
		},
		OnError: func(err error) {
			slog.Warn("watcher error", "error", err)
		},
	})
	if err != nil {
		return err
	}

	hw.SkipExisting()
	if err := hw.Start(); err != nil {
		return err
	}
	defer hw.Stop()

	<-ctx.Done()

	// Drain whatever complete hands remain buffered, then persist with a
	// fresh context since the watch one is already cancelled.
	flushCtx := context.Background()
	if err := s.Flush(flushCtx); err != nil {
		return err
	}
	s.persistStats(flushCtx)
	return nil
}

// handleChunk appends a raw chunk to the file's buffer and imports every
// hand that is provably complete. The last block stays buffered unless its
// summary section has arrived, because a chunk can end mid-hand.
func (s *Service) handleChunk(ctx context.Context, path, chunk string) error {
	s.mu.Lock()
	buffered := s.pending[path] + parser.Normalize(chunk)
	blocks := parser.Split(buffered)
	if len(blocks) == 0 {
		s.pending[path] = buffered
		s.mu.Unlock()
		return nil
	}
	last := blocks[len(blocks)-1]
	if strings.Contains(last, "*** SUMMARY ***") {
		s.pending[path] = ""
	} else {
		s.pending[path] = last
		blocks = blocks[:len(blocks)-1]
	}
	s.mu.Unlock()

	if len(blocks) == 0 {
		return nil
	}
	report, err := s.ImportText(ctx, path, strings.Join(blocks, ""))
	if err != nil {
		return err
	}
	if report.Parsed > 0 {
		slog.Info("live hands imported", "path", path, "hands", report.Parsed)
	}
	s.persistStats(ctx)
	return nil
}

// Flush imports every buffered block regardless of completeness. Truncated
// hands are reported as failures by the normal path.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	buffered := s.pending
	s.pending = make(map[string]string)
	s.mu.Unlock()

	for path, block := range buffered {
		if block == "" {
			continue
		}
		if _, err := s.ImportText(ctx, path, block); err != nil {
			return err
		}
	}
	return nil
}

// PlayerStats returns a player's aggregate, falling back to storage for
// players not seen this session.
func (s *Service) PlayerStats(ctx context.Context, name string) (*stats.PlayerStats, error) {
	if st, ok := s.agg.Get(name); ok {
		return &st, nil
	}
	return s.repo.GetPlayerStats(ctx, name)
}

// AllStats returns every tracked aggregate, sorted by player name.
func (s *Service) AllStats(ctx context.Context) ([]stats.PlayerStats, error) {
	if snap := s.agg.Snapshot(); len(snap) > 0 {
		return snap, nil
	}
	return s.repo.ListPlayerStats(ctx)
}

// persistStats writes the current aggregate snapshot. Storage failures are
// logged only; the in-memory aggregates stay authoritative.
func (s *Service) persistStats(ctx context.Context) {
	snap := s.agg.Snapshot()
	if len(snap) == 0 {
		return
	}
	if err := s.repo.SavePlayerStats(ctx, snap); err != nil {
		slog.Error("save player stats failed", "error", err)
	}
}
