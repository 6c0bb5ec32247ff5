package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/PokerZhyte/pokertracker/internal/parser"
	"github.com/PokerZhyte/pokertracker/internal/stats"
	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// WAL mode reduces write latency by avoiding full fsync on every commit.
	// synchronous=NORMAL is safe with WAL and significantly faster than the default FULL.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}
	repo := &SQLiteRepository{db: db}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) SaveHands(ctx context.Context, hands []*parser.Hand) (SaveResult, error) {
	var res SaveResult
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		for _, h := range hands {
			if h == nil {
				res.Skipped++
				continue
			}
			exists, err := rowExists(ctx, tx, `SELECT 1 FROM hands WHERE id = ? LIMIT 1`, h.ID)
			if err != nil {
				return err
			}
			if exists {
				res.Skipped++
				continue
			}
			if err := insertHandTx(ctx, tx, h); err != nil {
				return fmt.Errorf("insert hand %d: %w", h.ID, err)
			}
			res.Inserted++
		}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}
	return res, nil
}

func insertHandTx(ctx context.Context, tx *sql.Tx, h *parser.Hand) error {
	var flop1, flop2, flop3 any
	if h.FlopCards != nil {
		flop1, flop2, flop3 = h.FlopCards[0], h.FlopCards[1], h.FlopCards[2]
	}
	var winner any
	if h.End.Winner != nil {
		winner = h.End.Winner.Name
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO hands(
		id, played_at, real_money, small_limit, big_limit,
		table_name, table_size, button_seat,
		flop_1, flop_2, flop_3, turn_card, river_card,
		pot, winner, content
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID,
		h.Date.UTC().Format(time.RFC3339Nano),
		boolToInt(h.RealMoney),
		h.SmallLimit,
		h.BigLimit,
		h.TableName,
		h.TableSize,
		h.ButtonSeat,
		flop1, flop2, flop3,
		nullIfEmpty(h.TurnCard),
		nullIfEmpty(h.RiverCard),
		h.End.Pot,
		winner,
		h.Content,
	); err != nil {
		return err
	}

	for _, p := range h.SeatedPlayers() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hand_players(hand_id, seat, name, stack) VALUES(?, ?, ?, ?)`,
			h.ID, p.Seat, p.Name, p.Stack,
		); err != nil {
			return err
		}
	}

	for kind, blind := range map[string]parser.Blind{"small": h.SmallBlind, "big": h.BigBlind} {
		if blind.Player == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO blinds(hand_id, kind, player, amount) VALUES(?, ?, ?, ?)`,
			h.ID, kind, blind.Player.Name, blind.Amount,
		); err != nil {
			return err
		}
	}

	for _, street := range []parser.Street{
		parser.StreetPreflop, parser.StreetFlop, parser.StreetTurn, parser.StreetRiver,
	} {
		for seq, a := range h.Actions(street) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO actions(
				hand_id, street, sequence, kind, player, amount, amount_to, all_in
			) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
				h.ID, int(street), seq, int(a.Type), a.Player.Name, a.Amount, a.To, boolToInt(a.AllIn),
			); err != nil {
				return err
			}
		}
	}

	for i, hc := range h.HoleCards {
		if hc == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hole_cards(hand_id, seat, card_1, card_2) VALUES(?, ?, ?, ?)`,
			h.ID, i+1, hc[0], hc[1],
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) HasHand(ctx context.Context, id int64) (bool, error) {
	var probe int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM hands WHERE id = ? LIMIT 1`, id).Scan(&probe)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetHand rebuilds a hand from its stored raw block. Storing the block and
// re-parsing is simpler than reassembling the record from five tables and is
// guaranteed to round-trip.
func (r *SQLiteRepository) GetHand(ctx context.Context, id int64) (*parser.Hand, error) {
	var content string
	err := r.db.QueryRowContext(ctx, `SELECT content FROM hands WHERE id = ?`, id).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h, err := parser.ParseHand(content)
	if err != nil {
		return nil, fmt.Errorf("stored hand %d no longer parses: %w", id, err)
	}
	return h, nil
}

func (r *SQLiteRepository) CountHands(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hands`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SQLiteRepository) SavePlayerStats(ctx context.Context, players []stats.PlayerStats) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, s := range players {
			if _, err := tx.ExecContext(ctx, `INSERT INTO players(
				name, vpip, pfr, af, pre_3bet, fold_to_pre_3bet, cbet, fold_to_cbet, squeeze,
				hands, can_pre_3bet, can_fold_to_pre_3bet, can_cbet, can_fold_to_cbet, can_squeeze,
				calls, bets, raises, updated_at
			) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				vpip=excluded.vpip,
				pfr=excluded.pfr,
				af=excluded.af,
				pre_3bet=excluded.pre_3bet,
				fold_to_pre_3bet=excluded.fold_to_pre_3bet,
				cbet=excluded.cbet,
				fold_to_cbet=excluded.fold_to_cbet,
				squeeze=excluded.squeeze,
				hands=excluded.hands,
				can_pre_3bet=excluded.can_pre_3bet,
				can_fold_to_pre_3bet=excluded.can_fold_to_pre_3bet,
				can_cbet=excluded.can_cbet,
				can_fold_to_cbet=excluded.can_fold_to_cbet,
				can_squeeze=excluded.can_squeeze,
				calls=excluded.calls,
				bets=excluded.bets,
				raises=excluded.raises,
				updated_at=excluded.updated_at`,
				s.Name, s.VPIP, s.PFR, s.AF, s.Pre3Bet, s.FoldToPre3Bet, s.CBet, s.FoldToCBet, s.Squeeze,
				s.Hands, s.CanPre3Bet, s.CanFoldToPre3Bet, s.CanCBet, s.CanFoldToCBet, s.CanSqueeze,
				s.Calls, s.Bets, s.Raises, now,
			); err != nil {
				return fmt.Errorf("save player %s: %w", s.Name, err)
			}
		}
		return nil
	})
}

const playerColumns = `name, vpip, pfr, af, pre_3bet, fold_to_pre_3bet, cbet, fold_to_cbet, squeeze,
	hands, can_pre_3bet, can_fold_to_pre_3bet, can_cbet, can_fold_to_cbet, can_squeeze,
	calls, bets, raises`

func (r *SQLiteRepository) GetPlayerStats(ctx context.Context, name string) (*stats.PlayerStats, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE name = ?`, name)
	s, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepository) ListPlayerStats(ctx context.Context) ([]stats.PlayerStats, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stats.PlayerStats
	for rows.Next() {
		s, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (stats.PlayerStats, error) {
	var s stats.PlayerStats
	err := row.Scan(
		&s.Name, &s.VPIP, &s.PFR, &s.AF, &s.Pre3Bet, &s.FoldToPre3Bet, &s.CBet, &s.FoldToCBet, &s.Squeeze,
		&s.Hands, &s.CanPre3Bet, &s.CanFoldToPre3Bet, &s.CanCBet, &s.CanFoldToCBet, &s.CanSqueeze,
		&s.Calls, &s.Bets, &s.Raises,
	)
	return s, err
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func rowExists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var probe int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&probe)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
