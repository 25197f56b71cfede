package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultLocalDBName = "cardsight_local.db"

type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteServiceFromEnv() (*SQLiteService, error) {
	dbPath, err := ledgerLocalDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordRound(ctx context.Context, rec RoundRecord) error {
	if strings.TrimSpace(rec.RoundID) == "" {
		return fmt.Errorf("empty round id")
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	playerRaw, err := json.Marshal(rec.PlayerCards)
	if err != nil {
		return err
	}
	dealerRaw, err := json.Marshal(rec.DealerCards)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO ledger_round_history (
    round_id, profile, outcome, player_total, dealer_total, player_cards, dealer_cards, played_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (round_id) DO NOTHING
`, rec.RoundID, rec.Profile, rec.Outcome, rec.PlayerTotal, rec.DealerTotal,
		string(playerRaw), string(dealerRaw), rec.PlayedAt.UTC().UnixMilli())
	return err
}

func (s *SQLiteService) RecentRounds(ctx context.Context, profile string, limit int) ([]RoundRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT round_id, profile, outcome, player_total, dealer_total, player_cards, dealer_cards, played_at_ms
FROM ledger_round_history
WHERE (? = '' OR profile = ?)
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`, profile, profile, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]RoundRecord, 0, limit)
	for rows.Next() {
		var rec RoundRecord
		var playerRaw, dealerRaw []byte
		var playedAtMs int64
		if err := rows.Scan(&rec.RoundID, &rec.Profile, &rec.Outcome,
			&rec.PlayerTotal, &rec.DealerTotal, &playerRaw, &dealerRaw, &playedAtMs); err != nil {
			return nil, err
		}
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		_ = json.Unmarshal(playerRaw, &rec.PlayerCards)
		_ = json.Unmarshal(dealerRaw, &rec.DealerCards)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteService) Stats(ctx context.Context, profile string) (Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT outcome
FROM ledger_round_history
WHERE (? = '' OR profile = ?)
ORDER BY played_at_ms ASC, id ASC
`, profile, profile)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	outcomes := make([]string, 0, 64)
	for rows.Next() {
		var outcome string
		if err := rows.Scan(&outcome); err != nil {
			return Stats{}, err
		}
		outcomes = append(outcomes, outcome)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}
	return statsFromOutcomes(outcomes), nil
}

func (s *SQLiteService) UpsertProfile(ctx context.Context, p Profile) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("empty profile name")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	nowMs := time.Now().UTC().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
INSERT INTO ledger_profile (name, pin_hash, created_at_ms)
VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE
SET pin_hash = excluded.pin_hash
`, name, p.PinHash, nowMs)
	return err
}

func (s *SQLiteService) GetProfile(ctx context.Context, name string) (Profile, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var p Profile
	var createdAtMs int64
	err := s.db.QueryRowContext(ctx, `
SELECT name, pin_hash, created_at_ms
FROM ledger_profile
WHERE name = ?
`, strings.TrimSpace(name)).Scan(&p.Name, &p.PinHash, &createdAtMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.CreatedAt = time.UnixMilli(createdAtMs).UTC()
	return p, nil
}

func (s *SQLiteService) ListProfiles(ctx context.Context) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM ledger_profile ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0, 8)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS ledger_round_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    round_id TEXT NOT NULL UNIQUE,
    profile TEXT NOT NULL DEFAULT '',
    outcome TEXT NOT NULL,
    player_total INTEGER NOT NULL,
    dealer_total INTEGER NOT NULL,
    player_cards TEXT NOT NULL DEFAULT '[]',
    dealer_cards TEXT NOT NULL DEFAULT '[]',
    played_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_round_history_recent ON ledger_round_history(profile, played_at_ms DESC)`,
		`
CREATE TABLE IF NOT EXISTS ledger_profile (
    name TEXT PRIMARY KEY,
    pin_hash TEXT NOT NULL,
    created_at_ms INTEGER NOT NULL
)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func ledgerLocalDatabasePathFromEnv() (string, error) {
	if candidate := strings.TrimSpace(os.Getenv("LEDGER_LOCAL_DATABASE_PATH")); candidate != "" {
		return filepath.Clean(candidate), nil
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "CardSight", defaultLocalDBName), nil
}
