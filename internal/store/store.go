package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNotFound = errors.New("not found")

// Store persists battle history. It is entirely optional; the bot
// never reads it back on the hot path.
type Store struct {
	DB *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.DB.PingContext(ctx)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS battles (
		id TEXT PRIMARY KEY,
		wallet TEXT NOT NULL,
		user_id BIGINT NOT NULL,
		agent_id BIGINT NOT NULL,
		agent_name TEXT NOT NULL DEFAULT '',
		matchmaking_id BIGINT NOT NULL,
		entry_fee DOUBLE PRECISION NOT NULL,
		outcome TEXT NOT NULL,
		rank INT NOT NULL DEFAULT 0,
		score DOUBLE PRECISION NOT NULL DEFAULT 0,
		reward DOUBLE PRECISION NOT NULL DEFAULT 0,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	)`)
	return err
}

func (s *Store) RecordBattle(ctx context.Context, rec BattleRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO battles (id, wallet, user_id, agent_id, agent_name, matchmaking_id, entry_fee, outcome, rank, score, reward, started_at, finished_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.Wallet, rec.UserID, rec.AgentID, rec.AgentName, rec.MatchmakingID,
		rec.EntryFee, rec.Outcome, rec.Rank, rec.Score, rec.Reward, rec.StartedAt, rec.FinishedAt)
	return rec.ID, err
}

func (s *Store) RecentBattles(ctx context.Context, limit int) ([]BattleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, wallet, user_id, agent_id, agent_name, matchmaking_id, entry_fee, outcome, rank, score, reward, started_at, finished_at
		 FROM battles ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BattleRecord
	for rows.Next() {
		var rec BattleRecord
		if err := rows.Scan(&rec.ID, &rec.Wallet, &rec.UserID, &rec.AgentID, &rec.AgentName, &rec.MatchmakingID,
			&rec.EntryFee, &rec.Outcome, &rec.Rank, &rec.Score, &rec.Reward, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PruneBattles keeps the newest keep rows; cheap hygiene for an
// unattended bot so the table never grows without bound.
func (s *Store) PruneBattles(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM battles WHERE id NOT IN (SELECT id FROM battles ORDER BY finished_at DESC LIMIT $1)`, keep)
	return err
}
