package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// SQLStore keeps session state in a single postgres key-value table,
// for deployments that already run postgres and no redis.
type SQLStore struct {
	db  *sqlx.DB
	ttl time.Duration
}

const sessionSchema = `
CREATE TABLE IF NOT EXISTS dashboard_sessions (
	id         text PRIMARY KEY,
	state      jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

func NewSQLStore(dsn string, ttl time.Duration) (*SQLStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLStore{db: db, ttl: ttl}, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*State, error) {
	var raw []byte
	err := s.db.QueryRowxContext(ctx,
		`SELECT state FROM dashboard_sessions WHERE id = $1 AND updated_at > $2`,
		id, time.Now().Add(-s.ttl)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("dropping corrupt session state")
		return nil, nil
	}
	return &st, nil
}

func (s *SQLStore) Set(ctx context.Context, id string, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dashboard_sessions (id, state, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		id, data)
	return err
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM dashboard_sessions WHERE id = $1`, id)
	return err
}

func (s *SQLStore) Close() error { return s.db.Close() }
