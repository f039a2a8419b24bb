// Package session keeps per-operator view state alive across page
// navigation: the last prediction run, its date range, the evaluation
// result and the fires-uploaded flag that gates comparison mode.
// Nothing here is authoritative; the prediction service can always be
// re-queried.
package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"coalfire-dashboard/internal/config"
	"coalfire-dashboard/internal/domain"
)

// State is the stored mirror of one browser session.
type State struct {
	PredictionID  string                   `json:"prediction_id"`
	Predictions   []domain.Prediction      `json:"predictions"`
	DateRange     *domain.DateRange        `json:"date_range"`
	FiresUploaded bool                     `json:"fires_uploaded"`
	Evaluation    *domain.EvaluationResult `json:"evaluation"`
	Generation    uint64                   `json:"generation"`
}

// Store is a session-scoped key-value store. A miss returns (nil, nil):
// absent state is normal, not an error. Implementations log and swallow
// corrupt stored values the same way.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Set(ctx context.Context, id string, st *State) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Open builds the configured session backend. A backend that cannot be
// reached degrades to the in-memory store so the dashboard stays
// usable; only the persistence across restarts is lost.
func Open() Store {
	ttl := time.Duration(config.SessionTTLHours()) * time.Hour
	switch config.SessionBackend() {
	case "redis":
		s, err := NewRedisStore(config.RedisAddr(), config.RedisPassword(), config.RedisDB(), ttl)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, falling back to in-memory sessions")
			return NewMemoryStore(ttl)
		}
		return s
	case "postgres":
		s, err := NewSQLStore(config.DBDSN(), ttl)
		if err != nil {
			log.Warn().Err(err).Msg("postgres unavailable, falling back to in-memory sessions")
			return NewMemoryStore(ttl)
		}
		return s
	default:
		return NewMemoryStore(ttl)
	}
}

// Begin registers a new prediction or evaluation run for the session
// and returns its generation token.
func Begin(ctx context.Context, s Store, id string) (uint64, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if st == nil {
		st = &State{}
	}
	st.Generation++
	if err := s.Set(ctx, id, st); err != nil {
		return 0, err
	}
	return st.Generation, nil
}

// Commit applies fn to the session state only while token is still the
// latest run. A response that arrives after a newer run has started is
// discarded, so stale data can never overwrite fresher state.
func Commit(ctx context.Context, s Store, id string, token uint64, fn func(*State)) (bool, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if st == nil {
		st = &State{}
	}
	if st.Generation != token {
		return false, nil
	}
	fn(st)
	return true, s.Set(ctx, id, st)
}
