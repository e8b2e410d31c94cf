package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/architect-backend/internal"
	"github.com/scythe504/architect-backend/internal/config"
)

var (
	ErrNotConfigured        = errors.New("result store is not configured")
	UnexpectedDatabaseError = errors.New("unexpected database error")
)

// Service is the write-only store for finished rounds.
type Service interface {
	Record(ctx context.Context, result internal.MatchResult) error
	// Health returns a map of health status information.
	Health(ctx context.Context) map[string]string
	Close() error
}

// Open picks the configured store: Postgres first, then SQLite. With neither
// configured it returns a Noop store that only logs.
func Open(ctx context.Context, cfg config.Config) (Service, error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case cfg.SQLitePath != "":
		lite, err := NewSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return lite, nil
	}
	log.Warn().Msg("[database.Open] no DATABASE_URL or SQLITE_PATH set, match results will not be stored")
	return Noop{}, nil
}

type Noop struct{}

func (Noop) Record(_ context.Context, result internal.MatchResult) error {
	log.Info().
		Str("room", result.RoomId).
		Str("seeker", result.SeekerId).
		Bool("seekerWon", result.SeekerWon).
		Msg("[Noop.Record] skipped, no result store")
	return nil
}

func (Noop) Health(context.Context) map[string]string {
	return map[string]string{
		"status":  "disabled",
		"message": ErrNotConfigured.Error(),
	}
}

func (Noop) Close() error { return nil }

func wrapErr(op string, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, UnexpectedDatabaseError, err)
	}
}
