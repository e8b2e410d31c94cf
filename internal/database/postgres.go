package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/scythe504/architect-backend/internal"
)

type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, pings and migrates the match_results schema.
func NewPostgres(ctx context.Context, connString string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	migrationDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer migrationDB.Close()

	if err := migrate(ctx, migrationDB, goose.DialectPostgres, "migrations/postgres"); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) Record(ctx context.Context, result internal.MatchResult) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO match_results (id, room_id, seeker_id, seeker_name, seeker_won, participants, ballots, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		result.Id,
		result.RoomId,
		result.SeekerId,
		result.SeekerName,
		result.SeekerWon,
		result.Participants,
		result.Ballots,
		result.Timestamp,
	)
	if err != nil {
		return wrapErr("record match result", err)
	}
	return nil
}

func (s *PostgresSink) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	poolStats := s.pool.Stat()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["driver"] = "postgres"
	stats["total_connections"] = strconv.Itoa(int(poolStats.TotalConns()))
	stats["idle_connections"] = strconv.Itoa(int(poolStats.IdleConns()))
	stats["acquired_connections"] = strconv.Itoa(int(poolStats.AcquiredConns()))
	return stats
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
