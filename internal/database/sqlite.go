package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/scythe504/architect-backend/internal"
)

// SQLiteSink is the single-file fallback store.
type SQLiteSink struct {
	sqlDB *sql.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, sqlDB, goose.DialectSQLite3, "migrations/sqlite"); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteSink{sqlDB: sqlDB}, nil
}

func (s *SQLiteSink) Record(ctx context.Context, result internal.MatchResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
		INSERT INTO match_results (id, room_id, seeker_id, seeker_name, seeker_won, participants, ballots, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		result.Id,
		result.RoomId,
		result.SeekerId,
		result.SeekerName,
		result.SeekerWon,
		result.Participants,
		result.Ballots,
		result.Timestamp.UTC().UnixMilli(),
	)
	if err != nil {
		return wrapErr("record match result", err)
	}
	return nil
}

func (s *SQLiteSink) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.sqlDB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["driver"] = "sqlite"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	return stats
}

func (s *SQLiteSink) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
