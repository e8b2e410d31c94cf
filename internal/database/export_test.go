package database

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetPool returns the underlying connection pool.
// This is used by tests to query the database directly.
func (s *PostgresSink) GetPool() *pgxpool.Pool {
	return s.pool
}

func (s *SQLiteSink) GetDB() *sql.DB {
	return s.sqlDB
}
