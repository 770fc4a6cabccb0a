package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"ModelScout/internal/config"
	"ModelScout/internal/ports"
)

// SessionStore is a session log that owns resources.
type SessionStore interface {
	ports.SessionLog
	Close() error
}

// Open returns the session log selected by cfg.Driver. SQL backends get their
// schema created on open.
func Open(ctx context.Context, cfg config.SessionConfig) (SessionStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return NewMemorySessionLog(), nil
	case Postgres.Driver:
		return openSQL(ctx, Postgres, cfg.DSN)
	case MySQL.Driver:
		dsn, err := mysqlDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return openSQL(ctx, MySQL, dsn)
	default:
		return nil, fmt.Errorf("unsupported session driver %q", cfg.Driver)
	}
}

func openSQL(ctx context.Context, dialect Dialect, dsn string) (*SQLSessionLog, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s session driver requires a dsn", dialect.Driver)
	}

	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Driver, err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Driver, describe(err))
	}

	store := NewSQLSessionLog(db, dialect)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", nil
	}
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	parsed.ParseTime = true
	parsed.Loc = time.UTC
	return parsed.FormatDSN(), nil
}

func describe(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		return fmt.Errorf("%s (%s): %w", pqErr.Message, pqErr.Code.Name(), err)
	}
	return err
}
