package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ModelScout/internal/domain"
	"ModelScout/internal/ports"
)

const sessionTable = "session_entries"

var sessionColumns = []string{"session_id", "tool", "query", "result_limit", "response", "failed", "created_at"}

// Dialect captures what differs between the supported SQL backends.
type Dialect struct {
	Driver      string
	Placeholder sq.PlaceholderFormat
	Schema      []string
}

var (
	// Postgres targets lib/pq.
	Postgres = Dialect{
		Driver:      "postgres",
		Placeholder: sq.Dollar,
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS session_entries (
				id BIGSERIAL PRIMARY KEY,
				session_id TEXT NOT NULL,
				tool TEXT NOT NULL,
				query TEXT NOT NULL,
				result_limit INTEGER NOT NULL,
				response TEXT NOT NULL,
				failed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS session_entries_session_idx ON session_entries (session_id, id)`,
		},
	}

	// MySQL targets go-sql-driver/mysql.
	MySQL = Dialect{
		Driver:      "mysql",
		Placeholder: sq.Question,
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS session_entries (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				session_id VARCHAR(64) NOT NULL,
				tool VARCHAR(64) NOT NULL,
				query TEXT NOT NULL,
				result_limit INT NOT NULL,
				response MEDIUMTEXT NOT NULL,
				failed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at DATETIME(6) NOT NULL,
				INDEX session_entries_session_idx (session_id, id)
			)`,
		},
	}
)

// SQLSessionLog persists tool invocations into a relational table.
type SQLSessionLog struct {
	db      *sql.DB
	dialect Dialect
	builder sq.StatementBuilderType
}

var _ ports.SessionLog = (*SQLSessionLog)(nil)

// NewSQLSessionLog wires a sql.DB implementation for the given dialect.
func NewSQLSessionLog(db *sql.DB, dialect Dialect) *SQLSessionLog {
	return &SQLSessionLog{
		db:      db,
		dialect: dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
	}
}

// EnsureSchema creates the session table when it does not exist yet.
func (r *SQLSessionLog) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.dialect.Schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w", r.dialect.Driver, err)
		}
	}
	return nil
}

func (r *SQLSessionLog) Append(ctx context.Context, entry domain.SessionEntry) error {
	query, args, err := r.builder.
		Insert(sessionTable).
		Columns(sessionColumns...).
		Values(
			entry.SessionID,
			entry.Tool,
			entry.Query,
			entry.Limit,
			entry.Response,
			entry.Failed,
			entry.CreatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session entry: %w", err)
	}
	return nil
}

// History returns up to limit of the most recent entries, oldest first.
func (r *SQLSessionLog) History(ctx context.Context, sessionID string, limit int) ([]domain.SessionEntry, error) {
	builder := r.builder.
		Select(sessionColumns...).
		From(sessionTable).
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	var entries []domain.SessionEntry
	for rows.Next() {
		var e domain.SessionEntry
		if err := rows.Scan(&e.SessionID, &e.Tool, &e.Query, &e.Limit, &e.Response, &e.Failed, &e.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if entries == nil {
		entries = []domain.SessionEntry{}
	}
	return entries, nil
}

// Close releases the underlying connection pool.
func (r *SQLSessionLog) Close() error {
	return r.db.Close()
}
