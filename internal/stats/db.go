package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"akvabot/internal/metrics"
)

// DB is the sqlite-backed sink. The admin dashboard reads the same
// tables through its own connection.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens the stats database at path and runs migrations.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS command_usage (
			command TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS user_activity (
			user_id INTEGER PRIMARY KEY,
			last_seen DATETIME NOT NULL,
			interactions INTEGER NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS error_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			message TEXT NOT NULL,
			user_id INTEGER,
			command TEXT,
			context TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_error_log_created ON error_log(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_user_activity_seen ON user_activity(last_seen)`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// RecordCommandUsage increments the monotonic per-command counter.
func (db *DB) RecordCommandUsage(ctx context.Context, userID int64, command string) {
	_, err := db.ExecContext(ctx, `
		INSERT INTO command_usage (command, count, updated_at) VALUES (?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(command) DO UPDATE SET count = count + 1, updated_at = CURRENT_TIMESTAMP`,
		command)
	if err != nil {
		db.logger.Warn().Err(err).Str("command", command).Msg("record command usage failed")
	}
	metrics.IncCommand(command)
}

// RecordActivity updates the user's last-seen timestamp.
func (db *DB) RecordActivity(ctx context.Context, userID int64) {
	_, err := db.ExecContext(ctx, `
		INSERT INTO user_activity (user_id, last_seen, interactions) VALUES (?, CURRENT_TIMESTAMP, 1)
		ON CONFLICT(user_id) DO UPDATE SET last_seen = CURRENT_TIMESTAMP, interactions = interactions + 1`,
		userID)
	if err != nil {
		db.logger.Warn().Err(err).Int64("user_id", userID).Msg("record activity failed")
	}
}

// LogError appends one row to the durable error log.
func (db *DB) LogError(ctx context.Context, message string, rec ErrorRecord) {
	var contextJSON string
	if len(rec.Context) > 0 {
		if data, err := json.Marshal(rec.Context); err == nil {
			contextJSON = string(data)
		}
	}

	var userID, command any
	if rec.UserID != 0 {
		userID = rec.UserID
	}
	if rec.Command != "" {
		command = rec.Command
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO error_log (message, user_id, command, context) VALUES (?, ?, ?, ?)`,
		message, userID, command, contextJSON)
	if err != nil {
		db.logger.Warn().Err(err).Msg("append error log failed")
	}
	metrics.IncError(rec.Context["component"])
}

// CommandUsage returns all command counters for the admin side.
func (db *DB) CommandUsage(ctx context.Context) (map[string]int64, error) {
	rows, err := db.QueryContext(ctx, `SELECT command, count FROM command_usage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := make(map[string]int64)
	for rows.Next() {
		var command string
		var count int64
		if err := rows.Scan(&command, &count); err != nil {
			return nil, err
		}
		usage[command] = count
	}
	return usage, rows.Err()
}

// LoggedError is one row of the error log.
type LoggedError struct {
	ID        int64
	CreatedAt time.Time
	Message   string
	UserID    sql.NullInt64
	Command   sql.NullString
	Context   sql.NullString
}

// RecentErrors returns the newest error records, up to limit.
func (db *DB) RecentErrors(ctx context.Context, limit int) ([]LoggedError, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, created_at, message, user_id, command, context
		FROM error_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoggedError
	for rows.Next() {
		var e LoggedError
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Message, &e.UserID, &e.Command, &e.Context); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ActiveUsersSince counts users seen after the cutoff.
func (db *DB) ActiveUsersSince(ctx context.Context, cutoff time.Time) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_activity WHERE last_seen >= ?`, cutoff).Scan(&n)
	return n, err
}
