// Package stats persists the counters and error log consumed by the
// admin dashboard. Writes are fire-and-forget from the bot's
// perspective: persistence failures are logged, never returned.
package stats

import "context"

// ErrorRecord carries optional context for a logged error.
type ErrorRecord struct {
	UserID  int64
	Command string
	Context map[string]string
}

// Sink is the write surface the bot core depends on.
type Sink interface {
	RecordCommandUsage(ctx context.Context, userID int64, command string)
	RecordActivity(ctx context.Context, userID int64)
	LogError(ctx context.Context, message string, rec ErrorRecord)
}
