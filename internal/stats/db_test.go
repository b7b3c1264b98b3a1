package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "stats.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordCommandUsage(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	db.RecordCommandUsage(ctx, 1, "начать")
	db.RecordCommandUsage(ctx, 2, "начать")
	db.RecordCommandUsage(ctx, 1, "билеты")

	usage, err := db.CommandUsage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage["начать"])
	assert.Equal(t, int64(1), usage["билеты"])
}

func TestRecordActivity(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	db.RecordActivity(ctx, 10)
	db.RecordActivity(ctx, 10)
	db.RecordActivity(ctx, 20)

	n, err := db.ActiveUsersSince(ctx, time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.ActiveUsersSince(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLogErrorRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	db.LogError(ctx, "fetch tariffs failed: http 500", ErrorRecord{
		UserID:  7,
		Command: "взрослые билеты",
		Context: map[string]string{"component": "ticketing", "date": "01.01.2030"},
	})
	db.LogError(ctx, "long poll request failed", ErrorRecord{
		Context: map[string]string{"component": "longpoll"},
	})

	errs, err := db.RecentErrors(ctx, 10)
	require.NoError(t, err)
	require.Len(t, errs, 2)

	// Newest first.
	assert.Equal(t, "long poll request failed", errs[0].Message)
	assert.False(t, errs[0].UserID.Valid, "zero user id stored as NULL")

	assert.Equal(t, "fetch tariffs failed: http 500", errs[1].Message)
	assert.Equal(t, int64(7), errs[1].UserID.Int64)
	assert.Equal(t, "взрослые билеты", errs[1].Command.String)
	assert.Contains(t, errs[1].Context.String, `"component":"ticketing"`)
}

func TestRecentErrorsLimit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		db.LogError(ctx, "err", ErrorRecord{})
	}

	errs, err := db.RecentErrors(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, errs, 3)
}
