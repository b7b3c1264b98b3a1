package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCopiesDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "stats.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("payload"), 0o644))

	storage := filepath.Join(dir, "backups")
	logger := zerolog.Nop()
	b := NewBackup(dbPath, storage, time.Hour, 7, &logger)

	require.NoError(t, b.Snapshot())

	entries, err := os.ReadDir(storage)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(storage, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestSnapshotMissingSourceFails(t *testing.T) {
	dir := t.TempDir()
	logger := zerolog.Nop()
	b := NewBackup(filepath.Join(dir, "missing.db"), filepath.Join(dir, "backups"), time.Hour, 0, &logger)
	assert.Error(t, b.Snapshot())
}

func TestPruneRemovesExpiredCopies(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "stats_old.db")
	fresh := filepath.Join(dir, "stats_new.db")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	stale := time.Now().AddDate(0, 0, -10)
	require.NoError(t, os.Chtimes(old, stale, stale))

	logger := zerolog.Nop()
	b := NewBackup("", dir, time.Hour, 7, &logger)
	b.prune()

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err), "expired copy should be removed")
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}
