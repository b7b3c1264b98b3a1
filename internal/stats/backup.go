package stats

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Backup copies the stats database file aside on a fixed interval and
// prunes copies older than the retention window. The admin side reads
// from these copies when restoring.
type Backup struct {
	dbPath      string
	storagePath string
	interval    time.Duration
	retention   int
	logger      *zerolog.Logger
}

func NewBackup(dbPath, storagePath string, interval time.Duration, retentionDays int, logger *zerolog.Logger) *Backup {
	return &Backup{
		dbPath:      dbPath,
		storagePath: storagePath,
		interval:    interval,
		retention:   retentionDays,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled. The first copy is taken
// immediately so a fresh deployment has a restore point.
func (b *Backup) Run(ctx context.Context) {
	if err := b.Snapshot(); err != nil {
		b.logger.Error().Err(err).Msg("initial stats backup failed")
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Snapshot(); err != nil {
				b.logger.Error().Err(err).Msg("stats backup failed")
			}
			b.prune()
		}
	}
}

// Snapshot writes one timestamped copy of the database file.
func (b *Backup) Snapshot() error {
	if err := os.MkdirAll(b.storagePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("stats_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(b.storagePath, name)

	source, err := os.Open(b.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	b.logger.Info().Str("path", dst).Msg("stats backup written")
	return nil
}

func (b *Backup) prune() {
	if b.retention <= 0 {
		return
	}

	entries, err := os.ReadDir(b.storagePath)
	if err != nil {
		b.logger.Warn().Err(err).Msg("read backup directory failed")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -b.retention)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			b.logger.Info().Str("file", entry.Name()).Msg("pruning old stats backup")
			os.Remove(filepath.Join(b.storagePath, entry.Name()))
		}
	}
}
