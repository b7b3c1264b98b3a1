package commands

import (
	"context"
	"os"
	"time"
)

// Watch reloads the command file on change and calls onUpdate with the
// latest set. It performs an initial load before entering the watch
// loop, so a missing or broken file fails fast at startup.
func Watch(ctx context.Context, path string, interval time.Duration, onUpdate func([]Command)) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	cmds, err := LoadFile(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(cmds)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil {
					continue // transient errors
				}
				if !info.ModTime().After(lastMod) {
					continue
				}
				cmds, err := LoadFile(path)
				if err != nil {
					continue
				}
				lastMod = info.ModTime()
				if onUpdate != nil {
					onUpdate(cmds)
				}
			}
		}
	}()

	return nil
}
