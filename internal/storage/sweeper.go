package storage

import (
	"context"
	"log/slog"
	"time"
)

// RunSweeper ends sessions idle for longer than ttl, checking every interval
// until ctx is cancelled. onSweep, if set, is called after each pass with
// the number of live sessions.
func RunSweeper(ctx context.Context, store Store, ttl, interval time.Duration, onSweep func(live int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			removed, err := store.Sweep(ctx, now.Add(-ttl))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				slog.Error("Session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("Expired idle sessions", "removed", removed, "ttl", ttl)
			}
			if onSweep != nil {
				onSweep(store.Len())
			}
		}
	}
}
