package server

import (
	"context"
	"time"

	"github.com/limjoxin/redisx/internal/store"
	"go.uber.org/zap"
)

// RunSweeper ticks every interval and asks st to evict everything whose
// deadline has passed, until ctx is done. It blocks the calling
// goroutine (cmd/server starts it in a goroutine of its own); each shard
// sweep takes only its own lock, so it never stalls reads or writes on
// other shards.
func RunSweeper(ctx context.Context, st *store.Store, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if logger != nil {
		logger.Debug("sweeper started", zap.Duration("interval", interval))
	}

	for {
		select {
		case <-ctx.Done():
			if logger != nil {
				logger.Debug("sweeper stopped")
			}
			return
		case <-ticker.C:
			st.SweepAll(time.Now())
		}
	}
}
