package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/prodraft/draft-backend/internal/store"
	"github.com/prodraft/draft-backend/internal/timer"
)

// Janitor deletes rooms past their age limit, along with their teams
// and any live timers.
type Janitor struct {
	store    store.Store
	timers   *timer.Manager
	log      *zap.Logger
	ttl      time.Duration
	interval time.Duration
}

func NewJanitor(st store.Store, tm *timer.Manager, log *zap.Logger, ttl, interval time.Duration) *Janitor {
	return &Janitor{store: st, timers: tm, log: log, ttl: ttl, interval: interval}
}

// Run sweeps once immediately, then on every interval until the context
// is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	j.sweep(ctx)
	tick := time.NewTicker(j.interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) int {
	cutoff := time.Now().Add(-j.ttl)
	ids, err := j.store.RoomIDsOlderThan(ctx, cutoff)
	if err != nil {
		j.log.Error("cleanup: list old rooms failed", zap.Error(err))
		return 0
	}
	removed := 0
	for _, id := range ids {
		j.timers.Delete(id)
		if err := j.store.DeleteRoom(ctx, id); err != nil {
			j.log.Error("cleanup: delete room failed", zap.String("room", id), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		j.log.Info("cleanup: removed stale rooms", zap.Int("count", removed))
	}
	return removed
}

// SweepOnce runs a single sweep, for the admin surface and tests.
func (j *Janitor) SweepOnce(ctx context.Context) int {
	return j.sweep(ctx)
}
