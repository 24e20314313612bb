package rates

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/MrJamesThe3rd/spendwise/internal/currency"
)

// Warmer refreshes a fixed list of bases on a cron schedule so requests
// rarely hit an expired snapshot.
type Warmer struct {
	cache *Cache
	bases []currency.Code
	cron  *cron.Cron
}

func NewWarmer(cache *Cache, bases []currency.Code) *Warmer {
	return &Warmer{
		cache: cache,
		bases: bases,
		cron:  cron.New(),
	}
}

// Start schedules the refresh job and starts the scheduler. schedule is a
// standard five-field cron expression or a descriptor such as "@every 30m".
func (w *Warmer) Start(schedule string) error {
	if _, err := w.cron.AddFunc(schedule, func() { w.Warm(context.Background()) }); err != nil {
		return fmt.Errorf("scheduling rate warmer: %w", err)
	}

	w.cron.Start()

	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
}

// Warm refreshes every configured base once. Failures are logged; a stale
// snapshot stays in place.
func (w *Warmer) Warm(ctx context.Context) {
	for _, base := range w.bases {
		set, err := w.cache.Refresh(ctx, base)
		if err != nil {
			slog.Warn("warming rates failed", "base", base, "error", err)
			continue
		}

		if set.Stale {
			slog.Warn("warming rates fell back to stale snapshot", "base", base, "note", set.Note)
		}
	}
}
