package camera

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/smart-doorbell/internal/config"
	"github.com/oshokin/smart-doorbell/internal/logger"
)

// Stats counts feed activity.
type Stats struct {
	// Frames is the number of frames read successfully.
	Frames uint64
	// Failures is the number of skipped refresh cycles.
	Failures uint64
}

// Feed pulls frames from a source and keeps the newest one.
type Feed struct {
	source   Source
	interval time.Duration

	mu     sync.RWMutex
	latest *Frame

	frames   atomic.Uint64
	failures atomic.Uint64
}

// NewFeed creates a feed polling source every interval.
func NewFeed(source Source, interval time.Duration) *Feed {
	if interval <= 0 {
		interval = config.DefaultPollInterval
	}

	return &Feed{
		source:   source,
		interval: interval,
	}
}

// Run polls the source until ctx is canceled. Read errors skip the cycle.
func (f *Feed) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "camera")

	logger.InfoKV(ctx, "Frame feed started", "source", f.source.Name(), "interval", f.interval)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			stats := f.Stats()
			logger.InfoKV(ctx, "Frame feed stopped", "frames", stats.Frames, "failures", stats.Failures)

			return nil
		case <-ticker.C:
			f.poll(ctx)
		}
	}
}

// poll performs one pull-and-discard-on-failure cycle.
func (f *Feed) poll(ctx context.Context) {
	frame, err := f.source.Read()
	if err != nil {
		// Failures repeat every poll while the device is gone; log the first one only.
		if f.failures.Add(1) == 1 {
			logger.DebugKV(ctx, "Frame read failed", "error", err)
		}

		return
	}

	f.frames.Add(1)

	f.mu.Lock()
	f.latest = frame
	f.mu.Unlock()
}

// Latest returns the newest frame, if any was read yet.
func (f *Feed) Latest() (*Frame, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.latest, f.latest != nil
}

// Stats returns the feed counters.
func (f *Feed) Stats() Stats {
	return Stats{
		Frames:   f.frames.Load(),
		Failures: f.failures.Load(),
	}
}
