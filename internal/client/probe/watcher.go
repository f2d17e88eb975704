package probe

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/geojournal/internal/logging"
)

// DefaultInterval is how often the Watcher re-probes.
const DefaultInterval = 30 * time.Second

// Watcher keeps an up-to-date online flag by probing at startup and then on
// a fixed interval. It only observes: nothing on the write path depends on it.
type Watcher struct {
	prober   Prober
	interval time.Duration
	logger   logging.Logger

	mu       sync.RWMutex
	online   bool
	known    bool
	onChange func(online bool)
}

func NewWatcher(p Prober, interval time.Duration, logger logging.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{prober: p, interval: interval, logger: logger.With("module", "watcher")}
}

// OnChange registers fn to be called whenever the online state flips,
// including the first probe result. fn runs on the probing goroutine.
func (w *Watcher) OnChange(fn func(online bool)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Online reports the last probe result. It is false until the first probe.
func (w *Watcher) Online() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.online
}

// Probe runs one probe immediately and records the result. Callers use it
// before operations where a fresh status matters.
func (w *Watcher) Probe(ctx context.Context) bool {
	online := w.prober.CheckConnection(ctx)

	w.mu.Lock()
	changed := !w.known || w.online != online
	w.online = online
	w.known = true
	fn := w.onChange
	w.mu.Unlock()

	if changed {
		w.logger.Info(ctx, "connectivity changed", "online", online)
		if fn != nil {
			fn(online)
		}
	}
	return online
}

// Run probes once, then every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.Probe(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}
