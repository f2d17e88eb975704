// Package probe answers "is the remote store reachable right now?".
//
// A probe is a single time-bounded request with no retries. Every failure
// (transport error, non-success response, deadline) reads as offline; a
// probe never returns an error and never blocks longer than its timeout.
package probe

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = time.Second

type Prober interface {
	CheckConnection(ctx context.Context) bool
}

// Pinger is the liveness call of a remote store client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPProber checks the store through its client's Ping, bounded by timeout.
type HTTPProber struct {
	pinger  Pinger
	timeout time.Duration
}

func NewHTTPProber(pinger Pinger, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPProber{pinger: pinger, timeout: timeout}
}

func (p *HTTPProber) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.pinger.Ping(ctx) == nil
}
