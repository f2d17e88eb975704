// Package services holds the client-side application services. The central
// one is Gateway, the single entry point for reading and changing the
// journal regardless of connectivity.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/geojournal/internal/client/client"
	"github.com/dmitrijs2005/geojournal/internal/client/mirror"
	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/dmitrijs2005/geojournal/internal/models"
)

// Source names the store that served an operation.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

type ListResult struct {
	Entries []models.JournalEntry
	Source  Source
}

type EntryResult struct {
	Entry  models.JournalEntry
	Source Source
}

// Gateway tries the remote store first and falls back to the on-device
// mirror on any remote failure. A remote success is written through to the
// mirror so it stays a best-effort replica.
//
// Remote failures are never returned to the caller; the fallback is the
// error handling. Results carry the Source that served them.
//
// Known limitation: entries created while offline get a local id and are
// never pushed to the remote. The next successful List replaces the mirror
// with the remote collection, dropping them. Deletes made while offline are
// not replayed either.
type Gateway struct {
	remote  client.Client
	mirror  *mirror.Mirror
	logger  logging.Logger
	metrics *Metrics

	mu        sync.Mutex
	now       func() time.Time
	lastLocal time.Time
}

func NewGateway(remote client.Client, m *mirror.Mirror, logger logging.Logger, reg prometheus.Registerer) *Gateway {
	return &Gateway{
		remote:  remote,
		mirror:  m,
		logger:  logger.With("module", "gateway"),
		metrics: NewMetrics(reg),
		now:     time.Now,
	}
}

// List returns the remote collection and makes it the new mirror content.
// When the remote cannot be reached it returns the mirror as is.
func (g *Gateway) List(ctx context.Context) ListResult {
	entries, err := g.remote.List(ctx)
	if err == nil {
		if err := g.mirror.Replace(ctx, entries); err != nil {
			g.metrics.mirrorFailed("list")
			g.logger.Error(ctx, "mirror write-through failed", "op", "list", "error", err)
		}
		g.metrics.served("list", SourceRemote)
		return ListResult{Entries: entries, Source: SourceRemote}
	}

	g.logger.Warn(ctx, "remote list failed, serving mirror", "error", err)
	local, lerr := g.mirror.Load(ctx)
	if lerr != nil {
		g.metrics.mirrorFailed("list")
		g.logger.Error(ctx, "mirror read failed", "op", "list", "error", lerr)
	}
	g.metrics.served("list", SourceLocal)
	return ListResult{Entries: local, Source: SourceLocal}
}

// Create submits entry to the remote and mirrors the stored result. When the
// remote cannot be reached the entry gets a local id and lives only in the
// mirror.
func (g *Gateway) Create(ctx context.Context, entry models.NewEntry) EntryResult {
	created, err := g.remote.Create(ctx, entry)
	src := SourceRemote
	if err != nil {
		g.logger.Warn(ctx, "remote create failed, storing locally", "error", err)
		created = entry.WithID(g.localID())
		src = SourceLocal
	}

	if err := g.mirror.Append(ctx, created); err != nil {
		g.metrics.mirrorFailed("create")
		g.logger.Error(ctx, "mirror append failed", "id", created.ID, "source", src, "error", err)
	}

	g.metrics.served("create", src)
	return EntryResult{Entry: created, Source: src}
}

// Delete removes id from the remote and from the mirror. The mirror copy is
// removed even when the remote call fails. Unknown ids are a no-op.
func (g *Gateway) Delete(ctx context.Context, id string) Source {
	src := SourceRemote
	if err := g.remote.Delete(ctx, id); err != nil {
		g.logger.Warn(ctx, "remote delete failed, deleting locally only", "id", id, "error", err)
		src = SourceLocal
	}

	if _, err := g.mirror.Remove(ctx, id); err != nil {
		g.metrics.mirrorFailed("delete")
		g.logger.Error(ctx, "mirror remove failed", "id", id, "error", err)
	}

	g.metrics.served("delete", src)
	return src
}

// Import replaces the mirror with entries. The remote store is not touched.
func (g *Gateway) Import(ctx context.Context, entries []models.JournalEntry) error {
	if err := g.mirror.Replace(ctx, entries); err != nil {
		g.metrics.mirrorFailed("import")
		return err
	}
	g.metrics.served("import", SourceLocal)
	g.logger.Info(ctx, "mirror replaced from snapshot", "entries", len(entries))
	return nil
}

// Unsynced lists the mirror entries that carry a local id, i.e. were created
// while the remote was unreachable.
func (g *Gateway) Unsynced(ctx context.Context) ([]models.JournalEntry, error) {
	entries, err := g.mirror.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.JournalEntry
	for _, e := range entries {
		if models.IsLocalID(e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// localID mints an id from the clock, nudged forward so that two creates
// within the same clock tick still get distinct ids.
func (g *Gateway) localID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := g.now()
	if !t.After(g.lastLocal) {
		t = g.lastLocal.Add(time.Nanosecond)
	}
	g.lastLocal = t
	return models.LocalID(t)
}
