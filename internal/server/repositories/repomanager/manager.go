// Package repomanager vends the store's repositories from either PostgreSQL
// or process memory and owns the schema migration hook.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/geojournal/internal/server/repositories/entries"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Entries() entries.Repository
	Close() error
}

// New returns a PostgreSQL manager for a non-empty dsn and an in-memory one
// otherwise. Migrations are not run.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	return OpenPostgres(ctx, dsn)
}
