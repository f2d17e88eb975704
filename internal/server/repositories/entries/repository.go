// Package entries provides repositories for the journal store's entries:
// a PostgreSQL implementation over dbx.DBTX and an in-memory one used when
// no database is configured.
package entries

import (
	"context"

	"github.com/dmitrijs2005/geojournal/internal/models"
)

// Repository persists entries in insertion order.
type Repository interface {
	List(ctx context.Context) ([]models.JournalEntry, error)
	// Create stores e. It returns common.ErrAlreadyExists when the id is taken.
	Create(ctx context.Context, e models.JournalEntry) error
	// Delete removes the entry. It returns common.ErrNotFound for an unknown id.
	Delete(ctx context.Context, id string) error
}
