package entries

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/geojournal/internal/common"
	"github.com/dmitrijs2005/geojournal/internal/models"
)

// MemoryRepository keeps entries in process memory. Contents are lost on restart.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []models.JournalEntry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) List(context.Context) ([]models.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.JournalEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, e models.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(e.ID) >= 0 {
		return common.ErrAlreadyExists
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return common.ErrNotFound
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return nil
}

func (r *MemoryRepository) indexOf(id string) int {
	return slices.IndexFunc(r.entries, func(e models.JournalEntry) bool { return e.ID == id })
}
