// Package mirror keeps the device-local replica of the journal.
//
// The whole collection is stored as one JSON array under a fixed key of a
// kv.Store. Every mutation is a read-modify-write of that array performed
// through kv.Store.Update, so two mutations in the same process cannot
// overwrite each other's changes.
//
// An absent key reads as an empty journal. A value that cannot be decoded
// also reads as empty: the mirror fails closed, logs a warning, and the next
// successful write replaces the damaged value.
package mirror

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/geojournal/internal/client/repositories/kv"
	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/dmitrijs2005/geojournal/internal/models"
)

// Key is the kv key the journal is stored under.
const Key = "journal_entries"

// errUnchanged aborts an Update without writing.
var errUnchanged = errors.New("unchanged")

type Mirror struct {
	store  kv.Store
	logger logging.Logger
}

func New(store kv.Store, logger logging.Logger) *Mirror {
	return &Mirror{store: store, logger: logger.With("module", "mirror")}
}

func (m *Mirror) decode(ctx context.Context, b []byte) []models.JournalEntry {
	if len(b) == 0 {
		return []models.JournalEntry{}
	}
	var entries []models.JournalEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		m.logger.Warn(ctx, "mirror content is malformed, treating as empty", "error", err, "bytes", len(b))
		return []models.JournalEntry{}
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return entries
}

func encode(entries []models.JournalEntry) ([]byte, error) {
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return b, nil
}

// Load returns the stored collection in stored order. The result is never nil.
func (m *Mirror) Load(ctx context.Context) ([]models.JournalEntry, error) {
	b, err := m.store.Get(ctx, Key)
	if err != nil {
		return []models.JournalEntry{}, fmt.Errorf("load mirror: %w", err)
	}
	return m.decode(ctx, b), nil
}

// Replace overwrites the stored collection with entries.
func (m *Mirror) Replace(ctx context.Context, entries []models.JournalEntry) error {
	b, err := encode(entries)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, Key, b); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}
	return nil
}

// Append adds e to the end of the stored collection.
func (m *Mirror) Append(ctx context.Context, e models.JournalEntry) error {
	err := m.store.Update(ctx, Key, func(current []byte) ([]byte, error) {
		return encode(append(m.decode(ctx, current), e))
	})
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}
	return nil
}

// Remove deletes every entry with the given id and reports whether any was
// found. Removing an unknown id leaves the stored value untouched.
func (m *Mirror) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := m.store.Update(ctx, Key, func(current []byte) ([]byte, error) {
		entries := m.decode(ctx, current)
		kept := models.RemoveByID(entries, id)
		if len(kept) == len(entries) {
			return nil, errUnchanged
		}
		removed = true
		return encode(kept)
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove from mirror: %w", err)
	}
	return removed, nil
}
