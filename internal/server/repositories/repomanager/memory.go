package repomanager

import (
	"context"

	"github.com/dmitrijs2005/geojournal/internal/server/repositories/entries"
)

type InMemoryRepositoryManager struct {
	entries *entries.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{entries: entries.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Entries() entries.Repository { return m.entries }

func (m *InMemoryRepositoryManager) Close() error { return nil }
