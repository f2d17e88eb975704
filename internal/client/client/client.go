package client

import (
	"context"

	"github.com/dmitrijs2005/geojournal/internal/models"
)

type Client interface {
	List(ctx context.Context) ([]models.JournalEntry, error)
	Create(ctx context.Context, entry models.NewEntry) (models.JournalEntry, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
