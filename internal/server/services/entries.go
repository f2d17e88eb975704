// Package services holds the journal store's business logic: input
// validation, id issuing and photo offloading in front of the repository.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/geojournal/internal/common"
	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/dmitrijs2005/geojournal/internal/models"
	"github.com/dmitrijs2005/geojournal/internal/server/photos"
	"github.com/dmitrijs2005/geojournal/internal/server/repositories/entries"
	"github.com/google/uuid"
	"github.com/gookit/validate"
)

const (
	maxDateDisplayLen = 64
	maxNoteLen        = 4000
)

type EntryService struct {
	repo   entries.Repository
	photos photos.Offloader
	logger logging.Logger
	newID  func() string
}

func NewEntryService(repo entries.Repository, p photos.Offloader, logger logging.Logger) *EntryService {
	if p == nil {
		p = photos.Passthrough{}
	}
	return &EntryService{
		repo:   repo,
		photos: p,
		logger: logger.With("module", "entry_service"),
		newID:  uuid.NewString,
	}
}

func (s *EntryService) List(ctx context.Context) ([]models.JournalEntry, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return list, nil
}

// Create validates in, moves an inline photo to object storage and stores
// the entry under a fresh UUID.
func (s *EntryService) Create(ctx context.Context, in models.NewEntry) (models.JournalEntry, error) {
	if err := validateNewEntry(in); err != nil {
		return models.JournalEntry{}, err
	}

	photo, err := s.photos.Offload(ctx, in.PhotoURL)
	if err != nil {
		if errors.Is(err, photos.ErrInvalidDataURL) {
			return models.JournalEntry{}, fmt.Errorf("%w: photoUrl: %v", common.ErrValidation, err)
		}
		return models.JournalEntry{}, fmt.Errorf("offload photo: %w", err)
	}
	in.PhotoURL = photo

	e := in.WithID(s.newID())
	if err := s.repo.Create(ctx, e); err != nil {
		return models.JournalEntry{}, fmt.Errorf("create entry: %w", err)
	}

	s.logger.Debug(ctx, "entry created", "id", e.ID, "category", e.Category)
	return e, nil
}

// Delete removes the entry with id; common.ErrNotFound is passed through.
func (s *EntryService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty id", common.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	s.logger.Debug(ctx, "entry deleted", "id", id)
	return nil
}

func validateNewEntry(in models.NewEntry) error {
	categories := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		categories = append(categories, string(c))
	}

	v := validate.Map(map[string]any{
		"category":    string(in.Category),
		"dateDisplay": in.DateDisplay,
		"note":        in.Note,
	})
	v.StringRule("category", "required|in:"+strings.Join(categories, ","))
	v.StringRule("dateDisplay", fmt.Sprintf("maxLen:%d", maxDateDisplayLen))
	v.StringRule("note", fmt.Sprintf("maxLen:%d", maxNoteLen))
	if !v.Validate() {
		return fmt.Errorf("%w: %s", common.ErrValidation, v.Errors.One())
	}

	switch {
	case math.IsNaN(in.Latitude) || in.Latitude < -90 || in.Latitude > 90:
		return fmt.Errorf("%w: latitude out of range", common.ErrValidation)
	case math.IsNaN(in.Longitude) || in.Longitude < -180 || in.Longitude > 180:
		return fmt.Errorf("%w: longitude out of range", common.ErrValidation)
	case in.Timestamp.IsZero():
		return fmt.Errorf("%w: timestamp is required", common.ErrValidation)
	}
	return nil
}
