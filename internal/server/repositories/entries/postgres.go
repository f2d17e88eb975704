package entries

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/geojournal/internal/common"
	"github.com/dmitrijs2005/geojournal/internal/dbx"
	"github.com/dmitrijs2005/geojournal/internal/models"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns every entry ordered by insertion.
func (r *PostgresRepository) List(ctx context.Context) ([]models.JournalEntry, error) {
	query := `SELECT id, latitude, longitude, recorded_at, date_display, note, category, photo_url
		FROM entries ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := []models.JournalEntry{}
	for rows.Next() {
		var (
			item  models.JournalEntry
			photo sql.NullString
		)
		if err := rows.Scan(
			&item.ID, &item.Latitude, &item.Longitude, &item.Timestamp,
			&item.DateDisplay, &item.Note, &item.Category, &photo,
		); err != nil {
			return nil, err
		}
		if photo.Valid {
			item.PhotoURL = &photo.String
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts e. A duplicate id affects no rows and yields ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, e models.JournalEntry) error {
	query := `
		INSERT INTO entries (id, latitude, longitude, recorded_at, date_display, note, category, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING;
	`
	var photo sql.NullString
	if e.PhotoURL != nil {
		photo = sql.NullString{String: *e.PhotoURL, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Latitude, e.Longitude, e.Timestamp.UTC(), e.DateDisplay, e.Note, string(e.Category), photo)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrAlreadyExists
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// Delete removes the entry with id. Exactly one row must be affected.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
