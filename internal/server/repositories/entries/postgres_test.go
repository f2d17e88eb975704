package entries

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/geojournal/internal/common"
	"github.com/dmitrijs2005/geojournal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	insertQ = regexp.QuoteMeta(`INSERT INTO entries (id, latitude, longitude, recorded_at, date_display, note, category, photo_url)`)
	selectQ = regexp.QuoteMeta(`SELECT id, latitude, longitude, recorded_at, date_display, note, category, photo_url`)
	deleteQ = regexp.QuoteMeta(`DELETE FROM entries WHERE id=$1`)
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func sampleEntry() models.JournalEntry {
	photo := "https://cdn/p.jpg"
	return models.JournalEntry{
		ID:          "e1",
		Latitude:    48.8584,
		Longitude:   2.2945,
		Timestamp:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		DateDisplay: "Wed, 01 May 2024 10:00",
		Note:        "tower",
		Category:    models.CategoryLandmark,
		PhotoURL:    &photo,
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	e := sampleEntry()
	mock.ExpectExec(insertQ).
		WithArgs("e1", 48.8584, 2.2945, e.Timestamp, e.DateDisplay, "tower", "landmark",
			sql.NullString{String: "https://cdn/p.jpg", Valid: true}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilPhotoIsNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	e := sampleEntry()
	e.PhotoURL = nil
	mock.ExpectExec(insertQ).
		WithArgs("e1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(context.Background(), sampleEntry())
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestCreate_Errors(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WillReturnError(errors.New("db is down"))
	err := repo.Create(context.Background(), sampleEntry())
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db is down`, err.Error())

	mock.ExpectExec(insertQ).WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))
	err = repo.Create(context.Background(), sampleEntry())
	assert.Regexp(t, `rows affected error`, err.Error())

	mock.ExpectExec(insertQ).WillReturnResult(sqlmock.NewResult(0, 2))
	err = repo.Create(context.Background(), sampleEntry())
	assert.Regexp(t, `unexpected rows affected: 2`, err.Error())
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "latitude", "longitude", "recorded_at", "date_display", "note", "category", "photo_url"}).
		AddRow("a", 1.5, 2.5, ts, "d", "n", "food", nil).
		AddRow("b", -3.0, 4.0, ts, "d", "n", "nature", "https://cdn/b.jpg")
	mock.ExpectQuery(selectQ).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Nil(t, got[0].PhotoURL)
	assert.Equal(t, models.CategoryNature, got[1].Category)
	require.NotNil(t, got[1].PhotoURL)
	assert.Equal(t, "https://cdn/b.jpg", *got[1].PhotoURL)
}

func TestList_EmptyIsNonNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQ).WillReturnError(errors.New("boom"))
	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select entries")
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).WithArgs("e1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "e1"))

	mock.ExpectExec(deleteQ).WithArgs("zz").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "zz"), common.ErrNotFound)

	mock.ExpectExec(deleteQ).WithArgs("e1").WillReturnError(errors.New("gone"))
	require.Error(t, repo.Delete(context.Background(), "e1"))

	require.NoError(t, mock.ExpectationsWereMet())
}
