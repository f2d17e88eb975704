package mirror

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/geojournal/internal/client/repositories/kv"
	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/dmitrijs2005/geojournal/internal/models"
)

func entry(id, note string) models.JournalEntry {
	return models.JournalEntry{
		ID:        id,
		Latitude:  56.95,
		Longitude: 24.1,
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Note:      note,
		Category:  models.CategoryNature,
	}
}

func newMirror(t *testing.T) (*Mirror, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	return New(store, logging.NewNopLogger()), store
}

func TestLoad_AbsentIsEmpty(t *testing.T) {
	m, _ := newMirror(t)

	got, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLoad_MalformedIsEmpty(t *testing.T) {
	m, store := newMirror(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, Key, []byte(`{not json`)))

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, m.Append(ctx, entry("1", "after damage")))
	got, err = m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.JournalEntry{entry("1", "after damage")}, got)
}

func TestReplace_PreservesOrder(t *testing.T) {
	m, _ := newMirror(t)
	ctx := context.Background()
	in := []models.JournalEntry{entry("b", "2"), entry("a", "1"), entry("c", "3")}

	require.NoError(t, m.Replace(ctx, in))

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestReplace_NilStoresEmptyArray(t *testing.T) {
	m, store := newMirror(t)
	ctx := context.Background()

	require.NoError(t, m.Replace(ctx, nil))

	raw, err := store.Get(ctx, Key)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestAppendAndRemove(t *testing.T) {
	m, _ := newMirror(t)
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, entry("1", "one")))
	require.NoError(t, m.Append(ctx, entry("2", "two")))
	require.NoError(t, m.Append(ctx, entry("3", "three")))

	removed, err := m.Remove(ctx, "2")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.Remove(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.JournalEntry{entry("1", "one"), entry("3", "three")}, got)
}

func TestRemove_EmptyMirrorWritesNothing(t *testing.T) {
	m, store := newMirror(t)
	ctx := context.Background()

	removed, err := m.Remove(ctx, "x")
	require.NoError(t, err)
	assert.False(t, removed)

	raw, err := store.Get(ctx, Key)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestAppend_ConcurrentWritersKeepAllEntries(t *testing.T) {
	m, _ := newMirror(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Append(ctx, entry(models.LocalID(time.Unix(0, int64(i))), "x")))
		}(i)
	}
	wg.Wait()

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 25)
}

type failingStore struct {
	kv.Store
	err error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }
func (f failingStore) Update(context.Context, string, func([]byte) ([]byte, error)) error {
	return f.err
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	boom := errors.New("disk full")
	m := New(failingStore{err: boom}, logging.NewNopLogger())
	ctx := context.Background()

	got, err := m.Load(ctx)
	require.ErrorIs(t, err, boom)
	assert.NotNil(t, got)

	require.ErrorIs(t, m.Replace(ctx, nil), boom)
	require.ErrorIs(t, m.Append(ctx, entry("1", "x")), boom)

	_, err = m.Remove(ctx, "1")
	require.ErrorIs(t, err, boom)
}
