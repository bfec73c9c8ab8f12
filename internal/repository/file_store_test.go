package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaremchuk/theatre-boxoffice/internal/model"
)

func sampleState(t *testing.T) *SeanceState {
	t.Helper()
	st := NewSeanceState()
	st.SeatStatuses["parter:1:1"] = model.Place{
		Status:    model.StatusSold,
		Channel:   "boxoffice",
		Price:     150,
		UpdatedAt: time.Date(2025, 12, 28, 15, 0, 0, 0, time.UTC),
	}
	st.SeatStatuses["balcony:2:3"] = model.Place{
		Status:  model.StatusReserved,
		Subject: "Іваненко",
		Price:   100,
	}
	st.Reservations = []model.Reservation{{
		ID:      "r1",
		Subject: "Іваненко",
		Seats:   []model.Seat{{KeyString: "balcony:2:3", Num: 3, Price: 100}},
		Total:   100,
	}}
	return st
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "visim-2025-12-28", sampleState(t)))

	got, err := store.Load(ctx, "visim-2025-12-28")
	require.NoError(t, err)
	assert.Equal(t, model.StatusSold, got.SeatStatuses["parter:1:1"].Status)
	assert.Equal(t, "Іваненко", got.SeatStatuses["balcony:2:3"].Subject)
	require.Len(t, got.Reservations, 1)
	assert.Equal(t, 100, got.Reservations[0].Total)
}

func TestFileStoreMissingSeance(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "never-saved")
	assert.ErrorIs(t, err, ErrSeanceStateNotFound)
}

func TestFileStoreRejectsUnsafeIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"../escape", "a/b", ""} {
		_, err := store.Load(ctx, id)
		assert.Error(t, err, "id=%q", id)
		assert.NotErrorIs(t, err, ErrSeanceStateNotFound)
		assert.Error(t, store.Save(ctx, id, NewSeanceState()))
	}
}

func TestFileStoreSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", sampleState(t)))
	empty := NewSeanceState()
	require.NoError(t, store.Save(ctx, "s1", empty))

	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.SeatStatuses)
	assert.Empty(t, got.Reservations)

	// No stray temp files left behind.
	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	_, err = store.Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSeanceStateNotFound)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, ErrSeanceStateNotFound)

	require.NoError(t, store.Save(ctx, "s1", sampleState(t)))
	got, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.SeatStatuses, 2)

	// The stored copy is decoupled from the caller's value.
	got.SeatStatuses["parter:9:9"] = model.Place{Status: model.StatusSold}
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, again.SeatStatuses, 2)
}
