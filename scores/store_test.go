package scores_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/scores"
)

func openStore(t *testing.T) *scores.Store {
	t.Helper()
	st, err := scores.Open(filepath.Join(t.TempDir(), "nested", "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestEmptyStore(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	best, err := st.Best(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(0), best)

	top, err := st.Top(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestRecordAndTop(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)

	entries := []scores.Entry{
		{ID: uuid.New(), Score: 3, Lines: 3, Pieces: 20, Ticks: 900, PlayedAt: base},
		{ID: uuid.New(), Score: 7, Lines: 7, Pieces: 41, Ticks: 2000, PlayedAt: base.Add(time.Minute)},
		{ID: uuid.New(), Score: 3, Lines: 3, Pieces: 18, Ticks: 800, PlayedAt: base.Add(2 * time.Minute)},
		{ID: uuid.New(), Score: 1, Lines: 1, Pieces: 9, Ticks: 300, PlayedAt: base.Add(3 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, st.Record(ctx, e))
	}

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	best, err := st.Best(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(7), best)

	top, err := st.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, entries[1].ID, top[0].ID)
	assert.Equal(t, entries[0].ID, top[1].ID, "ties go to the earlier session")
	assert.Equal(t, entries[2].ID, top[2].ID)

	assert.Equal(t, 41, top[0].Pieces)
	assert.Equal(t, uint64(2000), top[0].Ticks)
	assert.True(t, entries[1].PlayedAt.Equal(top[0].PlayedAt))
}

func TestRecordRejectsDuplicatesAndMissingID(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	assert.Error(t, st.Record(ctx, scores.Entry{Score: 1}))

	e := scores.Entry{ID: uuid.New(), Score: 2, PlayedAt: time.Now()}
	require.NoError(t, st.Record(ctx, e))
	assert.Error(t, st.Record(ctx, e))
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	ctx := context.Background()

	st, err := scores.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Record(ctx, scores.Entry{ID: uuid.New(), Score: 12, PlayedAt: time.Now()}))
	require.NoError(t, st.Close())

	st, err = scores.Open(path)
	require.NoError(t, err)
	defer st.Close()
	best, err := st.Best(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(12), best)
}

func TestEntryFor(t *testing.T) {
	s, err := game.NewSession(game.DefaultConfig(), game.WithGenerator(piece.NewSequence(piece.O)))
	require.NoError(t, err)
	s.Tick(game.CommandHardDrop, false)

	at := time.Now()
	e := scores.EntryFor(s, at)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, uint(0), e.Score)
	assert.Equal(t, 1, e.Pieces)
	assert.Equal(t, uint64(1), e.Ticks)
	assert.Equal(t, at, e.PlayedAt)
}
