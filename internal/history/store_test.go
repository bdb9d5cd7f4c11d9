package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "importarr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndSeen(t *testing.T) {
	store := openStore(t)

	e := &Entry{
		Path:      "/downloads/Show.S01E05.mkv",
		SizeBytes: 1000,
		SeriesID:  2,
		Season:    1,
		Episodes:  "5",
		CommandID: 17,
		Outcome:   OutcomeSubmitted,
	}
	require.NoError(t, store.Add(e))
	assert.NotZero(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())

	seen, err := store.Seen("/downloads/Show.S01E05.mkv", 1000)
	require.NoError(t, err)
	assert.True(t, seen)

	// Same path with a different size counts as a new file
	seen, err = store.Seen("/downloads/Show.S01E05.mkv", 2000)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.Seen("/downloads/other.mkv", 1000)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestSeen_FailedDoesNotCount(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Add(&Entry{
		Path:      "/downloads/Show.S01E05.mkv",
		SizeBytes: 1000,
		Outcome:   OutcomeFailed,
	}))

	// Failed submissions are retried on the next pass
	seen, err := store.Seen("/downloads/Show.S01E05.mkv", 1000)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRecent(t *testing.T) {
	store := openStore(t)

	for i, path := range []string{"/d/a.mkv", "/d/b.mkv", "/d/c.mkv"} {
		require.NoError(t, store.Add(&Entry{
			Path:      path,
			SizeBytes: int64(i + 1),
			Outcome:   OutcomeSubmitted,
		}))
	}

	entries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/d/c.mkv", entries[0].Path)
	assert.Equal(t, "/d/b.mkv", entries[1].Path)

	all, err := store.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPrune(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Add(&Entry{Path: "/d/a.mkv", SizeBytes: 1, Outcome: OutcomeSubmitted}))
	require.NoError(t, store.Add(&Entry{Path: "/d/b.mkv", SizeBytes: 2, Outcome: OutcomeSubmitted}))

	// Nothing is old enough yet
	n, err := store.Prune(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	// A zero retention window prunes everything already written
	time.Sleep(10 * time.Millisecond)
	n, err = store.Prune(0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err := store.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "importarr.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	assert.FileExists(t, path)
}
