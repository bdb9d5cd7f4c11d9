package scanner

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestTrimFolders(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "flat.mkv"), 10)
	touch(t, filepath.Join(root, "Show.S01E05.1080p-GRP", "Show.S01E05.mkv"), 10)
	touch(t, filepath.Join(root, "Show.S01E05.1080p-GRP", "show-sample.mkv"), 10)
	touch(t, filepath.Join(root, "Show.S01E05.1080p-GRP", "info.nfo"), 10)
	touch(t, filepath.Join(root, "empty-after", "nested", "ep.mp4"), 10)

	moved, err := TrimFolders(root, discardLogger())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "Show.S01E05.mkv"),
		filepath.Join(root, "ep.mp4"),
	}, moved)

	// Hoisted files exist at the root, flat file untouched
	assert.FileExists(t, filepath.Join(root, "Show.S01E05.mkv"))
	assert.FileExists(t, filepath.Join(root, "ep.mp4"))
	assert.FileExists(t, filepath.Join(root, "flat.mkv"))

	// The emptied tree is pruned, the folder with leftovers is kept
	assert.NoDirExists(t, filepath.Join(root, "empty-after"))
	assert.DirExists(t, filepath.Join(root, "Show.S01E05.1080p-GRP"))
	assert.FileExists(t, filepath.Join(root, "Show.S01E05.1080p-GRP", "info.nfo"))
}

func TestTrimFolders_Collision(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "episode.mkv"), 10)
	touch(t, filepath.Join(root, "Release.Folder", "episode.mkv"), 10)

	moved, err := TrimFolders(root, discardLogger())
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, filepath.Join(root, "Release.Folder - episode.mkv"), moved[0])
	assert.FileExists(t, filepath.Join(root, "episode.mkv"))
}

func TestTrimFolders_DoubleCollision(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "episode.mkv"), 10)
	touch(t, filepath.Join(root, "Release.Folder - episode.mkv"), 10)
	touch(t, filepath.Join(root, "Release.Folder", "episode.mkv"), 10)

	moved, err := TrimFolders(root, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, moved)

	// The stuck file stays where it was
	assert.FileExists(t, filepath.Join(root, "Release.Folder", "episode.mkv"))
}

func TestTrimFolders_NothingNested(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "flat.mkv"), 10)

	moved, err := TrimFolders(root, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, moved)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
