package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TrimFolders moves video files found in subdirectories of root up to root
// itself and prunes directories left empty. Sonarr's downloaded-episodes
// scan then sees flat files instead of stale release folders.
// Returns the paths of the moved files at their new location.
func TrimFolders(root string, log *slog.Logger) ([]string, error) {
	nested, err := findNestedVideos(root)
	if err != nil {
		return nil, err
	}

	var moved []string
	for _, src := range nested {
		dest := filepath.Join(root, filepath.Base(src))

		// On collision, prefix with the release folder name
		if _, err := os.Stat(dest); err == nil {
			parent := filepath.Base(filepath.Dir(src))
			dest = filepath.Join(root, parent+" - "+filepath.Base(src))
			if _, err := os.Stat(dest); err == nil {
				log.Warn("trim skipped, destination exists", "src", src, "dest", dest)
				continue
			}
		}

		if err := os.Rename(src, dest); err != nil {
			return moved, fmt.Errorf("move %s: %w", src, err)
		}
		log.Debug("hoisted video", "src", src, "dest", dest)
		moved = append(moved, dest)
	}

	if err := pruneEmptyDirs(root); err != nil {
		return moved, err
	}

	return moved, nil
}

// findNestedVideos returns video files strictly below the root directory.
func findNestedVideos(root string) ([]string, error) {
	var nested []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !IsVideoFile(path) {
			return nil
		}
		if strings.Contains(strings.ToLower(info.Name()), "sample") {
			return nil
		}
		if filepath.Dir(path) != filepath.Clean(root) {
			nested = append(nested, path)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return nested, nil
}

// pruneEmptyDirs removes empty directories below root, deepest first.
// Directories still holding clutter (nfo files, samples) are left alone.
func pruneEmptyDirs(root string) error {
	var dirs []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && path != filepath.Clean(root) {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory: %w", err)
	}

	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) > strings.Count(dirs[j], string(filepath.Separator))
	})

	for _, dir := range dirs {
		// Remove fails on non-empty directories, which is the check we want
		_ = os.Remove(dir)
	}
	return nil
}
