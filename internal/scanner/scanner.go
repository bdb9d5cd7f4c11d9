// Package scanner finds importable video files under a downloads root.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// videoExtensions are the file extensions treated as video.
var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".mov":  true,
	".wmv":  true,
	".ts":   true,
	".webm": true,
}

// IsVideoFile reports whether the path has a video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// FindVideos walks root and returns video files, sorted by path.
// Sample files and files below minSize bytes are skipped.
func FindVideos(root string, minSize int64) ([]string, error) {
	var videos []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !IsVideoFile(path) {
			return nil
		}

		name := strings.ToLower(info.Name())
		if strings.Contains(name, "sample") {
			return nil
		}
		if minSize > 0 && info.Size() < minSize {
			return nil
		}

		videos = append(videos, path)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	return videos, nil
}

// FileSize returns the size of a file in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
