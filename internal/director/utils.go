package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// GenerateOutputPath creates a timestamped file name in dir
func GenerateOutputPath(dir, ext string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("phazur_%s%s", timestamp, ext))
}

// Timecode formats a frame as mm:ss.ff
func Timecode(frame, fps int) string {
	sec := frame / fps
	return fmt.Sprintf("%02d:%02d.%02d", sec/60, sec%60, frame%fps)
}

// FindLatestComposition finds the most recent composition file in dir
func FindLatestComposition(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read compositions directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var found []candidate
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, name), mod: info.ModTime()})
	}

	if len(found) == 0 {
		return "", fmt.Errorf("no composition files found in %s", dir)
	}

	// newest first
	sort.Slice(found, func(i, j int) bool {
		return found[i].mod.After(found[j].mod)
	})

	return found[0].path, nil
}
