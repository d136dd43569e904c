// Package discover locates candidate registry files and extracts
// best-effort (municipality, year, month) metadata from their paths.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MitxelSantos/pai-consolidator/internal/normalize"
)

// Files returns the candidate spreadsheet paths under root, in a stable
// sorted order. The expected layout is root/<year-folder>/<municipality>/
// <file>, but flat files directly under root are accepted too. Files whose
// name contains an exclusion substring (temp files, previous consolidated
// outputs) are dropped.
func Files(root, pattern string, exclude []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", root, err)
	}

	var found []string
	for _, entry := range entries {
		if !entry.IsDir() || !isYearFolder(entry.Name()) {
			continue
		}
		yearDir := filepath.Join(root, entry.Name())
		subEntries, err := os.ReadDir(yearDir)
		if err != nil {
			continue
		}
		for _, sub := range subEntries {
			if !sub.IsDir() {
				continue
			}
			matches, err := filepath.Glob(filepath.Join(yearDir, sub.Name(), pattern))
			if err != nil {
				return nil, fmt.Errorf("glob %s: %w", pattern, err)
			}
			found = append(found, matches...)
		}
	}

	// Flat layout: files directly under root.
	matches, err := filepath.Glob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	found = append(found, matches...)

	var files []string
	for _, path := range found {
		if excluded(filepath.Base(path), exclude) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// isYearFolder recognizes the year-level directories of the registry
// convention: REGISTROS_2025 or any name ending in four digits.
func isYearFolder(name string) bool {
	if strings.HasPrefix(strings.ToUpper(name), "REGISTROS_") {
		return true
	}
	return len(name) >= 4 && allDigits(name[len(name)-4:])
}

func excluded(name string, exclude []string) bool {
	folded := normalize.Fold(name)
	for _, sub := range exclude {
		if sub != "" && strings.Contains(folded, normalize.Fold(sub)) {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
