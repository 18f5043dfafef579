// Package scan discovers candidate files for a run and provides the
// file-tree filters and move helpers the pipeline composes around them.
// Discovery is strategy-shaped: by extension, by glob pattern, by BDMV disc
// structure, or a single literal file, picked by the caller per run.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Files walks root and returns every file whose extension matches exts,
// in lexical order. Extensions are compared case-insensitively and may be
// given with or without the leading dot.
func Files(root string, exts []string) ([]string, error) {
	want := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if _, ok := want[ext]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return files, nil
}

// GlobMatches resolves each pattern relative to root and concatenates the
// matches in pattern order. Matches within one pattern come back sorted.
func GlobMatches(root string, patterns []string) ([]string, error) {
	var matches []string
	for _, pattern := range patterns {
		m, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		matches = append(matches, m...)
	}
	return matches, nil
}

// BDMVDiscs finds Blu-ray disc roots under the folders matching patterns:
// any directory holding a BDMV/index.bdmv is a disc, the disc root being
// the parent of the BDMV directory. Duplicates are dropped, order kept.
// Empty patterns mean every folder directly under root.
func BDMVDiscs(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}
	folders, err := GlobMatches(root, patterns)
	if err != nil {
		return nil, err
	}

	var discs []string
	seen := make(map[string]struct{})
	for _, folder := range folders {
		info, err := os.Stat(folder)
		if err != nil || !info.IsDir() {
			continue
		}
		err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || d.Name() != "index.bdmv" || filepath.Base(filepath.Dir(path)) != "BDMV" {
				return nil
			}
			disc := filepath.Dir(filepath.Dir(path))
			if _, ok := seen[disc]; !ok {
				seen[disc] = struct{}{}
				discs = append(discs, disc)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s for discs: %w", folder, err)
		}
	}
	return discs, nil
}
