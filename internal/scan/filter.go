package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nzbmule/nzbmule/internal/filex"
	"github.com/nzbmule/nzbmule/internal/parpar"
)

// FilterPar2 drops generator artifacts from a candidate list. Running the
// generator against its own artifact is invalid, and artifacts slip into
// glob and extension matches easily.
func FilterPar2(files []string) []string {
	kept := make([]string, 0, len(files))
	for _, f := range files {
		if !parpar.IsPar2(f) {
			kept = append(kept, f)
		}
	}
	return kept
}

// FilterEmpty drops candidates with no payload to post: zero-byte files,
// directories containing no non-empty file, and paths that cannot be
// read at all.
func FilterEmpty(files []string) []string {
	kept := make([]string, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		switch {
		case info.IsDir():
			if !dirEmpty(f) {
				kept = append(kept, f)
			}
		case info.Mode().IsRegular() && info.Size() > 0:
			kept = append(kept, f)
		}
	}
	return kept
}

// dirEmpty reports whether dir holds no regular file with payload.
// Unreadable trees count as empty.
func dirEmpty(dir string) bool {
	empty := true
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() && info.Size() > 0 {
			empty = false
			return fs.SkipAll
		}
		return nil
	})
	return empty
}

// MoveIntoNamedDirs moves each plain file into a sibling directory named
// after the file's stem, preparing loose files for per-title upload:
//
//	/data/ep.mkv -> /data/ep/ep.mkv
//
// Directory candidates are left alone. Failures are collected per file and
// the rest still move.
func MoveIntoNamedDirs(files []string) error {
	var errs []error
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if info.IsDir() {
			continue
		}

		name := filepath.Base(f)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		dir := filepath.Join(filepath.Dir(f), stem)
		if err := filex.EnsureDir(dir); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := filex.Move(f, filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("moving %s: %w", f, err))
		}
	}
	return errors.Join(errs...)
}

// LocatePar2 maps each candidate to the PAR2 set already sitting next to
// it, for runs that post without generating first. Files with no set map
// to an empty slice.
func LocatePar2(files []string) (map[string][]string, error) {
	pars := make(map[string][]string, len(files))
	for _, f := range files {
		found, err := parpar.FindArtifacts(filepath.Dir(f), filepath.Base(f))
		if err != nil {
			return nil, err
		}
		pars[f] = found
	}
	return pars, nil
}
