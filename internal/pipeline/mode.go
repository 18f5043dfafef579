package pipeline

import (
	"fmt"
	"strings"

	"github.com/nzbmule/nzbmule/internal/common"
)

// Mode selects which stages of a run execute.
type Mode int

const (
	// Default recovers pending raw articles, then generates and posts every
	// candidate file.
	Default Mode = iota
	// OnlyGenerate runs the generator per file; nothing is posted and
	// nothing is recorded.
	OnlyGenerate
	// OnlyPost posts each file with whatever PAR2 set already sits next to
	// it, skipping generation.
	OnlyPost
	// OnlyRaw recovers pending raw articles and stops.
	OnlyRaw
	// SkipRaw generates and posts without touching raw articles.
	SkipRaw
	// ClearRaw deletes pending raw articles and stops.
	ClearRaw
	// ClearResume wipes resume ledger entries and stops.
	ClearResume
	// OnlyMove sorts candidate files into per-title directories and stops.
	OnlyMove
)

var modeNames = map[Mode]string{
	Default:      "default",
	OnlyGenerate: "only-parpar",
	OnlyPost:     "only-nyuu",
	OnlyRaw:      "only-raw",
	SkipRaw:      "skip-raw",
	ClearRaw:     "clear-raw",
	ClearResume:  "clear-resume",
	OnlyMove:     "only-move",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ModeFlags mirrors the mutually exclusive command-line switches.
type ModeFlags struct {
	OnlyParPar  bool
	OnlyNyuu    bool
	OnlyRaw     bool
	SkipRaw     bool
	ClearRaw    bool
	ClearResume bool
	OnlyMove    bool
}

// ResolveMode maps the requested switches to a Mode. Requesting more than
// one is a configuration error; the conflicting switches are named in it.
func ResolveMode(f ModeFlags) (Mode, error) {
	requested := []struct {
		on   bool
		mode Mode
	}{
		{f.OnlyParPar, OnlyGenerate},
		{f.OnlyNyuu, OnlyPost},
		{f.OnlyRaw, OnlyRaw},
		{f.SkipRaw, SkipRaw},
		{f.ClearRaw, ClearRaw},
		{f.ClearResume, ClearResume},
		{f.OnlyMove, OnlyMove},
	}

	mode := Default
	var set []string
	for _, r := range requested {
		if r.on {
			mode = r.mode
			set = append(set, r.mode.String())
		}
	}
	if len(set) > 1 {
		return Default, fmt.Errorf("%w: %s", common.ErrModeConflict, strings.Join(set, ", "))
	}
	return mode, nil
}
