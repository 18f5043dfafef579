package pipeline

import (
	"context"

	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/nyuu"
	"github.com/nzbmule/nzbmule/internal/parpar"
	"github.com/nzbmule/nzbmule/internal/rawpost"
)

// Generator produces the PAR2 set for one candidate.
type Generator interface {
	Generate(ctx context.Context, file string) (*parpar.Result, error)
}

// Poster uploads one candidate with its PAR2 set and resubmits raw articles.
type Poster interface {
	Post(ctx context.Context, file string, par2files []string) (*nyuu.Result, error)
	RepostRaw(ctx context.Context, article string) (*nyuu.Result, error)
}

// Ledger is the resume store consulted before and updated after posting.
type Ledger interface {
	IsRecorded(ctx context.Context, scope common.Scope, path string) (bool, error)
	FilterUnrecorded(ctx context.Context, scope common.Scope, paths []string) ([]string, error)
	Record(ctx context.Context, scope common.Scope, path string) error
	Clear(ctx context.Context, scope common.Scope) (int64, error)
}

// Discoverer produces the ordered candidate list for the run.
type Discoverer interface {
	Discover() ([]string, error)
}

// DiscoverFunc adapts a function to the Discoverer interface.
type DiscoverFunc func() ([]string, error)

func (f DiscoverFunc) Discover() ([]string, error) { return f() }

// Mover sorts loose files into per-title directories.
type Mover interface {
	Move(files []string) error
}

// MoveFunc adapts a function to the Mover interface.
type MoveFunc func(files []string) error

func (f MoveFunc) Move(files []string) error { return f(files) }

// ArtifactLocator maps candidates to PAR2 sets already on disk, for runs
// that post without generating.
type ArtifactLocator interface {
	Locate(files []string) (map[string][]string, error)
}

// LocateFunc adapts a function to the ArtifactLocator interface.
type LocateFunc func(files []string) (map[string][]string, error)

func (f LocateFunc) Locate(files []string) (map[string][]string, error) { return f(files) }

// Stage labels for Observer.BatchStarted.
const (
	StageRaw      = "raw"
	StageGenerate = "parpar"
	StagePost     = "nyuu"
	StageUpload   = "parpar+nyuu"
)

// Observer receives progress events as a run advances. Implementations run
// on the pipeline goroutine and must not block.
type Observer interface {
	// BatchStarted announces the stage about to run and how many items it
	// will process.
	BatchStarted(stage string, total int)
	// FileFinished reports one candidate's outcome, including defensive
	// skips (Skipped set, not part of the Report).
	FileFinished(outcome FileOutcome)
	// ArticleFinished reports one raw article's recovery outcome.
	ArticleFinished(outcome rawpost.ArticleOutcome)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) BatchStarted(string, int) {}

func (NopObserver) FileFinished(FileOutcome) {}

func (NopObserver) ArticleFinished(rawpost.ArticleOutcome) {}
