package pipeline

import (
	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/nyuu"
	"github.com/nzbmule/nzbmule/internal/parpar"
	"github.com/nzbmule/nzbmule/internal/rawpost"
)

// Reason states why a run terminated. Everything except ReasonCompleted is
// an informational early stop, not an error.
type Reason string

const (
	ReasonCompleted     Reason = "completed"
	ReasonNoFiles       Reason = "no matching files"
	ReasonAllEmpty      Reason = "all candidates effectively empty"
	ReasonAllRecorded   Reason = "all candidates already uploaded"
	ReasonNoRawArticles Reason = "no raw articles pending"
	ReasonRawCleared    Reason = "raw articles cleared"
	ReasonResumeCleared Reason = "resume ledger cleared"
	ReasonMoved         Reason = "files moved"
)

// FileOutcome is the per-candidate record of one run. Generate and Post are
// set for the stages that ran; either tool failing shows up in its result,
// while Err covers the adapter not being able to run at all.
type FileOutcome struct {
	File     string
	Generate *parpar.Result
	Post     *nyuu.Result
	Err      error

	// Skipped marks a candidate dropped by the defensive mid-run ledger
	// check. Skipped outcomes go to the Observer only, never the Report.
	Skipped bool
}

// Success classifies the outcome: by the posting result where posting ran,
// by generation alone in generate-only runs.
func (o FileOutcome) Success() bool {
	if o.Err != nil {
		return false
	}
	if o.Post != nil {
		return o.Post.Success
	}
	if o.Generate != nil {
		return o.Generate.Success
	}
	return false
}

// Report aggregates everything one run did, in processing order.
type Report struct {
	RunID  string
	Scope  common.Scope
	Mode   Mode
	Reason Reason

	// RawCleared and ResumeCleared count what the clearing modes removed.
	RawCleared    int
	ResumeCleared int64

	Files    []FileOutcome
	Articles []rawpost.ArticleOutcome
}

// Failed lists the paths of items that were attempted and did not succeed.
func (r *Report) Failed() []string {
	var failed []string
	for _, f := range r.Files {
		if !f.Success() {
			failed = append(failed, f.File)
		}
	}
	for _, a := range r.Articles {
		if !a.Success() {
			failed = append(failed, a.Article)
		}
	}
	return failed
}

// Succeeded lists the paths of items that completed successfully.
func (r *Report) Succeeded() []string {
	var ok []string
	for _, f := range r.Files {
		if f.Success() {
			ok = append(ok, f.File)
		}
	}
	for _, a := range r.Articles {
		if a.Success() {
			ok = append(ok, a.Article)
		}
	}
	return ok
}

// AllSucceeded reports whether no attempted item failed.
func (r *Report) AllSucceeded() bool {
	return len(r.Failed()) == 0
}
