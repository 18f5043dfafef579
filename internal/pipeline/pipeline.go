package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/logging"
	"github.com/nzbmule/nzbmule/internal/rawpost"
	"github.com/nzbmule/nzbmule/internal/scan"
)

// Config carries the per-run settings the pipeline acts on.
type Config struct {
	Scope common.Scope
	Mode  Mode

	// RawDir is the poster's dump directory for raw articles, taken from
	// the poster's own configuration.
	RawDir string

	// MoveThenContinue sorts files into per-title directories before
	// uploading. It composes with any uploading mode.
	MoveThenContinue bool

	// ResumeClearScope restricts ClearResume to one scope. Empty wipes
	// every scope.
	ResumeClearScope common.Scope
}

// Deps are the collaborators a run drives. Generator, Poster and Ledger are
// the stage adapters; Discover, Move and Locate supply and shuffle the
// candidate list; Observer watches progress.
type Deps struct {
	Generator Generator
	Poster    Poster
	Ledger    Ledger
	Discover  Discoverer
	// Rediscover runs after a move-then-continue pass, when the moved files
	// sit at paths the original strategy may no longer match. Nil falls
	// back to Discover.
	Rediscover Discoverer
	Move       Mover
	Locate     ArtifactLocator
	Observer   Observer
	Log        logging.Logger
}

// Pipeline is a single-use orchestrator for one run.
type Pipeline struct {
	cfg  Config
	deps Deps
}

// New checks that the collaborators the requested mode relies on are
// present. A nil Observer is replaced with NopObserver.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if deps.Log == nil {
		return nil, errors.New("pipeline: logger is required")
	}
	if deps.Observer == nil {
		deps.Observer = NopObserver{}
	}

	required := map[string]bool{}
	switch cfg.Mode {
	case ClearRaw:
	case ClearResume:
		required["ledger"] = deps.Ledger == nil
	case OnlyRaw:
		required["poster"] = deps.Poster == nil
	case OnlyMove:
		required["discoverer"] = deps.Discover == nil
		required["mover"] = deps.Move == nil
	case OnlyGenerate:
		required["discoverer"] = deps.Discover == nil
		required["generator"] = deps.Generator == nil
		required["ledger"] = deps.Ledger == nil
	case OnlyPost:
		required["discoverer"] = deps.Discover == nil
		required["poster"] = deps.Poster == nil
		required["ledger"] = deps.Ledger == nil
		required["artifact locator"] = deps.Locate == nil
	default: // Default, SkipRaw
		required["discoverer"] = deps.Discover == nil
		required["generator"] = deps.Generator == nil
		required["poster"] = deps.Poster == nil
		required["ledger"] = deps.Ledger == nil
	}
	if cfg.MoveThenContinue {
		required["mover"] = required["mover"] || deps.Move == nil
	}
	for name, missing := range required {
		if missing {
			return nil, fmt.Errorf("pipeline: %s mode needs a %s", cfg.Mode, name)
		}
	}

	return &Pipeline{cfg: cfg, deps: deps}, nil
}

// Run executes the configured mode and returns the aggregated Report. The
// Report is returned even on error so partial outcomes stay observable;
// a cancelled run wraps common.ErrCancelled.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:  uuid.NewString(),
		Scope:  p.cfg.Scope,
		Mode:   p.cfg.Mode,
		Reason: ReasonCompleted,
	}

	// Clearing modes short-circuit everything else.
	if p.cfg.Mode == ClearRaw {
		n, err := rawpost.Clear(p.cfg.RawDir)
		if err != nil {
			return report, err
		}
		report.RawCleared = n
		report.Reason = ReasonRawCleared
		p.deps.Log.Info(ctx, "cleared raw articles", "count", n)
		return report, nil
	}
	if p.cfg.Mode == ClearResume {
		n, err := p.deps.Ledger.Clear(ctx, p.cfg.ResumeClearScope)
		if err != nil {
			return report, err
		}
		report.ResumeCleared = n
		report.Reason = ReasonResumeCleared
		p.deps.Log.Info(ctx, "cleared resume ledger", "entries", n, "scope", p.cfg.ResumeClearScope)
		return report, nil
	}

	// Raw articles are listed up front; OnlyRaw and Default consume them.
	articles, err := rawpost.Pending(p.cfg.RawDir)
	if err != nil {
		return report, err
	}

	if p.cfg.Mode == OnlyRaw {
		if len(articles) == 0 {
			report.Reason = ReasonNoRawArticles
			p.deps.Log.Info(ctx, "no raw articles available for reposting")
			return report, nil
		}
		return report, p.recoverRaw(ctx, report, articles)
	}

	files, err := p.discover()
	if err != nil {
		return report, err
	}
	if len(files) == 0 {
		report.Reason = ReasonNoFiles
		p.deps.Log.Info(ctx, "no matching files found")
		return report, nil
	}

	if p.cfg.Mode == OnlyMove {
		if err := p.deps.Move.Move(files); err != nil {
			return report, err
		}
		report.Reason = ReasonMoved
		p.deps.Log.Info(ctx, "moved files into per-title directories", "count", len(files))
		return report, nil
	}

	if p.cfg.MoveThenContinue {
		if err := p.deps.Move.Move(files); err != nil {
			return report, err
		}
		p.deps.Log.Info(ctx, "moved files into per-title directories", "count", len(files))

		// The move changed every path; discover again.
		files, err = p.rediscover()
		if err != nil {
			return report, err
		}
	}

	files = scan.FilterEmpty(files)
	if len(files) == 0 {
		report.Reason = ReasonAllEmpty
		p.deps.Log.Info(ctx, "matching files are all empty or hold only zero-byte payloads")
		return report, nil
	}

	files, err = p.deps.Ledger.FilterUnrecorded(ctx, p.cfg.Scope, files)
	if err != nil {
		return report, err
	}
	if len(files) == 0 {
		report.Reason = ReasonAllRecorded
		p.deps.Log.Info(ctx, "matching files were all uploaded before; use -no-resume to force")
		return report, nil
	}

	switch p.cfg.Mode {
	case OnlyGenerate:
		return report, p.generateOnly(ctx, report, files)
	case OnlyPost:
		return report, p.postOnly(ctx, report, files)
	case SkipRaw:
		p.deps.Log.Warn(ctx, "raw article checking and reposting is being skipped")
		return report, p.uploadAll(ctx, report, files)
	default: // Default
		if len(articles) > 0 {
			p.deps.Log.Info(ctx, "found raw articles, attempting repost", "count", len(articles))
			if err := p.recoverRaw(ctx, report, articles); err != nil {
				return report, err
			}
		}
		return report, p.uploadAll(ctx, report, files)
	}
}

// discover pulls the candidate list and strips generator artifacts from it.
// Running the generator against its own artifact is invalid.
func (p *Pipeline) discover() ([]string, error) {
	files, err := p.deps.Discover.Discover()
	if err != nil {
		return nil, err
	}
	return scan.FilterPar2(files), nil
}

func (p *Pipeline) rediscover() ([]string, error) {
	d := p.deps.Rediscover
	if d == nil {
		d = p.deps.Discover
	}
	files, err := d.Discover()
	if err != nil {
		return nil, err
	}
	return scan.FilterPar2(files), nil
}

// recoverRaw reposts the pending raw articles, appending outcomes to the
// report as recovery proceeds. Per-article failures do not stop it.
func (p *Pipeline) recoverRaw(ctx context.Context, report *Report, articles []string) error {
	p.deps.Observer.BatchStarted(StageRaw, len(articles))

	outcomes, err := rawpost.RecoverAll(ctx, p.deps.Poster, articles, func(o rawpost.ArticleOutcome) {
		name := filepath.Base(o.Article)
		switch {
		case o.Err != nil:
			p.deps.Log.Error(ctx, "raw repost could not run", "article", name, "error", o.Err)
		case o.Success():
			p.deps.Log.Info(ctx, "reposted raw article", "article", name)
		default:
			p.deps.Log.Error(ctx, "raw repost failed", "article", name, "exit_code", o.Result.ExitCode)
		}
		p.deps.Observer.ArticleFinished(o)
	})
	report.Articles = append(report.Articles, outcomes...)
	return err
}

// skipRecorded re-checks the ledger right before a candidate is processed.
// The initial filter ran at startup; a concurrent run may have finished the
// file since.
func (p *Pipeline) skipRecorded(ctx context.Context, file string) (bool, error) {
	done, err := p.deps.Ledger.IsRecorded(ctx, p.cfg.Scope, file)
	if err != nil || !done {
		return false, err
	}
	p.deps.Log.Info(ctx, "skipping, already uploaded", "file", filepath.Base(file))
	p.deps.Observer.FileFinished(FileOutcome{File: file, Skipped: true})
	return true, nil
}

// record persists one completed upload. Storage faults are fatal: without
// the record a later run would upload the file again.
func (p *Pipeline) record(ctx context.Context, file string) error {
	return p.deps.Ledger.Record(ctx, p.cfg.Scope, file)
}

func (p *Pipeline) generateOnly(ctx context.Context, report *Report, files []string) error {
	p.deps.Observer.BatchStarted(StageGenerate, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", common.ErrCancelled, err)
		}
		if skip, err := p.skipRecorded(ctx, file); err != nil {
			return err
		} else if skip {
			continue
		}

		res, err := p.deps.Generator.Generate(ctx, file)
		out := FileOutcome{File: file, Generate: res, Err: err}
		report.Files = append(report.Files, out)
		p.logFileOutcome(ctx, out)
		p.deps.Observer.FileFinished(out)
	}
	return nil
}

func (p *Pipeline) postOnly(ctx context.Context, report *Report, files []string) error {
	pars, err := p.deps.Locate.Locate(files)
	if err != nil {
		return err
	}

	p.deps.Observer.BatchStarted(StagePost, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", common.ErrCancelled, err)
		}
		if skip, err := p.skipRecorded(ctx, file); err != nil {
			return err
		} else if skip {
			continue
		}

		res, postErr := p.deps.Poster.Post(ctx, file, pars[file])
		out := FileOutcome{File: file, Post: res, Err: postErr}
		report.Files = append(report.Files, out)

		if out.Success() {
			if err := p.record(ctx, file); err != nil {
				return err
			}
		}
		p.logFileOutcome(ctx, out)
		p.deps.Observer.FileFinished(out)
	}
	return nil
}

// uploadAll is the generate-then-post loop shared by Default and SkipRaw.
func (p *Pipeline) uploadAll(ctx context.Context, report *Report, files []string) error {
	p.deps.Observer.BatchStarted(StageUpload, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", common.ErrCancelled, err)
		}
		if skip, err := p.skipRecorded(ctx, file); err != nil {
			return err
		} else if skip {
			continue
		}

		genRes, genErr := p.deps.Generator.Generate(ctx, file)
		if genErr != nil {
			p.deps.Log.Error(ctx, "generator could not run", "file", filepath.Base(file), "error", genErr)
		}

		// An interrupt during generation must not roll into a post. The
		// interrupted file counts as failed: it was never posted.
		if err := ctx.Err(); err != nil {
			cancelErr := fmt.Errorf("%w: %w", common.ErrCancelled, err)
			report.Files = append(report.Files, FileOutcome{File: file, Generate: genRes, Err: cancelErr})
			return cancelErr
		}

		// Posting goes ahead even when generation failed: the poster
		// tolerates a partial or missing PAR2 set, and the outcome is
		// classified by the posting exit code alone.
		var par2files []string
		if genRes != nil {
			par2files = genRes.Par2Files
		}
		res, postErr := p.deps.Poster.Post(ctx, file, par2files)
		out := FileOutcome{File: file, Generate: genRes, Post: res, Err: postErr}
		report.Files = append(report.Files, out)

		if out.Success() {
			if err := p.record(ctx, file); err != nil {
				return err
			}
		}
		p.logFileOutcome(ctx, out)
		p.deps.Observer.FileFinished(out)
	}
	return nil
}

func (p *Pipeline) logFileOutcome(ctx context.Context, out FileOutcome) {
	name := filepath.Base(out.File)
	switch {
	case out.Err != nil:
		p.deps.Log.Error(ctx, "processing failed", "file", name, "error", out.Err)
	case out.Success():
		p.deps.Log.Info(ctx, "done", "file", name)
	case out.Post != nil:
		p.deps.Log.Error(ctx, "post failed", "file", name, "exit_code", out.Post.ExitCode)
	case out.Generate != nil:
		p.deps.Log.Error(ctx, "par2 generation failed", "file", name, "exit_code", out.Generate.ExitCode)
	}
}
