// Package app wires configuration, the resume ledger, the tool adapters and
// the pipeline into one nzbmule CLI run, and owns process-level concerns:
// signal handling, the console summary, and the exit code.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nzbmule/nzbmule/internal/buildinfo"
	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/config"
	"github.com/nzbmule/nzbmule/internal/filex"
	"github.com/nzbmule/nzbmule/internal/ledger"
	"github.com/nzbmule/nzbmule/internal/logging"
	"github.com/nzbmule/nzbmule/internal/nyuu"
	"github.com/nzbmule/nzbmule/internal/parpar"
	"github.com/nzbmule/nzbmule/internal/pipeline"
	"github.com/nzbmule/nzbmule/internal/scan"
)

// Process exit codes. Informational terminations (nothing to do, already
// uploaded) exit zero; per-item failures and cancellation exit one;
// configuration and storage faults exit two.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitConfig = 2
)

// App runs one invocation of the CLI.
type App struct {
	cfg  *config.Config
	opts *config.Options
	out  io.Writer
	errw io.Writer
	log  logging.Logger
}

func New(cfg *config.Config, opts *config.Options) *App {
	return &App{cfg: cfg, opts: opts, out: os.Stdout, errw: os.Stderr}
}

// initSignalHandler turns SIGINT/SIGTERM/SIGQUIT into context cancellation,
// so an interrupt stops the run between items instead of tearing the
// process down mid-write.
func (a *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}

// Run executes the requested mode and returns the process exit code.
func (a *App) Run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.initSignalHandler(cancel)

	a.log = logging.NewTextLogger(a.errw, a.opts.Debug)
	a.log.Debug(ctx, "starting", "version", buildinfo.Version())

	report, err := a.run(ctx)

	if report != nil && (err == nil || errors.Is(err, common.ErrCancelled)) {
		a.printSummary(report)
	}

	switch {
	case errors.Is(err, common.ErrCancelled):
		fmt.Fprintln(a.errw, "cancelled")
		return ExitFailed
	case err != nil:
		fmt.Fprintf(a.errw, "error: %v\n", err)
		return ExitConfig
	case !report.AllSucceeded():
		return ExitFailed
	default:
		return ExitOK
	}
}

func (a *App) run(ctx context.Context) (*pipeline.Report, error) {
	mode, err := pipeline.ResolveMode(pipeline.ModeFlags{
		OnlyParPar:  a.opts.OnlyParPar,
		OnlyNyuu:    a.opts.OnlyNyuu,
		OnlyRaw:     a.opts.OnlyRaw,
		SkipRaw:     a.opts.SkipRaw,
		ClearRaw:    a.opts.ClearRaw,
		ClearResume: a.opts.ClearResume,
		OnlyMove:    a.opts.OnlyMove,
	})
	if err != nil {
		return nil, err
	}

	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	scope := common.ScopePrivate
	if a.opts.Public {
		scope = common.ScopePublic
	}
	nyuuConf := a.cfg.NyuuConfig(scope)

	rawDir, err := config.DumpFailedPosts(nyuuConf)
	if err != nil {
		return nil, err
	}

	input, err := a.resolveInput(mode)
	if err != nil {
		return nil, err
	}

	workDir := a.cfg.WorkDir()
	// Isolated generate or post runs leave their artifacts next to the
	// input files; a temp dir would strand them for the follow-up run.
	if mode == pipeline.OnlyGenerate || mode == pipeline.OnlyPost {
		workDir = ""
	}
	if workDir != "" {
		if err := filex.EnsureDir(workDir); err != nil {
			return nil, fmt.Errorf("creating working directory: %w", err)
		}
	}

	a.log.Info(ctx, "poster", "bin", a.cfg.NyuuBin, "config", nyuuConf, "scope", scope)
	a.log.Info(ctx, "generator", "bin", a.cfg.ParParBin)
	a.log.Info(ctx, "nzb output", "dir", a.cfg.NZBOutputDir)
	a.log.Info(ctx, "raw articles", "dir", rawDir)
	a.log.Info(ctx, "appdata", "dir", a.cfg.AppDataDir)
	if workDir != "" {
		a.log.Info(ctx, "workdir", "dir", workDir)
	}
	switch {
	case a.opts.BDMV || len(a.opts.Glob) > 0:
		a.log.Info(ctx, "discovery", "patterns", a.opts.Glob, "bdmv", a.opts.BDMV)
	default:
		a.log.Info(ctx, "discovery", "extensions", a.cfg.Extensions)
	}

	led, err := a.openLedger(ctx, mode)
	if err != nil {
		return nil, err
	}
	defer led.Close()

	clearScope := common.Scope("")
	if a.cfg.ScopedResumeClear {
		clearScope = scope
	}

	deps := pipeline.Deps{
		Generator: &parpar.Runner{
			Bin:     a.cfg.ParParBin,
			Args:    a.cfg.ParParArgs,
			WorkDir: workDir,
			Capture: !a.opts.Debug,
			Log:     a.log,
		},
		Poster: &nyuu.Runner{
			RootDir:    input,
			Bin:        a.cfg.NyuuBin,
			Config:     nyuuConf,
			WorkDir:    workDir,
			OutDir:     a.cfg.NZBOutputDir,
			Scope:      scope,
			BDMVNaming: a.opts.BDMV,
			DeletePar2: a.cfg.DeletePar2OnSuccess,
			Capture:    !a.opts.Debug,
			Log:        a.log,
		},
		Ledger:   led,
		Discover: a.discoverer(input),
		Move:     pipeline.MoveFunc(scan.MoveIntoNamedDirs),
		Locate:   pipeline.LocateFunc(scan.LocatePar2),
		Observer: a.observer(),
		Log:      a.log,
	}
	if a.opts.Move {
		deps.Rediscover = a.extensionDiscoverer(input)
	}

	p, err := pipeline.New(pipeline.Config{
		Scope:            scope,
		Mode:             mode,
		RawDir:           rawDir,
		MoveThenContinue: a.opts.Move,
		ResumeClearScope: clearScope,
	}, deps)
	if err != nil {
		return nil, err
	}

	return p.Run(ctx)
}

// modeNeedsInput reports whether the mode processes candidate files at all.
// Raw-article and ledger housekeeping runs work without an input path.
func modeNeedsInput(mode pipeline.Mode) bool {
	switch mode {
	case pipeline.ClearRaw, pipeline.ClearResume, pipeline.OnlyRaw:
		return false
	}
	return true
}

func (a *App) resolveInput(mode pipeline.Mode) (string, error) {
	if a.opts.Path == "" {
		if modeNeedsInput(mode) {
			return "", errors.New("an input path is required")
		}
		return "", nil
	}

	abs, err := filepath.Abs(a.opts.Path)
	if err != nil {
		return "", fmt.Errorf("resolving input path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("input path: %w", err)
	}
	return abs, nil
}

// closableLedger is what openLedger hands back: the pipeline-facing store
// plus its Close.
type closableLedger interface {
	pipeline.Ledger
	Close() error
}

func (a *App) openLedger(ctx context.Context, mode pipeline.Mode) (closableLedger, error) {
	if a.opts.NoResume {
		a.log.Info(ctx, "resume ledger bypassed for this run")
		return ledger.Disabled{}, nil
	}
	if mode == pipeline.ClearRaw {
		// Clear-raw never consults the ledger; do not create the database
		// as a side effect.
		return ledger.Disabled{}, nil
	}
	return ledger.Open(ctx, filepath.Join(a.cfg.AppDataDir, "resume.db"))
}

// discoverer picks the candidate strategy for the run: a literal file, disc
// directories, glob matches, or an extension walk.
func (a *App) discoverer(input string) pipeline.Discoverer {
	return pipeline.DiscoverFunc(func() ([]string, error) {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("input path: %w", err)
		}
		switch {
		case !info.IsDir():
			return []string{input}, nil
		case a.opts.BDMV:
			return scan.BDMVDiscs(input, a.opts.Glob)
		case len(a.opts.Glob) > 0:
			return scan.GlobMatches(input, a.opts.Glob)
		default:
			return scan.Files(input, a.cfg.Extensions)
		}
	})
}

// extensionDiscoverer always walks by extension. After a move-then-continue
// pass the files sit in fresh subdirectories that the original glob or
// literal path may no longer match.
func (a *App) extensionDiscoverer(input string) pipeline.Discoverer {
	return pipeline.DiscoverFunc(func() ([]string, error) {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("input path: %w", err)
		}
		if !info.IsDir() {
			return []string{input}, nil
		}
		return scan.Files(input, a.cfg.Extensions)
	})
}

func (a *App) observer() pipeline.Observer {
	// Debug runs stream tool output directly; a progress line would just
	// interleave with it.
	if a.opts.Debug {
		return pipeline.NopObserver{}
	}
	return newConsoleObserver(a.out)
}

func (a *App) printSummary(report *pipeline.Report) {
	switch report.Reason {
	case pipeline.ReasonCompleted:
		succeeded, failed := report.Succeeded(), report.Failed()
		fmt.Fprintf(a.out, "completed: %d succeeded, %d failed\n", len(succeeded), len(failed))
		for _, item := range failed {
			fmt.Fprintf(a.out, "  failed: %s\n", filepath.Base(item))
		}
	case pipeline.ReasonRawCleared:
		fmt.Fprintf(a.out, "deleted %d raw article(s)\n", report.RawCleared)
	case pipeline.ReasonResumeCleared:
		fmt.Fprintf(a.out, "cleared %d resume entries\n", report.ResumeCleared)
	default:
		fmt.Fprintln(a.out, string(report.Reason))
	}
}
