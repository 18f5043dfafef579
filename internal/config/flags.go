package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Options holds per-run switches. Exactly one of the mode switches may be
// set; resolving them into a run mode is the pipeline's job.
type Options struct {
	// Path is the positional input argument: a file, a directory, or the
	// base of a glob/disc search.
	Path string

	Public bool

	OnlyNyuu    bool
	OnlyParPar  bool
	OnlyRaw     bool
	SkipRaw     bool
	ClearRaw    bool
	ClearResume bool
	OnlyMove    bool

	Move     bool
	BDMV     bool
	Glob     []string
	NoResume bool
	Debug    bool
	Version  bool
}

// stringsFlag collects repeated occurrences of a flag into a slice.
type stringsFlag []string

func (s *stringsFlag) String() string { return strings.Join(*s, ",") }

func (s *stringsFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// parseFlags populates Options and selected Config fields from the command
// line.
//
// Supported flags:
//
//	-public          post to the public scope
//	-only-nyuu       post pre-generated files, skip generation
//	-only-parpar     generate redundancy files, skip posting
//	-only-raw        repost failed raw articles and exit
//	-skip-raw        skip raw recovery before the main loop
//	-clear-raw       delete pending raw articles and exit
//	-clear-resume    wipe the resume ledger and exit
//	-only-move       move files into per-file directories and exit
//	-move            move files into per-file directories, then continue
//	-bdmv            treat matches as bundled-disc directories
//	-glob pattern    discover by glob pattern (repeatable)
//	-exts ext        override configured extensions (repeatable)
//	-no-resume       ignore the resume ledger for this run
//	-debug           verbose logging, tool output streamed through
//	-version         print build information and exit
//	-c / -config     config file path (consumed by the YAML stage)
//
// The single positional argument is the input path.
func parseFlags(cfg *Config, opts *Options) error {
	fs := flag.NewFlagSet("nzbmule", flag.ContinueOnError)

	fs.BoolVar(&opts.Public, "public", false, "post to the public scope")
	fs.BoolVar(&opts.OnlyNyuu, "only-nyuu", false, "post pre-generated files, skip generation")
	fs.BoolVar(&opts.OnlyParPar, "only-parpar", false, "generate redundancy files, skip posting")
	fs.BoolVar(&opts.OnlyRaw, "only-raw", false, "repost failed raw articles and exit")
	fs.BoolVar(&opts.SkipRaw, "skip-raw", false, "skip raw recovery before the main loop")
	fs.BoolVar(&opts.ClearRaw, "clear-raw", false, "delete pending raw articles and exit")
	fs.BoolVar(&opts.ClearResume, "clear-resume", false, "wipe the resume ledger and exit")
	fs.BoolVar(&opts.OnlyMove, "only-move", false, "move files into per-file directories and exit")
	fs.BoolVar(&opts.Move, "move", false, "move files into per-file directories, then continue")
	fs.BoolVar(&opts.BDMV, "bdmv", false, "treat matches as bundled-disc directories")
	fs.BoolVar(&opts.NoResume, "no-resume", false, "ignore the resume ledger for this run")
	fs.BoolVar(&opts.Debug, "debug", false, "verbose logging")
	fs.BoolVar(&opts.Version, "version", false, "print build information and exit")

	var globs, exts stringsFlag
	fs.Var(&globs, "glob", "discover by glob pattern (repeatable)")
	fs.Var(&exts, "exts", "override configured extensions (repeatable)")

	// Already consumed by the YAML stage; accepted here so parsing does not
	// trip over them.
	var ignored string
	fs.StringVar(&ignored, "config", "", "path to config file")
	fs.StringVar(&ignored, "c", "", "path to config file (short)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	opts.Glob = globs
	if len(exts) > 0 {
		cfg.Extensions = exts
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.Path = fs.Arg(0)
	default:
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}

	return nil
}
