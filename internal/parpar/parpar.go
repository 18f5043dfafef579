// Package parpar drives the external PAR2 generator. It builds the argument
// list for one candidate file, runs the tool, and discovers the artifacts it
// produced. A non-zero exit is reported as data, not as an error; partial
// artifacts from a failed run must not be assumed usable.
package parpar

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nzbmule/nzbmule/internal/execx"
	"github.com/nzbmule/nzbmule/internal/logging"
)

// Ext is the artifact extension the generator produces.
const Ext = ".par2"

// Runner invokes the generator binary.
type Runner struct {
	Bin  string
	Args []string
	// WorkDir, when set, is where the tool runs and artifacts land. Empty
	// means alongside the input file.
	WorkDir string
	// Capture collects tool output into the Result. Disabled in debug runs
	// so output streams through live.
	Capture bool
	Log     logging.Logger
}

// Result is the outcome of one generator invocation.
type Result struct {
	execx.Output

	// Par2Files are the artifacts found after a clean exit, in directory
	// order. Empty when the run failed.
	Par2Files []string

	// FilepathFormat is the --filepath-format value used: "basename" for
	// plain files, "path" for directory candidates, which keeps the inner
	// structure of bundled discs intact.
	FilepathFormat string
	// FilepathBase is the --filepath-base value, the input's parent.
	FilepathBase string

	Success bool
}

// Generate produces the PAR2 set for file. The returned error covers
// infrastructure faults only (unreadable input, unstartable binary); a tool
// failure comes back inside the Result with Success unset.
func (r *Runner) Generate(ctx context.Context, file string) (*Result, error) {
	info, err := os.Stat(file)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	format := "basename"
	if info.IsDir() {
		format = "path"
	}
	base := filepath.Dir(file)
	name := filepath.Base(file)

	sink := r.WorkDir
	if sink == "" {
		sink = base
	}

	args := append([]string{}, r.Args...)
	args = append(args,
		"--filepath-base", base,
		"--filepath-format", format,
		"--out", name,
		file,
	)

	r.Log.Debug(ctx, "running parpar", "argv", execx.JoinArgs(append([]string{r.Bin}, args...)), "cwd", sink)

	out, err := execx.Run(ctx, execx.Command{Bin: r.Bin, Args: args, Dir: sink, Capture: r.Capture})
	res := &Result{Output: out, FilepathFormat: format, FilepathBase: base}
	if err != nil {
		return res, err
	}
	if out.ExitCode != 0 {
		return res, nil
	}

	res.Par2Files, err = FindArtifacts(sink, name)
	if err != nil {
		return res, err
	}
	res.Success = true
	return res, nil
}

// FindArtifacts lists the PAR2 set for the given output name in dir, in
// directory order. Plain prefix matching instead of globbing: input names
// may contain glob metacharacters.
func FindArtifacts(dir, name string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing artifacts in %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), name) && IsPar2(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// IsPar2 reports whether path names a generator artifact.
func IsPar2(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Ext)
}
