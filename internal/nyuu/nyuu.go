// Package nyuu drives the external Usenet poster. It posts one candidate
// file together with its PAR2 set, archives the produced NZB manifest into
// the output tree, and resubmits leftover raw articles from failed runs.
//
// The poster's exit codes 0 and 32 are both success: 32 means "completed
// with recoverable warnings" and must archive and record exactly like 0.
// The raw exit code is always preserved in the Result.
package nyuu

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/execx"
	"github.com/nzbmule/nzbmule/internal/filex"
	"github.com/nzbmule/nzbmule/internal/logging"
)

// Ext is the manifest extension the poster produces.
const Ext = ".nzb"

// Runner invokes the poster binary.
type Runner struct {
	// RootDir is the resolved top-level input; archived manifests mirror
	// each file's position relative to it.
	RootDir string
	Bin     string
	// Config is the poster configuration file for the active scope.
	Config string
	// WorkDir, when set, is where the poster runs and writes the manifest.
	// Empty means alongside the input file.
	WorkDir string
	// OutDir is the archive root for completed manifests.
	OutDir string
	Scope  common.Scope
	// BDMVNaming prefixes manifest names with the file's parent directory,
	// keeping disc uploads apart when every disc is just named BDMV.
	BDMVNaming bool
	// DeletePar2 removes the PAR2 set after a successful post.
	DeletePar2 bool
	// Capture collects tool output into the Result. Disabled in debug runs
	// so output streams through live.
	Capture bool
	Log     logging.Logger
}

// Result is the outcome of one poster invocation.
type Result struct {
	execx.Output

	// NZBPath is where the manifest was archived. Empty on failure and for
	// raw reposts, which produce no manifest.
	NZBPath string

	Success bool
}

// successClass reports whether an exit code counts as a completed post.
func successClass(code int) bool {
	return code == 0 || code == 32
}

// Post uploads file with its PAR2 set and, on a success-class exit, archives
// the manifest under OutDir and optionally deletes the PAR2 set. The
// returned error covers infrastructure faults only (unstartable binary,
// unarchivable manifest); a tool failure comes back inside the Result with
// Success unset and nothing moved or deleted.
func (r *Runner) Post(ctx context.Context, file string, par2files []string) (*Result, error) {
	name := filepath.Base(file) + Ext
	// The poster's argument parser chokes on backticks; the working name is
	// sanitized, the archived name keeps the original.
	clean := strings.ReplaceAll(name, "`", "'")

	rel, err := filepath.Rel(r.RootDir, file)
	if err != nil {
		return nil, fmt.Errorf("relating %s to %s: %w", file, r.RootDir, err)
	}
	subdir := filepath.Dir(rel)

	if r.BDMVNaming && subdir != "." {
		parent := filepath.Base(subdir)
		name = parent + "_" + name
		clean = strings.ReplaceAll(parent, "`", "'") + "_" + clean
	}

	args := []string{"--config", r.Config, "--out", clean, file}
	args = append(args, par2files...)

	cwd := r.WorkDir
	if cwd == "" {
		cwd = filepath.Dir(file)
	}

	r.Log.Debug(ctx, "running nyuu", "argv", execx.JoinArgs(append([]string{r.Bin}, args...)), "cwd", cwd)

	out, err := execx.Run(ctx, execx.Command{Bin: r.Bin, Args: args, Dir: cwd, Capture: r.Capture})
	res := &Result{Output: out}
	if err != nil {
		return res, err
	}
	if !successClass(out.ExitCode) {
		return res, nil
	}

	res.NZBPath, err = r.archive(ctx, cwd, clean, subdir, name)
	if err != nil {
		return res, err
	}

	if r.DeletePar2 && len(par2files) > 0 {
		if err := filex.DeleteFiles(par2files); err != nil {
			r.Log.Warn(ctx, "could not delete par2 set", "file", file, "error", err)
		}
	}

	res.Success = true
	return res, nil
}

// archive moves the produced manifest into the output tree, mirroring the
// file's position under the top-level input:
//
//	<OutDir>/<scope>/<input name>/<subdir>/<name>
func (r *Runner) archive(ctx context.Context, cwd, clean, subdir, name string) (string, error) {
	src := filepath.Join(cwd, clean)
	dir := filepath.Join(r.OutDir, r.Scope.String(), filepath.Base(r.RootDir), subdir)
	if err := filex.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("creating archive dir: %w", err)
	}
	dst := filepath.Join(dir, name)
	if err := filex.Move(src, dst); err != nil {
		return "", fmt.Errorf("archiving manifest: %w", err)
	}

	r.Log.Debug(ctx, "archived nzb", "src", src, "dst", dst)

	return dst, nil
}

// RepostRaw resubmits one leftover raw article. The poster deletes the
// article itself on success; no manifest is produced either way.
func (r *Runner) RepostRaw(ctx context.Context, article string) (*Result, error) {
	abs, err := filepath.Abs(article)
	if err != nil {
		return nil, fmt.Errorf("resolving article path: %w", err)
	}

	args := []string{"--config", r.Config, "--delete-raw-posts", "--input-raw-posts", abs}

	r.Log.Debug(ctx, "running nyuu", "argv", execx.JoinArgs(append([]string{r.Bin}, args...)))

	out, err := execx.Run(ctx, execx.Command{Bin: r.Bin, Args: args, Capture: r.Capture})
	res := &Result{Output: out}
	if err != nil {
		return res, err
	}
	res.Success = successClass(out.ExitCode)
	return res, nil
}
