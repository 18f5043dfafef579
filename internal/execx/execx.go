// Package execx runs external tools and reports their outcome as data.
//
// The orchestration layers never inspect raw *exec.Cmd state; they work with
// Output values: full argv, exit code, and captured streams. A non-zero exit
// is not an error here — classification is the caller's concern.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	Bin  string
	Args []string
	// Dir is the working directory of the child process. Empty means the
	// caller's current directory.
	Dir string
	// Capture collects stdout/stderr into the Output. When false the child
	// inherits the parent's streams (used in debug mode so tool output is
	// visible live).
	Capture bool
}

// Output is the observed result of one finished invocation.
type Output struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Run executes the command and blocks until it exits. No timeout is applied;
// cancelling ctx kills the child, which surfaces as a negative exit code.
//
// An error is returned only when the process could not be started at all
// (missing binary, bad working directory). Exit codes, including failures,
// come back inside Output.
func Run(ctx context.Context, c Command) (Output, error) {
	argv := append([]string{c.Bin}, c.Args...)
	out := Output{Args: argv}

	cmd := exec.CommandContext(ctx, c.Bin, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	if c.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	err := cmd.Run()
	out.Stdout = stdout.String()
	out.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Killed processes (e.g. on ctx cancellation) report -1.
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("starting %s: %w", c.Bin, err)
	}

	return out, nil
}

// JoinArgs renders argv for log lines, quoting arguments with spaces.
func JoinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t\"'`") {
			quoted[i] = fmt.Sprintf("%q", a)
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
