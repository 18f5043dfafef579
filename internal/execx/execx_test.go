package execx

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755)
	require.NoError(t, err)
	return path
}

func TestRunCapturesOutput(t *testing.T) {
	bin := writeScript(t, "ok.sh", "echo out-line\necho err-line >&2\nexit 0\n")

	out, err := Run(context.Background(), Command{Bin: bin, Capture: true})
	require.NoError(t, err)

	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, "out-line\n", out.Stdout)
	assert.Equal(t, "err-line\n", out.Stderr)
	assert.Equal(t, []string{bin}, out.Args)
}

func TestRunReportsExitCode(t *testing.T) {
	bin := writeScript(t, "fail.sh", "exit 32\n")

	out, err := Run(context.Background(), Command{Bin: bin, Capture: true})
	require.NoError(t, err)
	assert.Equal(t, 32, out.ExitCode)
}

func TestRunPassesArgsAndDir(t *testing.T) {
	bin := writeScript(t, "args.sh", "echo \"$1 $2\"\npwd\n")
	dir := t.TempDir()

	out, err := Run(context.Background(), Command{
		Bin:     bin,
		Args:    []string{"a", "b"},
		Dir:     dir,
		Capture: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, out.ExitCode)
	assert.Contains(t, out.Stdout, "a b\n")
	assert.Contains(t, out.Stdout, dir)
	assert.Equal(t, []string{bin, "a", "b"}, out.Args)
}

func TestRunMissingBinary(t *testing.T) {
	_, err := Run(context.Background(), Command{
		Bin:     filepath.Join(t.TempDir(), "nope"),
		Capture: true,
	})
	require.Error(t, err)
}

func TestRunCancelledContextKillsChild(t *testing.T) {
	bin := writeScript(t, "sleep.sh", "sleep 30\n")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	out, err := Run(ctx, Command{Bin: bin, Capture: true})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Negative(t, out.ExitCode)
}

func TestJoinArgs(t *testing.T) {
	got := JoinArgs([]string{"nyuu", "--out", "my file.nzb", "plain"})
	assert.Equal(t, `nyuu --out "my file.nzb" plain`, got)
}
