package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterPar2(t *testing.T) {
	got := FilterPar2([]string{
		"/data/a.mkv",
		"/data/a.mkv.par2",
		"/data/a.mkv.vol00+01.PAR2",
		"/data/b.mkv",
	})
	assert.Equal(t, []string{"/data/a.mkv", "/data/b.mkv"}, got)
}

func TestFilterEmpty(t *testing.T) {
	root := t.TempDir()

	full := filepath.Join(root, "full.mkv")
	require.NoError(t, os.WriteFile(full, []byte("payload"), 0o644))

	empty := filepath.Join(root, "empty.mkv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	// A disc directory whose payload sits a few levels down.
	fullDir := filepath.Join(root, "DISC_01")
	require.NoError(t, os.MkdirAll(filepath.Join(fullDir, "BDMV", "STREAM"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fullDir, "BDMV", "STREAM", "00001.m2ts"), []byte("payload"), 0o644))

	// A directory holding only zero-byte files is effectively empty.
	emptyDir := filepath.Join(root, "DISC_02")
	require.NoError(t, os.MkdirAll(filepath.Join(emptyDir, "BDMV"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(emptyDir, "BDMV", "index.bdmv"), nil, 0o644))

	got := FilterEmpty([]string{
		full,
		empty,
		fullDir,
		emptyDir,
		filepath.Join(root, "gone.mkv"),
	})
	assert.Equal(t, []string{full, fullDir}, got)
}

func TestMoveIntoNamedDirs(t *testing.T) {
	root := t.TempDir()

	ep := filepath.Join(root, "ep.mkv")
	require.NoError(t, os.WriteFile(ep, []byte("payload"), 0o644))

	disc := filepath.Join(root, "DISC_01")
	require.NoError(t, os.MkdirAll(disc, 0o755))

	require.NoError(t, MoveIntoNamedDirs([]string{ep, disc}))

	assert.NoFileExists(t, ep)
	assert.FileExists(t, filepath.Join(root, "ep", "ep.mkv"))
	assert.DirExists(t, disc)
}

func TestMoveIntoNamedDirsCollectsFailures(t *testing.T) {
	root := t.TempDir()

	// The stem slot for blocked.mkv is taken by a plain file, so its move
	// fails; the other file still moves.
	blocked := filepath.Join(root, "blocked.mkv")
	require.NoError(t, os.WriteFile(blocked, []byte("payload"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocked"), []byte("in the way"), 0o644))

	ok := filepath.Join(root, "ok.mkv")
	require.NoError(t, os.WriteFile(ok, []byte("payload"), 0o644))

	err := MoveIntoNamedDirs([]string{blocked, ok})
	require.Error(t, err)
	assert.FileExists(t, blocked)
	assert.FileExists(t, filepath.Join(root, "ok", "ok.mkv"))
}

func TestLocatePar2(t *testing.T) {
	root := t.TempDir()

	withSet := filepath.Join(root, "a.mkv")
	bare := filepath.Join(root, "b.mkv")
	for _, name := range []string{"a.mkv", "a.mkv.par2", "a.mkv.vol00+01.par2", "b.mkv"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}

	got, err := LocatePar2([]string{withSet, bare})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a.mkv.par2"),
		filepath.Join(root, "a.mkv.vol00+01.par2"),
	}, got[withSet])
	assert.Empty(t, got[bare])
}
