package rawpost

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzbmule/nzbmule/internal/common"
	"github.com/nzbmule/nzbmule/internal/execx"
	"github.com/nzbmule/nzbmule/internal/nyuu"
)

func writeArticles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	var paths []string
	for _, name := range names {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("raw"), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestPending(t *testing.T) {
	dir := t.TempDir()
	writeArticles(t, dir, "b.article", "a.article")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeArticles(t, filepath.Join(dir, "nested"), "deep.article")

	got, err := Pending(dir)
	require.NoError(t, err)

	// Name order, files only, non-recursive.
	assert.Equal(t, []string{
		filepath.Join(dir, "a.article"),
		filepath.Join(dir, "b.article"),
	}, got)
}

func TestPendingMissingDir(t *testing.T) {
	got, err := Pending(filepath.Join(t.TempDir(), "never-dumped"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	paths := writeArticles(t, dir, "a.article", "b.article", "c.article")

	n, err := Clear(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, p := range paths {
		assert.NoFileExists(t, p)
	}

	n, err = Clear(dir)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// stubReposter fails the articles named in fail and records call order.
type stubReposter struct {
	fail   map[string]bool
	errs   map[string]error
	calls  []string
	onCall func()
}

func (s *stubReposter) RepostRaw(ctx context.Context, article string) (*nyuu.Result, error) {
	s.calls = append(s.calls, article)
	if s.onCall != nil {
		s.onCall()
	}
	name := filepath.Base(article)
	if err := s.errs[name]; err != nil {
		return nil, err
	}
	if s.fail[name] {
		return &nyuu.Result{Output: execx.Output{ExitCode: 1}}, nil
	}
	return &nyuu.Result{Success: true}, nil
}

func TestRecoverAllContinuesPastFailures(t *testing.T) {
	articles := []string{"/raw/a.article", "/raw/b.article", "/raw/c.article"}
	rp := &stubReposter{fail: map[string]bool{"b.article": true}}

	var seen []string
	outcomes, err := RecoverAll(context.Background(), rp, articles, func(o ArticleOutcome) {
		seen = append(seen, o.Article)
	})
	require.NoError(t, err)

	// All three attempted in order, exactly one failure.
	assert.Equal(t, articles, rp.calls)
	assert.Equal(t, articles, seen)
	require.Len(t, outcomes, 3)
	assert.True(t, outcomes[0].Success())
	assert.False(t, outcomes[1].Success())
	assert.True(t, outcomes[2].Success())
}

func TestRecoverAllRecordsAdapterErrors(t *testing.T) {
	boom := errors.New("binary not found")
	rp := &stubReposter{errs: map[string]error{"a.article": boom}}

	outcomes, err := RecoverAll(context.Background(), rp, []string{"/raw/a.article", "/raw/b.article"}, nil)
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	assert.ErrorIs(t, outcomes[0].Err, boom)
	assert.False(t, outcomes[0].Success())
	assert.True(t, outcomes[1].Success())
}

func TestRecoverAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rp := &stubReposter{onCall: cancel}

	outcomes, err := RecoverAll(ctx, rp, []string{"/raw/a.article", "/raw/b.article"}, nil)
	require.ErrorIs(t, err, common.ErrCancelled)

	// The first article finished; the second was never attempted.
	assert.Len(t, outcomes, 1)
	assert.Equal(t, []string{"/raw/a.article"}, rp.calls)
}

func TestArticleOutcomeSuccess(t *testing.T) {
	assert.True(t, ArticleOutcome{Result: &nyuu.Result{Success: true}}.Success())
	assert.False(t, ArticleOutcome{Result: &nyuu.Result{}}.Success())
	assert.False(t, ArticleOutcome{Err: errors.New("boom")}.Success())
	assert.False(t, ArticleOutcome{}.Success())
}
