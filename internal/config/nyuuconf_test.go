package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpFailedPosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nyuu.json")
	body := `{"host": "news.example.org", "dump-failed-posts": "/var/lib/nzbmule/raw"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	dir, err := DumpFailedPosts(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/nzbmule/raw", dir)
}

func TestDumpFailedPostsMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nyuu.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"host": "news.example.org"}`), 0o644))

	_, err := DumpFailedPosts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dump-failed-posts")
}

func TestDumpFailedPostsMissingFile(t *testing.T) {
	_, err := DumpFailedPosts(filepath.Join(t.TempDir(), "gone.json"))
	require.Error(t, err)
}
