package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Options
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name:     "path only",
			args:     []string{"/data/show"},
			expected: &Options{Path: "/data/show"},
		},
		{
			name: "mode and scope switches",
			args: []string{"-public", "-skip-raw", "-no-resume", "-debug", "/data/show"},
			expected: &Options{
				Path:     "/data/show",
				Public:   true,
				SkipRaw:  true,
				NoResume: true,
				Debug:    true,
			},
		},
		{
			name: "repeatable glob",
			args: []string{"-glob", "*.mkv", "-glob", "extras/*", "/data/show"},
			expected: &Options{
				Path: "/data/show",
				Glob: []string{"*.mkv", "extras/*"},
			},
		},
		{
			name:     "maintenance modes need no path",
			args:     []string{"-clear-resume"},
			expected: &Options{ClearResume: true},
		},
		{
			name:     "config flag is accepted and ignored here",
			args:     []string{"-config", "conf.yaml", "-only-nyuu", "/data/show"},
			expected: &Options{Path: "/data/show", OnlyNyuu: true},
		},
		{
			name:    "extra positional arguments rejected",
			args:    []string{"/data/show", "/data/other"},
			wantErr: true,
		},
		{
			name:    "unknown flag rejected",
			args:    []string{"-frobnicate"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setArgs(t, tt.args...)

			cfg := &Config{}
			cfg.LoadDefaults()
			opts := &Options{}

			err := parseFlags(cfg, opts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, opts))
		})
	}
}

func TestParseFlagsExtensionsOverride(t *testing.T) {
	setArgs(t, "-exts", "mp4", "-exts", "avi", "/data/show")

	cfg := &Config{}
	cfg.LoadDefaults()
	opts := &Options{}

	require.NoError(t, parseFlags(cfg, opts))
	assert.Equal(t, []string{"mp4", "avi"}, cfg.Extensions)
}

func TestParseFlagsKeepsConfiguredExtensions(t *testing.T) {
	setArgs(t, "/data/show")

	cfg := &Config{Extensions: []string{"mkv"}}
	opts := &Options{}

	require.NoError(t, parseFlags(cfg, opts))
	assert.Equal(t, []string{"mkv"}, cfg.Extensions)
}

func TestParseFlagsVersion(t *testing.T) {
	setArgs(t, "-version")

	cfg := &Config{}
	opts := &Options{}

	require.NoError(t, parseFlags(cfg, opts))
	assert.True(t, opts.Version)
	assert.Empty(t, opts.Path)
}
