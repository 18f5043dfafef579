// Package config handles configuration for the nzbmule CLI, including
// defaults, YAML overlay, and command-line flags.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nzbmule/nzbmule/internal/common"
)

// Config holds durable settings, usually sourced from nzbmule.yaml.
//
// Fields:
//   - NyuuBin / ParParBin: poster and redundancy-generator binaries; bare
//     names are resolved via PATH, everything else must exist on disk.
//   - NyuuConfigPrivate / NyuuConfigPublic: poster configuration files per
//     scope. The public one is optional and falls back to the private one.
//   - NZBOutputDir: root of the archived manifest tree.
//   - Extensions: file extensions picked up during directory discovery.
//   - ParParArgs: extra arguments passed to the generator before the fixed
//     ones.
//   - AppDataDir: home of the resume database.
//   - UseTempDir / TempDir: when enabled, generated artifacts land in TempDir
//     instead of next to the input files.
//   - DeletePar2OnSuccess: remove redundancy files once a post succeeded.
//   - ScopedResumeClear: limit -clear-resume to the active scope instead of
//     wiping the whole ledger.
type Config struct {
	NyuuBin             string
	ParParBin           string
	NyuuConfigPrivate   string
	NyuuConfigPublic    string
	NZBOutputDir        string
	Extensions          []string
	ParParArgs          []string
	AppDataDir          string
	UseTempDir          bool
	TempDir             string
	DeletePar2OnSuccess bool
	ScopedResumeClear   bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Extensions = []string{"mkv"}
	c.ParParArgs = []string{
		"--overwrite",
		"-dpow2",
		"-s700k",
		"--slice-size-multiple=700K",
		"--max-input-slices=4000",
		"-r1n*1.2",
		"-R",
	}

	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	c.AppDataDir = filepath.Join(base, "nzbmule")

	c.UseTempDir = true
	c.TempDir = filepath.Join(os.TempDir(), "nzbmule")
	c.DeletePar2OnSuccess = true
	c.ScopedResumeClear = false
}

// Load constructs a Config and Options pair, applying defaults, then values
// from the YAML file (if present), then command-line flags. Later sources
// take precedence over earlier ones.
func Load() (*Config, *Options, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseYaml(cfg); err != nil {
		return nil, nil, err
	}

	opts := &Options{}
	if err := parseFlags(cfg, opts); err != nil {
		return nil, nil, err
	}

	return cfg, opts, nil
}

// NyuuConfig returns the poster configuration file for the given scope,
// falling back to the private one when no public file is configured.
func (c *Config) NyuuConfig(scope common.Scope) string {
	if scope == common.ScopePublic && c.NyuuConfigPublic != "" {
		return c.NyuuConfigPublic
	}
	return c.NyuuConfigPrivate
}

// WorkDir returns the directory generated artifacts should be written to, or
// an empty string when they belong next to the input files.
func (c *Config) WorkDir() string {
	if c.UseTempDir {
		return c.TempDir
	}
	return ""
}

// Validate checks that every setting required for a run is present and points
// at something real. It is called once, before any processing starts.
func (c *Config) Validate() error {
	if c.NyuuBin == "" {
		return fmt.Errorf("poster binary (nyuu) is not configured")
	}
	if c.ParParBin == "" {
		return fmt.Errorf("generator binary (parpar) is not configured")
	}
	if c.NyuuConfigPrivate == "" {
		return fmt.Errorf("private poster config (nyuu_config_private) is not configured")
	}
	if c.NZBOutputDir == "" {
		return fmt.Errorf("output directory (nzb_output) is not configured")
	}

	if err := lookupBin(c.NyuuBin); err != nil {
		return fmt.Errorf("locating poster binary: %w", err)
	}
	if err := lookupBin(c.ParParBin); err != nil {
		return fmt.Errorf("locating generator binary: %w", err)
	}

	if _, err := os.Stat(c.NyuuConfigPrivate); err != nil {
		return fmt.Errorf("private poster config: %w", err)
	}
	if c.NyuuConfigPublic != "" {
		if _, err := os.Stat(c.NyuuConfigPublic); err != nil {
			return fmt.Errorf("public poster config: %w", err)
		}
	}

	return nil
}

// lookupBin resolves bare names via PATH and everything else via the
// filesystem.
func lookupBin(name string) error {
	if strings.ContainsRune(name, os.PathSeparator) {
		_, err := os.Stat(name)
		return err
	}
	_, err := exec.LookPath(name)
	return err
}
