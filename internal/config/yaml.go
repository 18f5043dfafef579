package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nzbmule/nzbmule/internal/flagx"
)

// EnvConfigFile names the environment variable that points at the YAML
// config, consulted when no -config flag is given.
const EnvConfigFile = "NZBMULE_CONFIG"

// defaultConfigFile is tried last; its absence is not an error.
const defaultConfigFile = "nzbmule.yaml"

// yamlConfig is a DTO used exclusively for YAML unmarshalling. Scalar fields
// are pointers so that keys absent from the file leave the defaults in the
// runtime Config untouched.
type yamlConfig struct {
	Nyuu                *string  `yaml:"nyuu"`
	ParPar              *string  `yaml:"parpar"`
	NyuuConfigPrivate   *string  `yaml:"nyuu_config_private"`
	NyuuConfigPublic    *string  `yaml:"nyuu_config_public"`
	NZBOutput           *string  `yaml:"nzb_output"`
	Extensions          []string `yaml:"extensions"`
	ParParArgs          []string `yaml:"parpar_args"`
	AppDataDir          *string  `yaml:"appdata_dir"`
	UseTempDir          *bool    `yaml:"use_temp_dir"`
	TempDir             *string  `yaml:"temp_dir"`
	DeletePar2OnSuccess *bool    `yaml:"delete_par2_on_success"`
	ScopedResumeClear   *bool    `yaml:"scoped_resume_clear"`
}

// parseYaml overlays cfg with values loaded from the YAML config file.
//
// Lookup order for the file path:
//  1. Command-line flags (-c or -config) via flagx.ConfigFileFlag().
//  2. The NZBMULE_CONFIG environment variable.
//  3. nzbmule.yaml in the current directory.
//
// A file named explicitly (1 or 2) must exist and parse; the implicit
// default (3) is skipped silently when missing.
func parseYaml(cfg *Config) error {
	path := flagx.ConfigFileFlag()
	explicit := path != ""

	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if yc.Nyuu != nil {
		cfg.NyuuBin = *yc.Nyuu
	}
	if yc.ParPar != nil {
		cfg.ParParBin = *yc.ParPar
	}
	if yc.NyuuConfigPrivate != nil {
		cfg.NyuuConfigPrivate = *yc.NyuuConfigPrivate
	}
	if yc.NyuuConfigPublic != nil {
		cfg.NyuuConfigPublic = *yc.NyuuConfigPublic
	}
	if yc.NZBOutput != nil {
		cfg.NZBOutputDir = *yc.NZBOutput
	}
	if yc.Extensions != nil {
		cfg.Extensions = yc.Extensions
	}
	if yc.ParParArgs != nil {
		cfg.ParParArgs = yc.ParParArgs
	}
	if yc.AppDataDir != nil {
		cfg.AppDataDir = *yc.AppDataDir
	}
	if yc.UseTempDir != nil {
		cfg.UseTempDir = *yc.UseTempDir
	}
	if yc.TempDir != nil {
		cfg.TempDir = *yc.TempDir
	}
	if yc.DeletePar2OnSuccess != nil {
		cfg.DeletePar2OnSuccess = *yc.DeletePar2OnSuccess
	}
	if yc.ScopedResumeClear != nil {
		cfg.ScopedResumeClear = *yc.ScopedResumeClear
	}

	return nil
}
