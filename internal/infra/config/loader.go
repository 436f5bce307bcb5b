package config

import (
	"os"
	"path/filepath"

	"github.com/aalvaropc/taskproof/internal/domain"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads taskproof.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, "taskproof.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if y.Taskproof.Masking.Enabled != nil {
		cfg.Masking.Enabled = *y.Taskproof.Masking.Enabled
	}
	if y.Taskproof.Defaults.Target != "" {
		cfg.Defaults.Target = y.Taskproof.Defaults.Target
	}
	if y.Taskproof.Paths.SuitesDir != "" {
		cfg.Paths.SuitesDir = y.Taskproof.Paths.SuitesDir
	}
	if y.Taskproof.Paths.TargetsDir != "" {
		cfg.Paths.TargetsDir = y.Taskproof.Paths.TargetsDir
	}
	if y.Taskproof.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = y.Taskproof.Paths.RunsDir
	}

	return cfg, nil
}

type yamlConfig struct {
	Taskproof struct {
		Masking struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"masking"`

		Defaults struct {
			Target string `yaml:"target"`
		} `yaml:"defaults"`

		Paths struct {
			SuitesDir  string `yaml:"suites_dir"`
			TargetsDir string `yaml:"targets_dir"`
			RunsDir    string `yaml:"runs_dir"`
		} `yaml:"paths"`
	} `yaml:"taskproof"`
}
