package aligner

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds aligner pipeline settings.
type Config struct {
	InputPath     string `yaml:"input_path"      env:"ALIGNER_INPUT_PATH"`
	OutputPath    string `yaml:"output_path"     env:"ALIGNER_OUTPUT_PATH"`
	Workers       int    `yaml:"workers"         env:"ALIGNER_WORKERS"         env-default:"4"`
	BatchSize     int    `yaml:"batch_size"      env:"ALIGNER_BATCH_SIZE"      env-default:"500"`
	FailOnInvalid bool   `yaml:"fail_on_invalid" env:"ALIGNER_FAIL_ON_INVALID"`
	Compact       bool   `yaml:"compact"         env:"ALIGNER_COMPACT"`
	RubyColumn    bool   `yaml:"ruby_column"     env:"ALIGNER_RUBY_COLUMN"`
	Store         bool   `yaml:"store"           env:"ALIGNER_STORE"`
	DryRun        bool   `yaml:"dry_run"         env:"ALIGNER_DRY_RUN"`
}

// LoadConfig reads aligner configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("aligner config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("aligner config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("aligner config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("aligner config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings that do not depend on command-line overrides.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.Store && c.DryRun {
		return fmt.Errorf("store and dry_run are mutually exclusive")
	}
	return nil
}
