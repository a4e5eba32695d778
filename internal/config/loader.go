package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./config.yaml"

// Load builds the align command's logging and database settings.
//
// Variables from a .env file in the working directory are exported first;
// ones already present in the environment are left alone. Settings then come
// from the YAML file named by CONFIG_PATH (or ./config.yaml when it exists),
// with environment variables taking precedence and env-default tags filling
// the gaps. Without a file only the environment is read, so the command runs
// with no config at all when nothing is stored.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", source(path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// configPath returns the YAML file to read, or "" for environment only.
// A CONFIG_PATH that does not exist is an error.
func configPath() (string, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("file %s: %w", path, err)
		}
		return path, nil
	}

	_, err := os.Stat(defaultConfigPath)
	switch {
	case err == nil:
		return defaultConfigPath, nil
	case errors.Is(err, os.ErrNotExist):
		return "", nil
	default:
		return "", fmt.Errorf("file %s: %w", defaultConfigPath, err)
	}
}

func source(path string) string {
	if path == "" {
		return "env"
	}
	return path
}
