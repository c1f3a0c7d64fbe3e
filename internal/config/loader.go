package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the variable that points at the YAML config file.
const PathEnv = "LIVECUE_CONFIG"

// searchPaths are tried in order when PathEnv is unset.
var searchPaths = []string{"./livecue.yaml", "/etc/livecue/config.yaml"}

// Load reads the YAML file named by LIVECUE_CONFIG, or the first of
// ./livecue.yaml and /etc/livecue/config.yaml that exists, then applies ENV
// overrides and env-default values. Without any file the configuration comes
// from ENV and defaults alone. A LIVECUE_CONFIG pointing nowhere is an error.
func Load() (*Config, error) {
	path, err := resolvePath(os.Getenv(PathEnv), searchPaths)
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path overlaid by ENV. An empty path reads
// ENV and defaults only.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func resolvePath(explicit string, candidates []string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config: %s %s: %w", PathEnv, explicit, err)
		}
		return explicit, nil
	}

	for _, p := range candidates {
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", p, err)
		}
	}
	return "", nil
}
