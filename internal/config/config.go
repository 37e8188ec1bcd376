// Package config loads the user settings of the screens tools.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/fyshos/screens/internal/layout"
)

// Config is the content of config.toml.
type Config struct {
	// Placement is where a newly enabled output goes relative to another one.
	Placement   string  `toml:"placement"`
	FallbackDPI float64 `toml:"fallback_dpi"`
	LogLevel    string  `toml:"log_level"`
}

func Default() Config {
	return Config{
		Placement:   layout.RightOf.String(),
		FallbackDPI: layout.DefaultDPI,
		LogLevel:    log.InfoLevel.String(),
	}
}

// Path returns $XDG_CONFIG_HOME/screens/config.toml, or the same file under
// ~/.config when XDG_CONFIG_HOME is not a directory.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if stat, err := os.Stat(dir); err == nil && stat.IsDir() {
			return filepath.Join(dir, "screens", "config.toml")
		}
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "screens", "config.toml")
}

// Load reads the file at path on top of the defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.Relation(); err != nil {
		return errors.Wrap(err, "placement")
	}
	if c.FallbackDPI <= 0 {
		return errors.Errorf("fallback_dpi must be positive, got %v", c.FallbackDPI)
	}
	if _, err := c.Level(); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}

func (c Config) Relation() (layout.Relation, error) {
	return layout.ParseRelation(c.Placement)
}

func (c Config) Level() (log.Level, error) {
	return log.ParseLevel(c.LogLevel)
}
