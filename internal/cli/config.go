package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrConfigFormat is returned for a config file that is neither TOML nor YAML.
var ErrConfigFormat = errors.New("cli: config file must be .toml, .yaml or .yml")

// Config holds the merge settings that may come from a file.
// Zero values mean "not set".
type Config struct {
	Output   string `toml:"output" yaml:"output"`
	Columns  int    `toml:"columns" yaml:"columns"`
	PaddingX int    `toml:"padding_x" yaml:"padding_x"`
	PaddingY int    `toml:"padding_y" yaml:"padding_y"`
	Workers  int    `toml:"workers" yaml:"workers"`
	Quality  int    `toml:"quality" yaml:"quality"`
	LogFile  string `toml:"log_file" yaml:"log_file"`
}

// loadConfig decodes the file at path, picking the decoder by extension.
func loadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: %s", ErrConfigFormat, path)
	}
	return cfg, nil
}

// validate rejects values no merge can use.
func (c Config) validate() error {
	switch {
	case c.Output == "":
		return errors.New("no output file (use -o or set output in the config file)")
	case c.Columns < 0:
		return fmt.Errorf("columns must be >= 0, got %d", c.Columns)
	case c.PaddingX < 0 || c.PaddingY < 0:
		return fmt.Errorf("padding must be >= 0, got %dx%d", c.PaddingX, c.PaddingY)
	case c.Quality < 0 || c.Quality > 100:
		return fmt.Errorf("quality must be in 0-100, got %d", c.Quality)
	}
	return nil
}
