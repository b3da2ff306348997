package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/logandonley/fontenum/pkg/fe"
)

// DefaultPath is where the config file is looked up when none is given
const DefaultPath = "~/.config/fontenum/config.yaml"

// Config holds the settings read from the config file
type Config struct {
	Source     string        `yaml:"source"`      // Source enumerated when none is given on the command line
	Filter     string        `yaml:"filter"`      // Initial filter query
	Timeout    time.Duration `yaml:"timeout"`     // Bound on a single enumeration
	Verbosity  int           `yaml:"verbosity"`   // Log verbosity, 0 logs errors only
	SampleText []string      `yaml:"sample_text"` // Preview lines drawn under the font name
	Preview    Preview       `yaml:"preview"`
}

// Preview holds the SVG preview settings
type Preview struct {
	Size   int `yaml:"size"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default returns the settings used when no config file exists
func Default() Config {
	return Config{
		Source:  fe.KindFontSet.String(),
		Timeout: fe.DefaultTimeout,
		Preview: Preview{Size: 28, Width: 800, Height: 240},
	}
}

// Kind returns the configured source
func (c Config) Kind() (fe.Kind, error) {
	return fe.ParseKind(c.Source)
}

// PreviewOptions converts the preview settings
func (c Config) PreviewOptions() fe.PreviewOptions {
	return fe.PreviewOptions{
		Width:  c.Preview.Width,
		Height: c.Preview.Height,
		Size:   c.Preview.Size,
		Lines:  c.SampleText,
	}
}

// Load reads the config file at path. A missing file yields the defaults
// unless the path was given explicitly.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("expanding config path: %w", err)
	}

	file, err := os.Open(filepath.Clean(expanded))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("opening config file: %w", err)
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", expanded, err)
	}
	return cfg, nil
}

// Parse decodes a YAML config on top of the defaults
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := cfg.Kind(); err != nil {
		return Config{}, err
	}
	if cfg.Timeout < 0 {
		return Config{}, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}
	return cfg, nil
}
