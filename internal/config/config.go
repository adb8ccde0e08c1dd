package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Config is the render job. Zero sizes mean "use the composition size".
type Config struct {
	CompositionPath string   `yaml:"composition"`
	OutputVideo     string   `yaml:"output"`
	FramesDir       string   `yaml:"frames_dir"`
	Width           int      `yaml:"width"`
	Height          int      `yaml:"height"`
	Preset          string   `yaml:"preset"`
	Workers         int      `yaml:"workers"`
	BatchSize       int      `yaml:"batch_size"`
	CacheSize       int      `yaml:"cache_size"`
	From            int      `yaml:"from"`
	To              int      `yaml:"to"`
	AssetDirs       []string `yaml:"asset_dirs"`
	AudioPath       string   `yaml:"audio"`
	CueTrack        bool     `yaml:"cue_track"`
	VideoEncoder    string   `yaml:"encoder"`
	Quality         int      `yaml:"quality"`
	Analyzers       []string `yaml:"analyzers"`
	CutThreshold    float64  `yaml:"cut_threshold"`
	ShowStats       bool     `yaml:"stats"`
	Verbose         bool     `yaml:"verbose"`
	BuildVersion    string   `yaml:"-"`
}

// Default returns the settings used when no config file is given
func Default() *Config {
	return &Config{
		BatchSize:    32,
		CacheSize:    4096,
		AssetDirs:    []string{"assets", "input/assets"},
		CueTrack:     true,
		CutThreshold: 0.25,
		BuildVersion: "dev",
	}
}

// LoadFile reads a YAML config on top of Default
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Preset != "" {
		if err := cfg.ApplyPreset(cfg.Preset); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// ApplyPreset sets the output size for a named aspect ratio
func (c *Config) ApplyPreset(name string) error {
	switch name {
	case "16:9":
		c.Width, c.Height = 1920, 1080
	case "9:16":
		c.Width, c.Height = 1080, 1920
	case "4:5":
		c.Width, c.Height = 1080, 1350
	case "1:1":
		c.Width, c.Height = 1080, 1080
	default:
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
	c.Preset = name
	return nil
}

// Validate checks the fields that do not depend on the composition
func (c *Config) Validate() error {
	var errs []error
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, fmt.Errorf("output size %dx%d", c.Width, c.Height))
	}
	if (c.Width == 0) != (c.Height == 0) {
		errs = append(errs, fmt.Errorf("set both width and height or neither"))
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		// yuv420p needs even dimensions
		errs = append(errs, fmt.Errorf("output size %dx%d must be even", c.Width, c.Height))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative"))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive"))
	}
	if c.From < 0 || (c.To != 0 && c.To <= c.From) {
		errs = append(errs, fmt.Errorf("frame range [%d, %d)", c.From, c.To))
	}
	if c.CutThreshold < 0 || c.CutThreshold > 1 {
		errs = append(errs, fmt.Errorf("cut threshold must be in [0,1]"))
	}
	if c.OutputVideo == "" && c.FramesDir == "" {
		errs = append(errs, fmt.Errorf("no output: set output or frames_dir"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// DefaultQuality is the quality value that suits an encoder when none is set
func DefaultQuality(encoder string) int {
	switch {
	case strings.Contains(encoder, "videotoolbox"):
		return 75
	case strings.Contains(encoder, "nvenc"):
		return 28
	default:
		return 23
	}
}
