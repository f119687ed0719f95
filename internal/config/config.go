// Package config loads daycount settings from defaults, an optional YAML
// or JSON file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/daycount/internal/imagegen"
	"github.com/jmylchreest/daycount/internal/prefs"
	"github.com/jmylchreest/daycount/internal/sampler"
	"github.com/jmylchreest/daycount/internal/security"
	"github.com/jmylchreest/daycount/internal/widget"
)

// Surface modes.
const (
	SurfaceLocal  = "local"
	SurfacePlugin = "plugin"
)

// Environment variables that override file settings.
const (
	EnvDataDir     = "DAYCOUNT_DATA_DIR"
	EnvSurface     = "DAYCOUNT_SURFACE"
	EnvSurfacePath = "DAYCOUNT_SURFACE_PATH"
	EnvGenModel    = "DAYCOUNT_GENERATE_MODEL"
)

// Defaults.
const (
	DefaultScale        = 3
	DefaultUnit         = "days"
	DefaultPollInterval = 100 * time.Millisecond
	DefaultPollAttempts = 30
	DefaultPluginBinary = "daycount-surface"
)

// Config holds all daycount settings.
type Config struct {
	DataDir   string        `yaml:"data_dir" json:"data_dir"`
	CacheDir  string        `yaml:"cache_dir" json:"cache_dir"`
	Algorithm string        `yaml:"algorithm" json:"algorithm"`
	Widget    WidgetConfig  `yaml:"widget" json:"widget"`
	Surface   SurfaceConfig `yaml:"surface" json:"surface"`
	Images    ImagesConfig  `yaml:"images" json:"images"`
}

// ImagesConfig controls where photos may come from.
type ImagesConfig struct {
	// BlockPrivateHosts rejects photo URLs that resolve to loopback or
	// private network addresses.
	BlockPrivateHosts bool `yaml:"block_private_hosts" json:"block_private_hosts"`

	// GenerateModel and GenerateBackend select the image generation model
	// used for --prompt.
	GenerateModel   string `yaml:"generate_model" json:"generate_model"`
	GenerateBackend string `yaml:"generate_backend" json:"generate_backend"`
}

// WidgetConfig holds rendering settings.
type WidgetConfig struct {
	Family string `yaml:"family" json:"family"`
	Scale  int    `yaml:"scale" json:"scale"`
	Unit   string `yaml:"unit" json:"unit"`
}

// SurfaceConfig selects where background work runs.
type SurfaceConfig struct {
	Mode         string        `yaml:"mode" json:"mode"`
	Path         string        `yaml:"path" json:"path"`
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`
	PollAttempts int           `yaml:"poll_attempts" json:"poll_attempts"`

	// Checksum is the expected "sha256:<hex>" digest of the plugin binary.
	Checksum string `yaml:"checksum" json:"checksum"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// DefaultPath returns $XDG_CONFIG_HOME/daycount/config.yaml, falling back
// to ~/.config/daycount/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "daycount", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "daycount", "config.yaml")
}

// Load reads the configuration at path. An empty path reads DefaultPath
// and tolerates it being absent; an explicit path must exist. Environment
// overrides and defaults are applied before validation.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	var cfg Config
	if path != "" {
		err := loadFile(expandPath(path), &cfg)
		switch {
		case err == nil:
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified config file, intended to be read
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvSurface); v != "" {
		cfg.Surface.Mode = v
	}
	if v := os.Getenv(EnvSurfacePath); v != "" {
		cfg.Surface.Path = v
	}
	if v := os.Getenv(EnvGenModel); v != "" {
		cfg.Images.GenerateModel = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		if dir, err := prefs.DefaultDir(); err == nil {
			cfg.DataDir = dir
		}
	}
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.CacheDir = expandPath(cfg.CacheDir)

	if cfg.Algorithm == "" {
		cfg.Algorithm = string(sampler.DefaultAlgorithm)
	}
	if cfg.Widget.Family == "" {
		cfg.Widget.Family = string(widget.DefaultFamily)
	}
	if cfg.Widget.Scale == 0 {
		cfg.Widget.Scale = DefaultScale
	}
	if cfg.Widget.Unit == "" {
		cfg.Widget.Unit = DefaultUnit
	}

	cfg.Surface.Mode = strings.ToLower(strings.TrimSpace(cfg.Surface.Mode))
	if cfg.Surface.Mode == "" {
		cfg.Surface.Mode = SurfaceLocal
	}
	if cfg.Surface.Path == "" {
		cfg.Surface.Path = DefaultPluginBinary
	}
	cfg.Surface.Path = expandPath(cfg.Surface.Path)
	if cfg.Surface.PollInterval == 0 {
		cfg.Surface.PollInterval = DefaultPollInterval
	}
	if cfg.Surface.PollAttempts == 0 {
		cfg.Surface.PollAttempts = DefaultPollAttempts
	}

	if cfg.Images.GenerateModel == "" {
		cfg.Images.GenerateModel = imagegen.DefaultModel
	}
	cfg.Images.GenerateBackend = strings.ToLower(strings.TrimSpace(cfg.Images.GenerateBackend))
	if cfg.Images.GenerateBackend == "" {
		cfg.Images.GenerateBackend = imagegen.BackendGeminiAPI
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !sampler.IsValidAlgorithm(sampler.Algorithm(c.Algorithm)) {
		return fmt.Errorf("unknown algorithm %q (valid: %v)", c.Algorithm, sampler.ValidAlgorithms())
	}
	if _, ok := widget.ParseFamily(c.Widget.Family); !ok {
		return fmt.Errorf("unknown widget family %q", c.Widget.Family)
	}
	if c.Widget.Scale <= 0 {
		return fmt.Errorf("widget scale must be positive, got %d", c.Widget.Scale)
	}
	switch c.Surface.Mode {
	case SurfaceLocal, SurfacePlugin:
	default:
		return fmt.Errorf("unknown surface mode %q (valid: %s, %s)", c.Surface.Mode, SurfaceLocal, SurfacePlugin)
	}
	if c.Surface.PollInterval < 0 {
		return fmt.Errorf("surface poll interval must be positive, got %s", c.Surface.PollInterval)
	}
	if c.Surface.PollAttempts < 0 {
		return fmt.Errorf("surface poll attempts must be positive, got %d", c.Surface.PollAttempts)
	}
	if c.Surface.Checksum != "" {
		if _, err := security.ParseChecksum(c.Surface.Checksum); err != nil {
			return fmt.Errorf("invalid surface checksum: %w", err)
		}
	}
	if !imagegen.IsValidBackend(c.Images.GenerateBackend) {
		return fmt.Errorf("unknown image generation backend %q", c.Images.GenerateBackend)
	}
	return nil
}

// expandPath expands a leading ~ and environment variables.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return os.ExpandEnv(path)
}
