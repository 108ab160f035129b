// Package config loads mdview settings from a YAML file, a .env file and
// MDVIEW_* environment variables. Command line flags are applied by the
// caller on top of the result.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "MDVIEW_"

const (
	DefaultImageTimeout = 5 * time.Second
	DefaultReadTimeout  = 30 * time.Second
)

// LogConfig selects where diagnostics go.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
	File   string `yaml:"file"`   // empty discards logs in interactive mode
}

// Config holds every setting that is not tied to a single invocation.
type Config struct {
	Theme        string        `yaml:"theme"`
	SoftBreak    string        `yaml:"soft_break"`     // space|line-break
	BaseURL      string        `yaml:"base_url"`       // resolves relative links
	ImageBaseURL string        `yaml:"image_base_url"` // resolves relative images
	OSC8         string        `yaml:"osc8"`           // auto|on|off
	Width        int           `yaml:"width"`          // 0 uses the terminal width
	CacheDir     string        `yaml:"cache_dir"`
	ImageTimeout time.Duration `yaml:"image_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	NoImages     bool          `yaml:"no_images"`
	Watch        bool          `yaml:"watch"`
	LinkGradient []string      `yaml:"link_gradient"` // hex colors
	Log          LogConfig     `yaml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Theme:        "default",
		SoftBreak:    "space",
		OSC8:         "auto",
		ImageTimeout: DefaultImageTimeout,
		ReadTimeout:  DefaultReadTimeout,
		Watch:        true,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/mdview/config.yaml, falling back to
// ~/.config.
func DefaultPath(getenv func(string) string) string {
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mdview", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mdview", "config.yaml")
}

// DefaultCacheDir is the image cache location used when none is configured.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mdview")
}

// Load reads path on top of the defaults, then applies .env and MDVIEW_*
// overrides and validates the result. A missing file is an error only when
// required is set.
func Load(path string, required bool) (Config, error) {
	if err := LoadEnvFiles(".env", ".env.local"); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && !required:
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := Decode(bytes.NewReader([]byte(os.ExpandEnv(string(data)))), &cfg); err != nil {
				return Config{}, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Decode reads YAML into cfg, keeping the values of absent keys and
// rejecting unknown ones.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// LoadEnvFiles loads the files that exist. Variables already set in the
// environment win.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from MDVIEW_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			*dst = v
		}
	}
	str("THEME", &c.Theme)
	str("SOFT_BREAK", &c.SoftBreak)
	str("BASE_URL", &c.BaseURL)
	str("IMAGE_BASE_URL", &c.ImageBaseURL)
	str("OSC8", &c.OSC8)
	str("CACHE_DIR", &c.CacheDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)

	if v := strings.TrimSpace(getenv(EnvPrefix + "LINK_GRADIENT")); v != "" {
		c.LinkGradient = nil
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				c.LinkGradient = append(c.LinkGradient, part)
			}
		}
	}

	if v := strings.TrimSpace(getenv(EnvPrefix + "WIDTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWIDTH: %w", EnvPrefix, err)
		}
		c.Width = n
	}
	for key, dst := range map[string]*time.Duration{
		"IMAGE_TIMEOUT": &c.ImageTimeout,
		"READ_TIMEOUT":  &c.ReadTimeout,
	} {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = d
		}
	}
	for key, dst := range map[string]*bool{
		"NO_IMAGES": &c.NoImages,
		"WATCH":     &c.Watch,
	} {
		if v := strings.TrimSpace(getenv(EnvPrefix + key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}
	return nil
}
