package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/theme"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	osc8Modes  = map[string]bool{"auto": true, "on": true, "off": true}
	logLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"text": true, "json": true}
)

// Validate normalizes enumerations to lower case and reports every invalid
// setting at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	c.Theme = normalize(c.Theme, "default")
	if _, ok := theme.Get(c.Theme); !ok {
		errs = multierror.Append(errs, fmt.Errorf("unknown theme %q (available: %s)", c.Theme, strings.Join(theme.Names(), ", ")))
	}

	c.SoftBreak = normalize(c.SoftBreak, "space")
	if _, err := markdown.ParseSoftBreakMode(c.SoftBreak); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("soft_break: %w", err))
	}

	c.OSC8 = normalize(c.OSC8, "auto")
	if !osc8Modes[c.OSC8] {
		errs = multierror.Append(errs, fmt.Errorf("osc8: %q is not one of auto|on|off", c.OSC8))
	}

	if c.Width < 0 {
		errs = multierror.Append(errs, fmt.Errorf("width: must not be negative, got %d", c.Width))
	}
	if c.ImageTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("image_timeout: must not be negative, got %s", c.ImageTimeout))
	}
	if c.ReadTimeout < 0 {
		errs = multierror.Append(errs, fmt.Errorf("read_timeout: must not be negative, got %s", c.ReadTimeout))
	}

	for name, raw := range map[string]string{"base_url": c.BaseURL, "image_base_url": c.ImageBaseURL} {
		if raw == "" {
			continue
		}
		if _, err := parseAbsoluteURL(raw); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if _, err := theme.ParseColors(c.LinkGradient); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("link_gradient: %w", err))
	} else if len(c.LinkGradient) == 1 {
		errs = multierror.Append(errs, fmt.Errorf("link_gradient: needs at least two colors"))
	}

	c.Log.Level = normalize(c.Log.Level, "info")
	if !logLevels[c.Log.Level] {
		errs = multierror.Append(errs, fmt.Errorf("log.level: %q is not one of debug|info|warn|error", c.Log.Level))
	}
	c.Log.Format = normalize(c.Log.Format, "text")
	if !logFormats[c.Log.Format] {
		errs = multierror.Append(errs, fmt.Errorf("log.format: %q is not one of text|json", c.Log.Format))
	}

	return errs.ErrorOrNil()
}

func normalize(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}

func parseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%q is not an absolute URL", raw)
	}
	return u, nil
}

// ThemeValue returns the configured theme with the link gradient applied.
func (c Config) ThemeValue() theme.Theme {
	t, ok := theme.Get(c.Theme)
	if !ok {
		t = theme.Default()
	}
	if colors := c.Gradient(); len(colors) > 1 {
		t.LinkGradient = colors
	}
	return t
}

// Gradient returns the parsed link gradient, or nil.
func (c Config) Gradient() []colorful.Color {
	colors, err := theme.ParseColors(c.LinkGradient)
	if err != nil {
		return nil
	}
	return colors
}

// SoftBreakMode returns the parsed soft break setting.
func (c Config) SoftBreakMode() markdown.SoftBreakMode {
	mode, err := markdown.ParseSoftBreakMode(c.SoftBreak)
	if err != nil {
		return markdown.SoftBreakSpace
	}
	return mode
}

// LinkBase returns base_url, or nil when unset.
func (c Config) LinkBase() *url.URL {
	return optionalURL(c.BaseURL)
}

// ImageBase returns image_base_url, or nil when unset.
func (c Config) ImageBase() *url.URL {
	return optionalURL(c.ImageBaseURL)
}

func optionalURL(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := parseAbsoluteURL(raw)
	if err != nil {
		return nil
	}
	return u
}
