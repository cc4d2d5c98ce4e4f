package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ColorMode controls when terminal output is colourised.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds the ambient settings of a single invocation. Request inputs
// (URL and body pairs) come from positional arguments, not from here.
type Config struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	Color      ColorMode     `mapstructure:"color"`
	Verbose    bool          `mapstructure:"verbose"`
	ConfigFile string        `mapstructure:"-"`
}

// Default returns the settings used when nothing is configured. A zero timeout
// leaves the transport without an overall deadline.
func Default() *Config {
	return &Config{
		Timeout: 0,
		Color:   ColorAuto,
	}
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if c.Timeout < 0 {
		issues = append(issues, "timeout must be >= 0")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		issues = append(issues, fmt.Sprintf("color mode %q is not supported (use auto, always or never)", c.Color))
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

// ErrInvalidURL is returned by ValidateURL for anything that is not an absolute URL.
var ErrInvalidURL = errors.New("invalid URL")

// ValidateURL checks that raw is an absolute URL with a scheme and a host and
// returns it unchanged.
func ValidateURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidURL, "%q: %v", raw, err)
	}
	if u.Scheme == "" {
		return "", errors.Wrapf(ErrInvalidURL, "%q: missing scheme", raw)
	}
	if u.Host == "" {
		return "", errors.Wrapf(ErrInvalidURL, "%q: missing host", raw)
	}
	return raw, nil
}
