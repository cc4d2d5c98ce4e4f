package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override settings, e.g. MINIHTTP_COLOR.
const EnvPrefix = "MINIHTTP"

var settingKeys = []string{"timeout", "color", "verbose"}

// Loader resolves a Config from an optional file, the environment and flags,
// in increasing order of precedence.
type Loader struct{}

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load builds a Config from the already-parsed flag set.
func (l Loader) Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range settingKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
	}

	if fs != nil {
		if flag := fs.Lookup("config"); flag != nil {
			cfg.ConfigFile = strings.TrimSpace(flag.Value.String())
		}
	}
	if cfg.ConfigFile != "" {
		v.SetConfigFile(cfg.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfg.ConfigFile)
		}
	}

	if err := applySettings(cfg, v); err != nil {
		return nil, err
	}

	if fs != nil {
		if err := applyFlagOverrides(cfg, fs); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applySettings copies values found in the config file or environment onto cfg.
func applySettings(cfg *Config, v *viper.Viper) error {
	if v.IsSet("timeout") {
		val, err := asDuration(v.Get("timeout"))
		if err != nil {
			return errors.Wrap(err, "timeout")
		}
		cfg.Timeout = val
	}

	if v.IsSet("color") {
		val, err := asString(v.Get("color"))
		if err != nil {
			return errors.Wrap(err, "color")
		}
		if val = strings.ToLower(strings.TrimSpace(val)); val != "" {
			cfg.Color = ColorMode(val)
		}
	}

	if v.IsSet("verbose") {
		val, err := asBool(v.Get("verbose"))
		if err != nil {
			return errors.Wrap(err, "verbose")
		}
		cfg.Verbose = val
	}

	return nil
}
