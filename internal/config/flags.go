package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers the global flags as persistent flags on the root command
// so every subcommand accepts them.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.PersistentFlags())
}

func configureFlags(flags *pflag.FlagSet) {
	flags.Duration("timeout", 0, "Overall request timeout (0 means no timeout)")
	flags.String("color", string(ColorAuto), "Colorize output: auto, always or never")
	flags.BoolP("verbose", "v", false, "Log request details to stderr")
	flags.String("config", "", "Path to configuration file (YAML, JSON or TOML)")
}

// applyFlagOverrides applies explicitly set flags on top of file and environment values.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("timeout") {
		val, err := fs.GetDuration("timeout")
		if err != nil {
			return errors.Wrap(err, "timeout")
		}
		cfg.Timeout = val
	}
	if fs.Changed("color") {
		val, err := fs.GetString("color")
		if err != nil {
			return errors.Wrap(err, "color")
		}
		cfg.Color = ColorMode(strings.ToLower(strings.TrimSpace(val)))
	}
	if fs.Changed("verbose") {
		val, err := fs.GetBool("verbose")
		if err != nil {
			return errors.Wrap(err, "verbose")
		}
		cfg.Verbose = val
	}
	return nil
}
