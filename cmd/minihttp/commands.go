package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/torosent/minihttp/internal/config"
	"github.com/torosent/minihttp/internal/httpclient"
	"github.com/torosent/minihttp/internal/kv"
	"github.com/torosent/minihttp/internal/logger"
	"github.com/torosent/minihttp/internal/output"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg    *config.Config
	log    *zap.SugaredLogger
	client *httpclient.Client
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:               "minihttp",
		Short:             "A tiny HTTP client with pretty output",
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	config.RegisterFlags(cmd)

	cmd.AddCommand(a.getCommand(), a.postCommand())
	return cmd
}

// setup resolves configuration and builds the client with its default headers.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewLoader().Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.NewWithWriter(a.stderr, cfg.Verbose)
	a.log.Debugw("configuration loaded",
		"timeout", cfg.Timeout,
		"color", cfg.Color,
		"config_file", cfg.ConfigFile,
	)
	a.client = httpclient.NewClient(httpclient.Options{
		Timeout: cfg.Timeout,
		Version: version,
		Logger:  a.log,
	})
	return nil
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <url>",
		Short: "Send a GET request",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return err
			}
			_, err := config.ValidateURL(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(resp)
		},
	}
}

func (a *app) postCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "post <url> [key=value ...]",
		Short: "Send a POST request with a JSON body built from key=value pairs",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return err
			}
			if _, err := config.ValidateURL(args[0]); err != nil {
				return err
			}
			_, err := kv.ParseAll(args[1:])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := kv.ParseAll(args[1:])
			if err != nil {
				return err
			}
			resp, err := a.client.Post(cmd.Context(), args[0], pairs)
			if err != nil {
				return err
			}
			return a.render(resp)
		},
	}
}

func (a *app) render(resp *httpclient.Response) error {
	return output.NewRenderer(a.stdout, a.cfg.Color).Render(resp)
}
