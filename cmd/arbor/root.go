package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jacentio/arbor/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// RootOptions holds global flags and the state they resolve to.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	// Resolved in PersistentPreRunE.
	Config *config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the root command for the arbor CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "arbor",
		Short:   "arbor - in-memory blog data layer",
		Long:    "An in-memory store of accounts, posts and comments with cascading deletes and live subscriptions.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd.ErrOrStderr())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default $"+config.EnvConfigPath+" or ./"+config.ConfigFileName+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// resolve loads the configuration and builds the process logger.
func (o *RootOptions) resolve(stderr io.Writer) error {
	cfg, path, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid logging config", err)
	}
	slog.SetDefault(logger)

	if path != "" {
		logger.Debug("loaded config", "path", path)
	}
	o.Config = cfg
	o.Logger = logger
	return nil
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch cfg.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("log format %q: %w", cfg.Log.Format, config.ErrInvalid)
	}
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the arbor version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
