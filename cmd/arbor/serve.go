package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jacentio/arbor/internal/httpapi"
	"github.com/jacentio/arbor/metrics"
	"github.com/jacentio/arbor/mutation"
	"github.com/jacentio/arbor/pubsub"
	"github.com/jacentio/arbor/query"
	"github.com/jacentio/arbor/resolve"
	"github.com/jacentio/arbor/store"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string

	// onReady is called with the bound address once the listener is open.
	onReady func(net.Addr)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the data layer over HTTP",
		Long: `Load the seed dataset and serve queries, mutations and
Server-Sent Event subscriptions over HTTP.

SIGINT or SIGTERM closes open subscriptions and shuts the server down
gracefully within the configured shutdown timeout.

Example:
  arbor serve
  arbor serve --listen 127.0.0.1:9000 --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (overrides config)")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	cfg := opts.Config
	logger := opts.Logger
	if opts.Listen != "" {
		cfg.Listen = opts.Listen
	}

	seed, err := loadSeed(cfg.Seed)
	if err != nil {
		return err
	}

	var collector metrics.Collector = metrics.NewNoopCollector()
	var promCollector *metrics.PrometheusCollector
	if cfg.Metrics.Enabled {
		promCollector = metrics.NewPrometheusCollector()
		collector = promCollector
	}

	s := store.New(store.DefaultConfig())
	if err := s.Load(seed); err != nil {
		return WrapExitError(ExitFailure, "failed to load seed", err)
	}
	counts := s.Counts()
	logger.Info("store loaded",
		"accounts", counts[store.KindAccount],
		"posts", counts[store.KindPost],
		"comments", counts[store.KindComment],
	)

	bus := pubsub.New(pubsub.Config{Buffer: cfg.Bus.Buffer},
		pubsub.WithLogger(logger),
		pubsub.WithMetrics(collector),
	)

	apiOpts := []httpapi.Option{httpapi.WithLogger(logger)}
	if promCollector != nil {
		handler := promhttp.HandlerFor(promCollector.Registry(), promhttp.HandlerOpts{})
		apiOpts = append(apiOpts, httpapi.WithHandler("GET "+cfg.Metrics.Path, handler))
	}
	api := httpapi.New(
		query.New(s),
		resolve.New(s, logger),
		mutation.New(s, bus, mutation.WithLogger(logger), mutation.WithMetrics(collector)),
		bus,
		apiOpts...,
	)

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to listen", err)
	}

	// No WriteTimeout: subscription streams stay open indefinitely.
	server := &http.Server{
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
	// Streams only end once the bus closes, so Shutdown can go idle.
	server.RegisterOnShutdown(func() {
		_ = bus.Close(context.Background())
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()

	logger.Info("server listening", "addr", ln.Addr().String())
	fmt.Fprintf(cmd.OutOrStdout(), "arbor listening on %s\n", ln.Addr())
	if opts.onReady != nil {
		opts.onReady(ln.Addr())
	}

	select {
	case err := <-serveErr:
		_ = bus.Close(context.Background())
		return WrapExitError(ExitFailure, "server error", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown server: %w", err))
	}
	if err := bus.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return WrapExitError(ExitFailure, "unclean shutdown", errors.Join(errs...))
	}

	logger.Info("server stopped gracefully")
	return nil
}
