package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"opusconsulting.gr/opus-web/internal/config"
	"opusconsulting.gr/opus-web/internal/httpserver"
	"opusconsulting.gr/opus-web/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "opus-web: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, serves until ctx is cancelled and then drains
// in-flight requests within the shutdown timeout.
func run(ctx context.Context, args []string, stderr io.Writer, opts ...config.Option) error {
	flags := flag.NewFlagSet("web", flag.ContinueOnError)
	flags.SetOutput(stderr)
	addr := flags.String("addr", "", "HTTP listen address (overrides OPUS_WEB_ADDR)")
	envFile := flags.String("env-file", ".env", "dotenv file with local overrides")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(append([]config.Option{config.WithEnvFile(*envFile)}, opts...)...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("web")

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	logger.Info("web listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("env", cfg.Environment),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received; draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newServer(cfg config.Config, logger *zap.Logger) (*http.Server, error) {
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}
	srv, err := httpserver.New(httpserver.Config{
		Address:         cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		SecureCookies:   cfg.IsProduction(),
		SessionKey:      []byte(cfg.Session.SigningKey),
		SessionTTL:      cfg.Session.TTL,
		ContentCacheTTL: cfg.Content.CacheTTL,
		Logger:          logger,
		Metrics:         metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("build server: %w", err)
	}
	return srv, nil
}
