package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brandedtube/brandedtube/internal/cache"
	"github.com/brandedtube/brandedtube/internal/ratelimit"
	"github.com/brandedtube/brandedtube/internal/server"
	"github.com/brandedtube/brandedtube/internal/youtube"
	"github.com/brandedtube/brandedtube/web"
)

const (
	cacheSweepInterval = 10 * time.Minute
	shutdownTimeout    = 10 * time.Second
)

func newServeCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor and player HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := newViper(cmd.Flags(), *configFile)
			if err != nil {
				return err
			}
			cfg, err := loadServeConfig(v)
			if err != nil {
				return err
			}
			level, _ := parseLogLevel(cfg.LogLevel)
			logger := newLogger(os.Stdout, level)
			slog.SetDefault(logger)
			logger.Info("starting brandedtube", "config", cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	registerServeFlags(cmd.Flags())
	return cmd
}

func serve(ctx context.Context, cfg serveConfig, logger *slog.Logger) error {
	store, pinger, closeStore, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var metadata server.MetadataLookup
	if cfg.MetadataEnabled {
		metadata = youtube.NewMetadataClient(youtube.MetadataConfig{
			Cache: store,
			TTL:   cfg.MetadataTTL,
		})
	}

	wsLimiter := ratelimit.NewLimiter(cfg.WSRate, cfg.WSBurst)
	apiLimiter := ratelimit.NewLimiter(cfg.APIRate, cfg.APIBurst)
	go wsLimiter.Run(ctx)
	go apiLimiter.Run(ctx)

	var assetsFS fs.FS
	if sub, err := fs.Sub(web.StaticFS, "static"); err == nil {
		assetsFS = sub
	} else {
		logger.Warn("embedded assets unavailable", "error", err)
	}

	srv := server.New(server.Config{
		BaseURL:        cfg.BaseURL,
		FrameAncestors: cfg.FrameAncestors,
		PollInterval:   cfg.PollInterval,
		Metadata:       metadata,
		Pinger:         pinger,
		WSLimiter:      wsLimiter,
		APILimiter:     apiLimiter,
		AssetsFS:       assetsFS,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
		// Player sessions end when the server shuts down.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("brandedtube listening", "addr", cfg.Addr(), "base_url", cfg.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

// openCache picks Redis when an address is configured and falls back to an
// in-process cache otherwise. Only Redis is reported to the health check.
func openCache(ctx context.Context, cfg serveConfig, logger *slog.Logger) (cache.Store, server.Pinger, func(), error) {
	if cfg.RedisAddr == "" {
		mem := cache.NewMemory()
		mem.StartSweeper(ctx, cacheSweepInterval)
		logger.Info("metadata cache ready", "backend", "memory")
		return mem, nil, func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	r, err := cache.NewRedis(connectCtx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect metadata cache: %w", err)
	}
	logger.Info("metadata cache ready", "backend", "redis", "addr", cfg.RedisAddr)
	return r, r, func() {
		if err := r.Close(); err != nil {
			logger.Warn("failed to close redis", "error", err)
		}
	}, nil
}
