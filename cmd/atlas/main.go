package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/haneulgyeol/cloud-atlas/internal/adapter/http"
	"github.com/haneulgyeol/cloud-atlas/internal/adapter/classifier"
	"github.com/haneulgyeol/cloud-atlas/internal/assets"
	"github.com/haneulgyeol/cloud-atlas/internal/catalog"
	"github.com/haneulgyeol/cloud-atlas/internal/config"
	"github.com/haneulgyeol/cloud-atlas/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	logger.Info("catalog loaded", "genera", len(cat.Genera()))

	store, err := assets.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open asset store", "driver", cfg.AssetDriver, "error", err)
		os.Exit(1)
	}

	client := classifier.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout, metrics, logger)
	cached := classifier.NewCachedClassifier(client, cfg.ClassifierCacheSize, metrics)
	logger.Info("classifier configured", "url", cfg.ClassifierURL, "timeout", cfg.ClassifierTimeout, "cache_size", cfg.ClassifierCacheSize)

	srv, err := httpadapter.NewServer(cfg, cat, store, cached, metrics, logger)
	if err != nil {
		logger.Error("failed to create http server", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
