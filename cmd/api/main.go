package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skohara/org-stats-aggregator/internal/aggregator"
	"github.com/skohara/org-stats-aggregator/internal/api"
	"github.com/skohara/org-stats-aggregator/internal/config"
	"github.com/skohara/org-stats-aggregator/internal/source"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Initialize source clients
	githubClient, err := source.NewGitHubClient(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize GitHub client: %v", err)
	}
	bitbucketClient := source.NewBitbucketClient(cfg, logger)

	// Initialize aggregator
	agg := aggregator.New(githubClient, bitbucketClient, cfg.UpstreamTimeout, logger)

	// Initialize handler
	handler := api.NewHandler(agg)

	// Setup routes
	router := api.SetupRoutes(handler, logger)

	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("starting API server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("failed to stop server gracefully", slog.Any("err", err))
	}
}
