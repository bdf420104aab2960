package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudpulse/app/api"
	"cloudpulse/app/cache"
	"cloudpulse/app/cfg"
	"cloudpulse/app/channels"
	"cloudpulse/app/database"
	"cloudpulse/app/eos"
	"cloudpulse/app/feed"
	"cloudpulse/app/incidents"
	"cloudpulse/app/sources"
	"cloudpulse/app/tasks"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if c.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Cloud Pulse server", "version", cfg.GetVersion())

	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", c.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	channelCache := channels.NewCache(c.ChannelsDir)
	if err := channelCache.Run(); err != nil {
		slog.Error("Failed to load channel configurations", "dir", c.ChannelsDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Channel configurations loaded", "count", channelCache.GetChannelCount())

	httpClient := &http.Client{}
	snapshots := database.NewSnapshotRepository(db)
	store := cache.NewStore(
		time.Duration(c.CacheFreshness)*time.Second,
		time.Duration(c.CacheRetention)*time.Second,
		snapshots,
	)

	client := sources.NewClient(httpClient, c.FeedURL, c.IncidentsURL, c.UserAgent)
	collector := sources.NewCollector(channelCache, httpClient, feed.NewParser(), feed.NewContentExtractor(), c.UserAgent)

	// A configured remote feed API takes precedence; otherwise the channels
	// are aggregated directly.
	feedLoad := collector.Collect
	if c.FeedURL != "" {
		feedLoad = client.GetFeed
	}
	incidentsLoad := client.GetIncidents

	synthesizer := eos.NewSynthesizer(eos.NewClient(httpClient, c.GeminiModel, c.GeminiAPIKey), c.GeminiAPIKey)
	eosLoad := func(ctx context.Context) ([]feed.Item, error) {
		return synthesizer.Run(ctx), nil
	}

	aggregator := incidents.NewAggregator(incidents.ClipboardCopier{}, incidents.LogNotifier{})

	scheduler := tasks.NewScheduler(store, feedLoad, incidentsLoad, synthesizer)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", c.WorkerCount, "interval", c.SchedulerInterval)

	handler := api.NewHandler(store, feedLoad, incidentsLoad, eosLoad,
		feed.NewClassifier(), feed.NewNormalizer(), aggregator, channelCache)
	server := api.NewServer(handler, c.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
