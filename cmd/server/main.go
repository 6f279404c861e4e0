package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/senseflash/internal/api"
	"github.com/vytor/senseflash/internal/clock"
	"github.com/vytor/senseflash/internal/config"
	"github.com/vytor/senseflash/internal/content"
	"github.com/vytor/senseflash/internal/db"
	"github.com/vytor/senseflash/internal/jobs"
	"github.com/vytor/senseflash/internal/kvstore"
	"github.com/vytor/senseflash/internal/legacy"
	"github.com/vytor/senseflash/internal/logger"
	"github.com/vytor/senseflash/internal/remote"
	kvrepo "github.com/vytor/senseflash/internal/repository/kv"
	"github.com/vytor/senseflash/internal/rollover"
	"github.com/vytor/senseflash/internal/services"
	"github.com/vytor/senseflash/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("SenseFlash Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("chunk_size=%d", cfg.ChunkSize)
	log.Debug("tz_offset_hours=%d", cfg.TZOffsetHours)
	log.Debug("answer_timeout=%s", cfg.AnswerTimeout)
	log.Debug("progress_tick=%s", cfg.ProgressTick)
	log.Debug("remote_enabled=%t", cfg.RemoteEnabled())
	log.Debug("sync_worker_count=%d", cfg.SyncWorkerCount)
	log.Debug("sync_queue_size=%d", cfg.SyncQueueSize)
	log.Debug("rollover_check_seconds=%d", cfg.RolloverCheckSeconds)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	store := kvstore.NewSQLite(database.DB)
	clk := clock.New(clock.WithOffsetHours(cfg.TZOffsetHours))

	// Content source and remote sync
	catalog := content.NewCatalog(database.DB)
	if cfg.ContentFile != "" {
		res, err := content.ImportFile(ctx, content.ImportConfig{FilePath: cfg.ContentFile}, catalog)
		if err != nil {
			log.Error("failed to import %s: %v", cfg.ContentFile, err)
			os.Exit(1)
		}
		log.Info("imported %d rows from %s (%d skipped)", res.Imported, cfg.ContentFile, res.Skipped)
	}

	var source content.Source = catalog
	var remoteClient remote.Client
	syncQueue := jobs.NewDisabledQueue()
	syncPool := worker.NewPool(cfg.SyncWorkerCount, cfg.SyncQueueSize)
	if cfg.RemoteEnabled() {
		client := remote.New(cfg.RemoteURL, cfg.RemoteAPIKey, cfg.RemoteTimeout)
		source = client
		remoteClient = client
		syncQueue = jobs.NewWorkerQueue(syncPool, client)
		syncPool.Start(ctx)
	}

	// Initialize services
	learningService := services.NewLearningService(services.Deps{
		Store:     store,
		Words:     kvrepo.NewWordRepository(store),
		Statuses:  kvrepo.NewStatusRepository(store),
		Users:     kvrepo.NewUserRepository(store),
		Lists:     kvrepo.NewLearningListRepository(store),
		Settings:  kvrepo.NewSettingsRepository(store),
		Content:   source,
		Remote:    remoteClient,
		Sync:      syncQueue,
		Clock:     clk,
		ChunkSize: cfg.ChunkSize,
		Session: services.SessionOptions{
			AnswerTimeout: cfg.AnswerTimeout,
			ProgressTick:  cfg.ProgressTick,
		},
	})
	learningService.LoadCustomToday(ctx)
	legacyService := services.NewLegacyService(legacy.NewStore(store), clk)

	watcher := rollover.New(learningService, time.Duration(cfg.RolloverCheckSeconds)*time.Second)
	if err := watcher.Start(ctx); err != nil {
		log.Error("failed to start rollover watcher: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		Learning: learningService,
		Legacy:   legacyService,
		DB:       database.DB,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping rollover watcher")
	watcher.Stop()
	learningService.CloseSession(ctx)

	// Pending sync jobs drain before the worker context is cancelled
	log.Debug("stopping sync pool")
	syncPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("SenseFlash Server Stopped")
	log.Info("===========================================")
}
