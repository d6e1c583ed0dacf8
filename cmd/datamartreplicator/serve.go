package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/config"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/consumer"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/datamart"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/health"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lock"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/log"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/metrics"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/schema"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the locking service, scheduler, and Kafka consumer",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	lockCfg, err := cfg.LockConfigFor()
	if err != nil {
		return fmt.Errorf("resolving locking config: %w", err)
	}
	lockService := lock.NewProcessScopeLockingService()
	if err := lockService.Init(lockCfg); err != nil {
		return fmt.Errorf("initializing locking service: %w", err)
	}

	dialect, err := cfg.Dialect()
	if err != nil {
		return fmt.Errorf("resolving database dialect: %w", err)
	}
	db, err := schema.Open(dialect, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	mart := datamart.New(db)

	offsets, err := storage.NewBoltOffsetStore(cfg.Kafka.DataDir)
	if err != nil {
		return fmt.Errorf("opening offset store: %w", err)
	}
	defer offsets.Close()

	consumerCfg := consumer.Config{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.Topic,
		GroupID:     cfg.Kafka.GroupID,
		DataDir:     cfg.Kafka.DataDir,
		QueueSize:   cfg.Kafka.QueueSize,
		AcquireWait: lock.Indefinite,
	}
	c := consumer.New(consumerCfg, lockService, offsets, mart.ProjectChangeEvent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("starting consumer: %w", err)
	}

	registry := health.NewRegistry()
	registry.Register("locking_service", lockService)
	registry.Register("consumer", c)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/readyz", registry.Handler())

	server := &http.Server{Addr: cfg.Server.ListenAddr, Handler: mux}
	go func() {
		log.Logger.Info().Str("addr", cfg.Server.ListenAddr).Msg("metrics and readiness server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Logger.Error().Err(err).Msg("metrics server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Logger.Info().Msg("shutting down")
	c.Stop()
	lockService.Destroy()
	_ = server.Close()

	return nil
}
