package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/erikahunting/white-shark-paina/internal/adapter/httpadapter"
	kafkaadapter "github.com/erikahunting/white-shark-paina/internal/adapter/kafka"
	"github.com/erikahunting/white-shark-paina/internal/config"
	"github.com/erikahunting/white-shark-paina/internal/observability"
	"github.com/erikahunting/white-shark-paina/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var (
		loaders []pipeline.BatchLoader
		writer  *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic, "encoding", cfg.KafkaEncoding)
	} else {
		logger.Info("kafka sink disabled")
	}

	svc := pipeline.NewService(loaders, logger, metrics, cfg.LoadMaxAttempts)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, httpadapter.Options{
		DefaultPolicy:  cfg.Policy,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
