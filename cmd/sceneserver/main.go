package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RoomEditor/internal/config"
	"RoomEditor/internal/logger"
	"RoomEditor/internal/metrics"
	"RoomEditor/internal/sceneserver"
	"RoomEditor/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("ROOMEDITOR_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer kv.Close()

	srv := sceneserver.New(kv, sceneserver.Options{
		Config:   cfg.Server,
		Metrics:  metrics.New(prometheus.DefaultRegisterer),
		Gatherer: prometheus.DefaultGatherer,
	})

	go func() {
		<-ctx.Done()
		logger.Log.Info("Shutting down scene server")
		if err := srv.Shutdown(); err != nil {
			logger.Log.Warn("Shutdown failed", zap.Error(err))
		}
	}()

	logger.Log.Info("Starting scene server",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Environment),
		zap.String("storage", cfg.Storage.Driver))
	if err := srv.Listen(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil {
		logger.Log.Fatal("Failed to start server", zap.Error(err))
	}
}
