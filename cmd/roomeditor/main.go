package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RoomEditor/editor"
	"RoomEditor/internal/config"
	"RoomEditor/internal/console"
	"RoomEditor/internal/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("ROOMEDITOR_CONFIG"), "path to a YAML config file")
	sceneID := flag.String("scene", "", "scene id to load from the server")
	discard := flag.Bool("discard", false, "clear local work on exit instead of keeping it")
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

	ctrl, closeStorage, err := editor.FromConfig(ctx, cfg, nil)
	if err != nil {
		logger.Log.Fatal("Failed to set up editor", zap.Error(err))
	}
	defer closeStorage()
	defer ctrl.Close(*discard)

	if err := ctrl.Mount(ctx, *sceneID); err != nil {
		logger.Log.Error("Failed to load scene", zap.String("scene", *sceneID), zap.Error(err))
		return
	}

	if err := console.New(ctrl, nil).Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Log.Error("Console stopped", zap.Error(err))
	}
}
