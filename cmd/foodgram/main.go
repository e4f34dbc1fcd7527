package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodgram-app/backend/internal/api"
	"github.com/foodgram-app/backend/internal/config"
	"github.com/foodgram-app/backend/internal/env"
	"github.com/foodgram-app/backend/internal/http"
	"github.com/foodgram-app/backend/internal/log"
	"github.com/foodgram-app/backend/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	conf, err := config.LoadConfig()
	if err != nil {
		log.New(nil).Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := log.New(&slog.HandlerOptions{Level: log.ParseLevel(conf.LogLevel)})

	httpConfig := http.DefaultConfig()
	httpConfig.Logger = logger
	httpClient := http.New(httpConfig)

	fs, err := setup.FileStore(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup file store", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := setup.Database(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	env := &env.Env{
		Logger:    logger,
		FileStore: fs,
		Database:  db,
		HTTP:      httpClient,
		Config:    conf,
	}

	logger.DebugContext(ctx, "setting up admin")
	if err := setup.Admin(setupCtx, env); err != nil {
		logger.Error("failed to setup admin", slog.Any("error", err))
		os.Exit(1)
	}

	if err := api.Start(env); err != nil {
		env.Logger.Error("API Failed", slog.Any("error", err))
		os.Exit(1)
	}
}
