package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/config"
	workerHandler "github.com/fhuszti/upload-relay-go/internal/handler/worker"
	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/notify"
	"github.com/fhuszti/upload-relay-go/internal/task"
	"github.com/hibiken/asynq"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()

	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	if cfg.TeamsWebhookURL == "" {
		logger.Warn(ctx, "⚠️  TEAMS_WEBHOOK_URL is not set, queued notifications will be skipped")
	}
	notifier := notify.NewTeamsNotifier(cfg.TeamsWebhookURL, cfg.NotifyTimeout)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeSendNotification, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseSendNotificationPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.SendNotificationHandler(ctx, p, notifier)
	})

	runWorker(ctx, mux, cfg)
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{
		Concurrency:     5,
		ShutdownTimeout: 15 * time.Second,
		Logger:          asynqLogger{},
	})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// stop accepting new tasks, finish in-flight ones within ShutdownTimeout
	srv.Shutdown()
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
