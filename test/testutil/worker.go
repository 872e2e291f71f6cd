package testutil

import (
	"context"
	"time"

	workerHandler "github.com/fhuszti/upload-relay-go/internal/handler/worker"
	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/notify"
	"github.com/fhuszti/upload-relay-go/internal/task"
	"github.com/hibiken/asynq"
)

// StartWorker starts an asynq worker delivering notification tasks to webhookURL.
// It returns a function to gracefully shut down the worker.
func StartWorker(redisAddr, webhookURL string) func() {
	notifier := notify.NewTeamsNotifier(webhookURL, 5*time.Second)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeSendNotification, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseSendNotificationPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.SendNotificationHandler(ctx, p, notifier)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return srv.Shutdown
}
