package worker

import (
	"context"
	"fmt"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/notify"
	"github.com/fhuszti/upload-relay-go/internal/task"
	"github.com/hibiken/asynq"
)

// SendNotificationHandler delivers one queued announcement. Delivery failures are final.
func SendNotificationHandler(ctx context.Context, p task.SendNotificationPayload, sender notify.Sender) error {
	if err := sender.Send(ctx, p.Message); err != nil {
		logger.Errorf(ctx, "❌  Failed to deliver notification for %q: %v", p.Message.ActionURL, err)
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return nil
}
