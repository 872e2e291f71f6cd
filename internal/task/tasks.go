package task

import (
	"encoding/json"
	"fmt"

	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/hibiken/asynq"
)

const TypeSendNotification = "notification:send"

type SendNotificationPayload struct {
	Message model.Notification `json:"message"`
}

// NewSendNotificationTask creates an Asynq task announcing an upload. Failed deliveries are not retried.
func NewSendNotificationTask(msg model.Notification) (*asynq.Task, error) {
	p := SendNotificationPayload{Message: msg}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal send-notification payload: %w", err)
	}
	return asynq.NewTask(TypeSendNotification, data, asynq.MaxRetry(0)), nil
}

// ParseSendNotificationPayload parses the task payload to SendNotificationPayload.
func ParseSendNotificationPayload(t *asynq.Task) (SendNotificationPayload, error) {
	var p SendNotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return SendNotificationPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
