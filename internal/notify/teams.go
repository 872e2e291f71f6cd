// Package notify delivers upload announcements to the Teams incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

// DeliveryError is returned when the webhook could not be reached or refused the card.
type DeliveryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("notification delivery failed: webhook answered %d: %s", e.StatusCode, e.Body)
}

func (e *DeliveryError) Unwrap() []error {
	if e.Err != nil {
		return []error{upload.ErrNotificationDelivery, e.Err}
	}
	return []error{upload.ErrNotificationDelivery}
}

type TeamsNotifier struct {
	webhookURL string
	client     *http.Client
}

func NewTeamsNotifier(webhookURL string, timeout time.Duration) *TeamsNotifier {
	return &TeamsNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Send posts msg as an adaptive card. Without a webhook URL it only logs.
func (n *TeamsNotifier) Send(ctx context.Context, msg model.Notification) error {
	if n.webhookURL == "" {
		logger.Warn(ctx, "⚠️  TEAMS_WEBHOOK_URL is not set, skipping Teams notification")
		return nil
	}

	payload, err := json.Marshal(buildCard(msg))
	if err != nil {
		return fmt.Errorf("could not marshal teams card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return &DeliveryError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return &DeliveryError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &DeliveryError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Info(ctx, "✅  Webhook sent to Microsoft Teams")
	return nil
}
