package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

func TestSend_PostsAdaptiveCard(t *testing.T) {
	var got map[string]any
	var gotCT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("invalid JSON: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTeamsNotifier(srv.URL, time.Second)
	msg := model.NewUploadNotification("", "report-1700000000000.pdf", "https://s3/x?sig=1")
	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q", gotCT)
	}
	atts := got["attachments"].([]any)
	if len(atts) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(atts))
	}
	att := atts[0].(map[string]any)
	if att["contentType"] != "application/vnd.microsoft.card.adaptive" {
		t.Errorf("contentType = %v", att["contentType"])
	}
	card := att["content"].(map[string]any)
	if card["$schema"] != "http://adaptivecards.io/schemas/adaptive-card.json" || card["version"] != "1.2" || card["type"] != "AdaptiveCard" {
		t.Errorf("unexpected card header %v", card)
	}
	body := card["body"].([]any)
	if body[0].(map[string]any)["text"] != "File Upload Notification" {
		t.Errorf("title = %v", body[0])
	}
	if body[1].(map[string]any)["text"] != "A new file has been uploaded." {
		t.Errorf("text = %v", body[1])
	}
	facts := body[2].(map[string]any)["facts"].([]any)
	if f := facts[0].(map[string]any); f["title"] != "Team Name" || f["value"] != "N/A" {
		t.Errorf("facts[0] = %v", f)
	}
	if f := facts[1].(map[string]any); f["title"] != "Filename:" || f["value"] != "report-1700000000000.pdf" {
		t.Errorf("facts[1] = %v", f)
	}
	action := card["actions"].([]any)[0].(map[string]any)
	if action["type"] != "Action.OpenUrl" || action["title"] != "View File" || action["url"] != "https://s3/x?sig=1" {
		t.Errorf("action = %v", action)
	}
}

func TestSend_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad card"))
	}))
	defer srv.Close()

	err := NewTeamsNotifier(srv.URL, time.Second).Send(context.Background(), model.Notification{})
	if !errors.Is(err, upload.ErrNotificationDelivery) {
		t.Fatalf("expected ErrNotificationDelivery, got %v", err)
	}
	var dErr *DeliveryError
	if !errors.As(err, &dErr) || dErr.StatusCode != http.StatusBadRequest || dErr.Body != "bad card" {
		t.Errorf("unexpected delivery error %+v", dErr)
	}
}

func TestSend_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	err := NewTeamsNotifier(addr, time.Second).Send(context.Background(), model.Notification{})
	if !errors.Is(err, upload.ErrNotificationDelivery) {
		t.Fatalf("expected ErrNotificationDelivery, got %v", err)
	}
}

func TestSend_NoWebhookConfigured(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.SetHandler(slog.NewTextHandler(buf, nil))

	// any outbound request panics
	n := &TeamsNotifier{client: &http.Client{Transport: panicTransport{}}}
	if err := n.Send(context.Background(), model.Notification{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if !strings.Contains(buf.String(), "skipping Teams notification") {
		t.Errorf("expected skip notice, got %q", buf.String())
	}
}

type panicTransport struct{}

func (panicTransport) RoundTrip(*http.Request) (*http.Response, error) {
	panic("no network call expected")
}
