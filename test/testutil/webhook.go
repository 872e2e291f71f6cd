package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// Webhook is a stand-in for the Teams incoming webhook. It keeps every card it receives.
type Webhook struct {
	*httptest.Server

	mu     sync.Mutex
	cards  []map[string]any
	status int
	recv   chan struct{}
}

func NewWebhook(t *testing.T, status int) *Webhook {
	t.Helper()
	w := &Webhook{status: status, recv: make(chan struct{}, 16)}
	w.Server = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var card map[string]any
		_ = json.Unmarshal(body, &card)

		w.mu.Lock()
		w.cards = append(w.cards, card)
		w.mu.Unlock()

		rw.WriteHeader(w.status)
		w.recv <- struct{}{}
	}))
	t.Cleanup(w.Close)
	return w
}

// WaitForCard blocks until a card arrives or the timeout expires.
func (w *Webhook) WaitForCard(t *testing.T, timeout time.Duration) map[string]any {
	t.Helper()
	select {
	case <-w.recv:
	case <-time.After(timeout):
		t.Fatalf("no webhook call within %s", timeout)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cards[len(w.cards)-1]
}

func (w *Webhook) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.cards)
}
