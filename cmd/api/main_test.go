package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/upload-relay-go/internal/cache"
	"github.com/fhuszti/upload-relay-go/internal/config"
	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/notify"
	"github.com/fhuszti/upload-relay-go/internal/task"
)

const webhookWarning = "TEAMS_WEBHOOK_URL is not set"

func TestInitNotifications_InProcess(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.SetHandler(slog.NewTextHandler(buf, nil))

	revoker, dsp, closers := initNotifications(context.Background(), &config.Settings{})
	if _, ok := revoker.(*cache.NoopRevocationStore); !ok {
		t.Errorf("revoker = %T; want *cache.NoopRevocationStore", revoker)
	}
	if _, ok := dsp.(*notify.AsyncDispatcher); !ok {
		t.Errorf("dispatcher = %T; want *notify.AsyncDispatcher", dsp)
	}
	if len(closers) != 0 {
		t.Errorf("expected no closers, got %d", len(closers))
	}
	if !strings.Contains(buf.String(), webhookWarning) {
		t.Errorf("expected webhook warning, got %q", buf.String())
	}
}

func TestInitNotifications_RedisLeavesWebhookToWorker(t *testing.T) {
	mr := miniredis.RunT(t)
	buf := &bytes.Buffer{}
	logger.SetHandler(slog.NewTextHandler(buf, nil))

	revoker, dsp, closers := initNotifications(context.Background(), &config.Settings{RedisAddr: mr.Addr()})
	t.Cleanup(func() {
		for _, c := range closers {
			_ = c()
		}
	})
	if _, ok := revoker.(*cache.RevocationStore); !ok {
		t.Errorf("revoker = %T; want *cache.RevocationStore", revoker)
	}
	if _, ok := dsp.(*task.Dispatcher); !ok {
		t.Errorf("dispatcher = %T; want *task.Dispatcher", dsp)
	}
	if len(closers) != 2 {
		t.Errorf("expected 2 closers, got %d", len(closers))
	}
	if strings.Contains(buf.String(), webhookWarning) {
		t.Errorf("webhook warning belongs to the worker, got %q", buf.String())
	}
}
