package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/cache"
	"github.com/fhuszti/upload-relay-go/internal/config"
	"github.com/fhuszti/upload-relay-go/internal/db"
	"github.com/fhuszti/upload-relay-go/internal/handler/api"
	"github.com/fhuszti/upload-relay-go/internal/keygen"
	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/model"
	"github.com/fhuszti/upload-relay-go/internal/notify"
	"github.com/fhuszti/upload-relay-go/internal/repository"
	"github.com/fhuszti/upload-relay-go/internal/repository/mariadb"
	"github.com/fhuszti/upload-relay-go/internal/session"
	"github.com/fhuszti/upload-relay-go/internal/storage"
	"github.com/fhuszti/upload-relay-go/internal/task"
	uploadSvc "github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

// dispatcher is a notification dispatcher that can be drained on shutdown.
type dispatcher interface {
	uploadSvc.NotificationDispatcher
	Wait()
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}

	logger.Init()
	logger.Info(ctx, "configuration loaded", "region", cfg.S3Region, "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)

	strg := initStorage(ctx, cfg)
	initBucket(ctx, strg, cfg.S3Bucket)

	var closers []func() error

	ledger, closeLedger := initLedger(ctx, cfg)
	if closeLedger != nil {
		closers = append(closers, closeLedger)
	}

	revoker, dsp, notifyClosers := initNotifications(ctx, cfg)
	closers = append(closers, notifyClosers...)

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, revoker, cfg.SecureCookies)
	signer := uploadSvc.NewLinkSigner(strg, time.Now)
	relayer := uploadSvc.NewRelayer(
		keygen.NewDeriver(time.Now),
		strg,
		signer,
		dsp,
		ledger,
		model.NewUploadID,
		uploadSvc.Config{Bucket: cfg.S3Bucket, LinkTTL: cfg.LinkTTL},
	)

	logger.Info(ctx, "initialising router...")
	r := api.NewRouter(api.RouterDeps{
		Sessions:       sessions,
		Passcode:       cfg.Passcode,
		Relayer:        relayer,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	listenRouter(ctx, r, cfg, dsp, closers)
}

func initStorage(ctx context.Context, cfg *config.Settings) *storage.MinioStorage {
	strg, err := storage.NewMinioStorage(
		cfg.S3Endpoint,
		cfg.S3AccessKey,
		cfg.S3SecretKey,
		cfg.S3Region,
		cfg.S3UseSSL,
	)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize storage client: %v", err)
		os.Exit(1)
	}
	return strg
}

// initBucket only checks the bucket when one is configured. A missing bucket is reported
// per upload instead of preventing startup.
func initBucket(ctx context.Context, strg *storage.MinioStorage, bucket string) {
	if bucket == "" {
		logger.Warn(ctx, "⚠️  S3_BUCKET_NAME is not set, uploads will fail with a configuration error")
		return
	}
	if err := strg.InitBucket(ctx, bucket); err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", bucket, err)
		os.Exit(1)
	}
}

func initLedger(ctx context.Context, cfg *config.Settings) (uploadSvc.Ledger, func() error) {
	if cfg.MariaDBDSN == "" {
		logger.Warn(ctx, "⚠️  MARIADB_DSN not set, uploads are not recorded")
		return repository.NewNoopLedger(), nil
	}

	logger.Info(ctx, "initialising database...")
	database, err := db.NewFromConfig(db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return mariadb.NewUploadRepository(database.DB), database.Close
}

// initNotifications picks the revocation store and the notification path. With Redis the
// webhook is only read by cmd/worker.
func initNotifications(ctx context.Context, cfg *config.Settings) (session.Revoker, dispatcher, []func() error) {
	if cfg.RedisAddr != "" {
		store := cache.NewRevocationStore(cfg.RedisAddr, cfg.RedisPassword)
		taskDsp := task.NewDispatcher(cfg.RedisAddr, cfg.RedisPassword)
		logger.Info(ctx, "✅  Redis enabled: sessions can be revoked, notifications go through the worker")
		return store, taskDsp, []func() error{store.Close, taskDsp.Close}
	}

	logger.Warn(ctx, "⚠️  Redis not configured: logout only clears the cookie, notifications are sent in-process")
	if cfg.TeamsWebhookURL == "" {
		logger.Warn(ctx, "⚠️  TEAMS_WEBHOOK_URL is not set, uploads will not be announced")
	}
	dsp := notify.NewAsyncDispatcher(notify.NewTeamsNotifier(cfg.TeamsWebhookURL, cfg.NotifyTimeout))
	return cache.NewNoop(), dsp, nil
}

func listenRouter(ctx context.Context, r http.Handler, cfg *config.Settings, dsp dispatcher, closers []func() error) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start serving
	go func() {
		logger.Infof(ctx, "🚀 API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(ctx, "❌  Listen error: %v", err)
			os.Exit(1)
		}
	}()

	// block until we get SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "❌  Server shutdown failed: %v", err)
		os.Exit(1)
	}

	// let in-flight notifications finish
	dsp.Wait()
	logger.Info(ctx, "✅  Server gracefully stopped")

	for _, c := range closers {
		if err := c(); err != nil {
			logger.Warnf(ctx, "close error: %v", err)
		}
	}
}
