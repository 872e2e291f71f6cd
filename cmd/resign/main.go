// Command resign prints fresh download links for stored objects whose link could not be
// signed at upload time.
//
//	resign                 re-sign every sign_failed upload in the ledger
//	resign -key some.pdf   re-sign one object, ledger or not
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/config"
	"github.com/fhuszti/upload-relay-go/internal/db"
	"github.com/fhuszti/upload-relay-go/internal/logger"
	"github.com/fhuszti/upload-relay-go/internal/repository"
	"github.com/fhuszti/upload-relay-go/internal/repository/mariadb"
	"github.com/fhuszti/upload-relay-go/internal/storage"
	uploadSvc "github.com/fhuszti/upload-relay-go/internal/usecase/upload"
)

func main() {
	os.Exit(run())
}

func run() int {
	key := flag.String("key", "", "object key to re-sign; when empty the ledger backlog is processed")
	bucket := flag.String("bucket", "", "bucket holding -key (defaults to S3_BUCKET_NAME)")
	limit := flag.Int("limit", 100, "maximum number of backlog entries to re-sign")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		return 1
	}
	logger.Init()

	strg, err := storage.NewMinioStorage(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Region, cfg.S3UseSSL)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize storage client: %v", err)
		return 1
	}

	ledger, closeLedger, err := initLedger(cfg, *key == "")
	if err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		return 1
	}
	defer func() {
		if err := closeLedger(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	resigner := uploadSvc.NewBacklogResigner(ledger, strg, uploadSvc.NewLinkSigner(strg, time.Now), cfg.LinkTTL)

	if *key != "" {
		b := *bucket
		if b == "" {
			b = cfg.S3Bucket
		}
		res, err := resigner.ResignKey(ctx, b, *key)
		if err != nil {
			logger.Errorf(ctx, "❌  Could not re-sign %s/%s: %v", b, *key, err)
			return 1
		}
		printResult(res)
		return 0
	}

	results, err := resigner.ResignBacklog(ctx, *limit)
	if err != nil {
		logger.Errorf(ctx, "❌  Backlog re-signing failed: %v", err)
		return 1
	}
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
		printResult(res)
	}
	logger.Infof(ctx, "✅  Re-signed %d of %d uploads", len(results)-failed, len(results))
	if failed > 0 {
		return 1
	}
	return 0
}

var errLedgerRequired = errors.New("MARIADB_DSN must be set to process the backlog, or pass -key")

// initLedger always returns a usable close func, even for the no-op ledger.
func initLedger(cfg *config.Settings, required bool) (uploadSvc.Ledger, func() error, error) {
	if cfg.MariaDBDSN == "" {
		if required {
			return nil, nil, errLedgerRequired
		}
		return repository.NewNoopLedger(), func() error { return nil }, nil
	}

	database, err := db.NewFromConfig(db.MariaDbConfig{
		DSN:             cfg.MariaDBDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return mariadb.NewUploadRepository(database.DB), database.Close, nil
}

func printResult(res uploadSvc.ResignResult) {
	if res.Err != nil {
		fmt.Printf("FAILED\t%s/%s\t%v\n", res.Bucket, res.Key, res.Err)
		return
	}
	fmt.Printf("OK\t%s/%s\t%s\t(expires %s)\n", res.Bucket, res.Key, res.Link.URL, res.Link.ExpiresAt.UTC().Format(time.RFC3339))
}
