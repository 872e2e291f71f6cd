package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/fhuszti/upload-relay-go/internal/migration"
	"github.com/go-sql-driver/mysql"
)

type TestDB struct {
	DB      *sql.DB
	Cleanup func() error
}

// SetupTestDB creates a throwaway database on the server behind TEST_DB_DSN and migrates it.
func SetupTestDB() (*TestDB, error) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("TEST_DB_DSN env-var not set")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN %q: %w", dsn, err)
	}
	cfg.ParseTime = true

	origName := cfg.DBName
	cfg.DBName = ""
	rootDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open root DB: %w", err)
	}

	dbName := fmt.Sprintf("%s_%d", origName, time.Now().UnixNano())
	if _, err := rootDB.Exec("CREATE DATABASE " + dbName); err != nil {
		_ = rootDB.Close()
		return nil, err
	}
	dropAll := func() {
		_, _ = rootDB.Exec("DROP DATABASE " + dbName)
		_ = rootDB.Close()
	}

	cfg.DBName = dbName
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		dropAll()
		return nil, fmt.Errorf("open test DB %q: %w", dbName, err)
	}

	if err := migration.MigrateUp(context.Background(), db); err != nil {
		_ = db.Close()
		dropAll()
		return nil, fmt.Errorf("migrate test DB %q: %w", dbName, err)
	}

	cleanup := func() error {
		if err := db.Close(); err != nil {
			return err
		}
		if _, err := rootDB.Exec("DROP DATABASE " + dbName); err != nil {
			_ = rootDB.Close()
			return fmt.Errorf("drop database %q: %w", dbName, err)
		}
		return rootDB.Close()
	}

	return &TestDB{DB: db, Cleanup: cleanup}, nil
}
