package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Database holds the ledger's SQL connection pool.
type Database struct {
	*sql.DB
}

// New creates, configures, and verifies a MariaDB connection pool.
// It returns an error if the DSN is malformed or opening or pinging the database fails.
func New(dsn string, maxOpen, maxIdle int, connMaxLifetime time.Duration) (*Database, error) {
	normalised, err := normaliseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", normalised)
	if err != nil {
		return nil, err
	}

	// configure pooling
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)

	// verify connectivity
	if err := db.Ping(); err != nil {
		// close the connection pool before returning the ping error
		if cErr := db.Close(); cErr != nil {
			return nil, cErr
		}
		return nil, err
	}
	return &Database{db}, nil
}

func NewFromConfig(cfg MariaDbConfig) (*Database, error) {
	return New(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
}

// normaliseDSN makes sure DATETIME columns scan into time.Time and are read as UTC.
func normaliseDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MARIADB_DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
