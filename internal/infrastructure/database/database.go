package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MariaDB/MySQL driver
)

// connectionTimeout is the timeout for verifying database connectivity.
const connectionTimeout = 5 * time.Second

// connMaxIdleTime is how long idle connections are kept open.
const connMaxIdleTime = 30 * time.Minute

// DB wraps a sql.DB connection to MariaDB with Dolphin Core-specific
// functionality. It provides migration support, health checks, and proper
// lifecycle management.
type DB struct {
	*sql.DB
	dsn string
}

// Config contains database configuration options. These map to the
// database section of config.Config (internal/infrastructure/config).
type Config struct {
	// Host is the MariaDB host, optionally including :port (default 3306).
	Host string

	// User, Password, Database are the connection credentials.
	User     string
	Password string
	Database string

	// MaxOpenConns bounds the connection pool.
	MaxOpenConns int
}

// dsn builds a go-sql-driver/mysql DSN with parseTime enabled so that
// TIMESTAMP/DATETIME columns scan directly into time.Time.
func (cfg Config) dsn() string {
	host := cfg.Host
	if host == "" {
		host = "127.0.0.1:3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&multiStatements=true",
		cfg.User, cfg.Password, host, cfg.Database,
	)
}

// Open creates a new database connection with the specified configuration.
//
// It performs the following setup:
//  1. Builds the DSN and opens the connection pool
//  2. Applies pool-size limits
//  3. Verifies the connection with a ping
//
// Parameters:
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected database wrapper
//   - error: If connection fails
func Open(cfg Config) (*DB, error) {
	dsn := cfg.dsn()

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	db := &DB{
		DB:  sqlDB,
		dsn: dsn,
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	return db, nil
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// HealthCheck verifies the database is accessible and functioning.
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Stats returns database connection pool statistics.
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// ExecContext executes a query that doesn't return rows (INSERT, UPDATE, DELETE).
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return result, nil
}

// QueryRowContext executes a query that returns at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a new transaction with the given options.
//
// Example:
//
//	tx, err := db.BeginTx(ctx, nil)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback() // No-op if committed
//
//	// ... execute queries on tx ...
//
//	return tx.Commit()
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return tx, nil
}
