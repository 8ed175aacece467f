// Package database is the connection provider for the MySQL store.
//
// A Database is constructed once at startup and passed to every repository.
// Opening never fails because the server is unreachable: the failed initial
// ping is logged with the attempted configuration (password omitted) and later
// queries fail until connectivity returns. database/sql keeps the pool healthy;
// on top of that, a query that fails with a lost-connection error is retried
// once on a fresh connection.
package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/ghuser/gamercart/pkg/config"
	"github.com/ghuser/gamercart/pkg/logger"
)

// Querier is the subset of *sql.DB and *sql.Tx used by repositories.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Database wraps *sql.DB with the project's lifecycle and reconnect policy.
type Database struct {
	db  *sql.DB
	log logger.Logger
}

// New wraps an already opened *sql.DB. Tests pass a go-sqlmock handle here.
func New(db *sql.DB, log logger.Logger) *Database {
	return &Database{db: db, log: log}
}

// NewPool opens a MySQL connection pool sized by cfg.DBPoolSize (1 gives the
// single persistent connection strategy) and pings it once. A failed ping is
// logged, not returned.
func NewPool(ctx context.Context, cfg *config.Config, log logger.Logger) (*Database, error) {
	db, err := sql.Open("mysql", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBPoolSize)
	db.SetMaxIdleConns(cfg.DBPoolSize)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	d := New(db, log)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()
	if err := d.Ping(pingCtx); err != nil {
		log.Error("database connection failed, queries will fail until it recovers",
			"error", err,
			"host", cfg.DBHost,
			"database", cfg.DBName,
			"user", cfg.DBUser,
			"port", cfg.DBPort,
			"environment", cfg.Environment,
		)
		return d, nil
	}
	log.Info("database connected", "database", cfg.DBName, "pool_size", cfg.DBPoolSize)
	return d, nil
}

// DB returns the underlying *sql.DB.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Query runs sqlText with params and returns the rows. Callers must close them.
func (d *Database) Query(ctx context.Context, sqlText string, params ...any) (*sql.Rows, error) {
	rows, err := d.db.QueryContext(ctx, sqlText, params...)
	if isConnectionLost(err) {
		d.reconnect(ctx, err)
		rows, err = d.db.QueryContext(ctx, sqlText, params...)
	}
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// QueryRowContext is the single-row variant of Query. Errors surface on Scan.
func (d *Database) QueryRowContext(ctx context.Context, sqlText string, params ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, sqlText, params...)
}

// QueryContext satisfies Querier; it applies the same reconnect hook as Query.
func (d *Database) QueryContext(ctx context.Context, sqlText string, params ...any) (*sql.Rows, error) {
	return d.Query(ctx, sqlText, params...)
}

// ExecContext runs a statement that returns no rows.
func (d *Database) ExecContext(ctx context.Context, sqlText string, params ...any) (sql.Result, error) {
	res, err := d.db.ExecContext(ctx, sqlText, params...)
	if isConnectionLost(err) {
		d.reconnect(ctx, err)
		res, err = d.db.ExecContext(ctx, sqlText, params...)
	}
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

// WithTx runs fn inside a transaction. fn's error (or a panic) rolls back.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			d.log.ErrorContext(ctx, "rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close releases every pooled connection.
func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("database close: %w", err)
	}
	return nil
}

func (d *Database) reconnect(ctx context.Context, cause error) {
	d.log.WarnContext(ctx, "database connection lost, reconnecting", "error", cause)
	if err := d.db.PingContext(ctx); err != nil {
		d.log.ErrorContext(ctx, "database reconnect failed", "error", err)
	}
}

func isConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn)
}
