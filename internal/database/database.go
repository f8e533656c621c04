// Package database provides database access.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/starquake/quizroster/internal/migrations"
)

// ErrUnsupportedDriver is returned when the database driver is not supported. We only support sqlite for now.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

var setupOnce sync.Once

// SetupGoose configures global settings for goose.
// It is safe to call more than once; only the first call has an effect.
func SetupGoose() {
	setupOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		goose.SetLogger(goose.NopLogger())

		if err := goose.SetDialect("sqlite3"); err != nil {
			panic(err)
		}
	})
}

// Open opens a database connection and verifies it with a ping.
func Open(
	ctx context.Context,
	driver, uri string,
	dbMaxOpenConns, dbMaxIdleConns int,
	dbConnMaxLifetime time.Duration,
) (*sql.DB, error) {
	switch driver {
	case "sqlite", "sqlite3":
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	var err error
	var conn *sql.DB
	conn, err = sql.Open(driver, uri)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// An in-memory database lives as long as its connection, so the pool settings must be applied before the first
	// connection is made.
	conn.SetMaxOpenConns(dbMaxOpenConns)
	conn.SetMaxIdleConns(dbMaxIdleConns)
	conn.SetConnMaxLifetime(dbConnMaxLifetime)

	if err = conn.PingContext(ctx); err != nil {
		closeErr := conn.Close()

		return nil, errors.Join(fmt.Errorf("error pinging database: %w", err), closeErr)
	}

	return conn, nil
}

// Migrate runs database migrations.
func Migrate(ctx context.Context, conn *sql.DB) error {
	SetupGoose()

	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	return nil
}

// ExecTx runs fn within a transaction. The transaction is rolled back when fn returns an error.
func ExecTx(ctx context.Context, conn *sql.DB, fn func(*sql.Tx) error) error {
	var err error
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	err = fn(tx)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %w (rollback error: %w)", err, rbErr)
		}

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
