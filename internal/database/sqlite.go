package database

import (
	"context"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var (
	db   *sqlx.DB
	once sync.Once
)

// Config holds database configuration
type Config struct {
	Path string
}

// Open opens a sqlite database with the connection settings the service uses.
// An in-memory database is pinned to a single connection so every query sees
// the same data.
func Open(cfg Config) (*sqlx.DB, error) {
	conn, err := sqlx.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open %s", cfg.Path)
	}

	if isMemory(cfg.Path) {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)

		// WAL lets the API read while a run writes
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, eris.Wrap(err, "failed to enable WAL")
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, eris.Wrap(err, "failed to enable foreign keys")
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, eris.Wrap(err, "failed to ping database")
	}
	return conn, nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// Init initializes the shared database connection
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		db, err = Open(cfg)
		if err != nil {
			return
		}
		zap.L().Info("database initialized", zap.String("path", cfg.Path))
	})
	return err
}

// GetDB returns the shared database instance
func GetDB() *sqlx.DB {
	if db == nil {
		zap.L().Fatal("database not initialized, call Init first")
	}
	return db
}

// Close closes the shared database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Transaction executes fn within a transaction, rolling back on error or panic
func Transaction(ctx context.Context, conn *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return eris.Wrapf(err, "rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "failed to commit transaction")
	}
	return nil
}
