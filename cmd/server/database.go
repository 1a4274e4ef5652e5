package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/phrazzld/pocket-doctor/internal/ciutil"
	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/platform/postgres"
	"github.com/phrazzld/pocket-doctor/internal/platform/sqlite"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// openedStore is a document store together with what the commands need to
// report on it and release it.
type openedStore struct {
	store.DocumentStore

	// name is the database name shown by the connection test.
	name string
	// pg is the postgres pool, nil for sqlite. Migrations run against it.
	pg    *sql.DB
	close func() error
}

// Close releases the underlying connection pool.
func (s *openedStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openStore connects to the configured database driver.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (*openedStore, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		docs, err := sqlite.Open(ctx, cfg.Database.URL, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Info("Database connection established", slog.String("driver", config.DriverSQLite))
		return &openedStore{
			DocumentStore: docs,
			name:          sqliteName(cfg.Database.URL),
			close:         docs.Close,
		}, nil

	case config.DriverPostgres:
		db, err := setupPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		log.Info("Database connection established",
			slog.String("driver", config.DriverPostgres),
			slog.String("url", ciutil.MaskDatabaseURL(cfg.Database.URL)))
		return &openedStore{
			DocumentStore: postgres.NewDocumentStore(db, log),
			name:          postgresName(cfg.Database.URL),
			pg:            db,
			close:         db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// setupPostgres opens the pgx-backed pool and checks connectivity.
func setupPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", ciutil.MaskDatabaseURL(url), err)
	}
	return db, nil
}

func postgresName(url string) string {
	cfg, err := pgx.ParseConfig(url)
	if err != nil || cfg.Database == "" {
		return config.DriverPostgres
	}
	return cfg.Database
}

func sqliteName(dsn string) string {
	if dsn == sqlite.MemoryDSN || strings.Contains(dsn, "mode=memory") {
		return "memory"
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
