package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/pocket-doctor/internal/ciutil"
	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

var migrationCommands = []string{"up", "down", "status", "version", "reset", "create"}

var errUnknownMigrationCommand = errors.New("unknown migration command")

func migrationCommandList() string {
	return strings.Join(migrationCommands, "|")
}

// migrate validates the request and runs one goose command against the
// configured postgres database.
func migrate(ctx context.Context, cfg *config.Config, command, name string, log *slog.Logger) error {
	if !slices.Contains(migrationCommands, command) {
		return fmt.Errorf("%w %q: expected %s", errUnknownMigrationCommand, command, migrationCommandList())
	}
	if command == "create" {
		if name == "" {
			return errors.New("migration name is required for create")
		}
		return runMigrations(ctx, nil, command, name, log)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations apply to the postgres driver only; the %s schema is applied on open",
			cfg.Database.Driver)
	}

	db, err := setupPostgres(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}()

	return runMigrations(ctx, db, command, name, log)
}

// runMigrations executes a goose command. db may be nil for create.
func runMigrations(ctx context.Context, db *sql.DB, command, name string, log *slog.Logger) error {
	migrationLogger := log.With(
		"correlation_id", uuid.New().String(),
		"component", "migrations",
		"command", command,
	)
	start := time.Now()
	migrationLogger.Info("Starting migration operation", "operation", "goose "+command)

	goose.SetLogger(&slogGooseLogger{logger: migrationLogger})
	goose.SetTableName(postgres.MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	var err error
	if command == "create" {
		// New files go to the source tree; applied migrations come from the
		// copy embedded in the postgres package.
		var dir string
		dir, err = ciutil.FindMigrationsDir(migrationLogger)
		if err == nil {
			goose.SetBaseFS(nil)
			err = goose.Create(nil, dir, name, "sql")
		}
	} else {
		goose.SetBaseFS(postgres.Migrations)
		switch command {
		case "up":
			err = goose.UpContext(ctx, db, postgres.MigrationsDir)
		case "down":
			err = goose.DownContext(ctx, db, postgres.MigrationsDir)
		case "status":
			err = goose.StatusContext(ctx, db, postgres.MigrationsDir)
		case "version":
			err = goose.VersionContext(ctx, db, postgres.MigrationsDir)
		case "reset":
			err = goose.ResetContext(ctx, db, postgres.MigrationsDir)
		default:
			err = fmt.Errorf("%w %q", errUnknownMigrationCommand, command)
		}
	}

	migrationLogger.Info("Migration operation completed",
		"operation", "goose "+command,
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil)
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// slogGooseLogger adapts goose output to slog. Fatalf does not exit; goose
// also returns the error, and the CLI owns the exit code.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
