// Package sqlite implements store.DocumentStore on SQLite via
// github.com/mattn/go-sqlite3. It keeps the same documents table layout as
// the PostgreSQL store with bodies stored as JSON text, and is used for local
// development and tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// DefaultDirPermissions is used when creating the database directory.
const DefaultDirPermissions = 0o755

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

//go:embed schema.sql
var schema string

// DocumentStore implements store.DocumentStore on SQLite.
type DocumentStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

// Open opens (creating if needed) the database at dsn and applies the schema.
// The dsn is a file path, a "file:" URI, or MemoryDSN.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*DocumentStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN not set")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "sqlite_store"))

	inMemory := dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
	if !inMemory && !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if inMemory {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	log.Debug("sqlite store opened", slog.Bool("in_memory", inMemory))
	return &DocumentStore{db: db, logger: log}, nil
}

// DB returns the underlying connection pool.
func (s *DocumentStore) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

// Upsert implements store.DocumentStore.Upsert.
func (s *DocumentStore) Upsert(ctx context.Context, coll store.Collection, id string, doc any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.CheckCollection(coll, "upsert"); err != nil {
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return store.NewStoreError(string(coll), "upsert", "failed to encode document",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body)
		VALUES (?, ?, ?)
		ON CONFLICT (collection, id)
		DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, string(coll), id, string(body))
	if err != nil {
		log.Error("failed to upsert document",
			slog.String("collection", string(coll)),
			slog.String("id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError(string(coll), "upsert", "database error", MapError(err))
	}

	log.Debug("document upserted",
		slog.String("collection", string(coll)),
		slog.String("id", id))
	return nil
}

// Get implements store.DocumentStore.Get.
func (s *DocumentStore) Get(ctx context.Context, coll store.Collection, id string, dst any) error {
	if err := store.CheckCollection(coll, "get"); err != nil {
		return err
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`, string(coll), id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.NewStoreError(string(coll), "get", "document "+id+" not found", store.ErrNotFound)
		}
		return store.NewStoreError(string(coll), "get", "database error", MapError(err))
	}

	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return store.NewStoreError(string(coll), "get", "failed to decode document",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	return nil
}

// Find implements store.DocumentStore.Find. Each filter field becomes a
// json_extract equality test.
func (s *DocumentStore) Find(
	ctx context.Context,
	coll store.Collection,
	filter store.Filter,
) ([]json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.CheckCollection(coll, "find"); err != nil {
		return nil, err
	}

	query, args, err := findQuery(coll, filter)
	if err != nil {
		return nil, store.NewStoreError(string(coll), "find", "invalid filter", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query documents",
			slog.String("collection", string(coll)),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(string(coll), "find", "database error", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, store.NewStoreError(string(coll), "find", "failed to scan document", err)
		}
		docs = append(docs, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(string(coll), "find", "failed to iterate documents", err)
	}

	log.Debug("documents found",
		slog.String("collection", string(coll)),
		slog.Int("filter_fields", len(filter)),
		slog.Int("count", len(docs)))
	return docs, nil
}

// findQuery builds the SELECT for a filter. Fields are sorted so the same
// filter always produces the same statement.
func findQuery(coll store.Collection, filter store.Filter) (string, []any, error) {
	fields := make([]string, 0, len(filter))
	for field := range filter {
		if field == "" || strings.ContainsAny(field, `"\`) {
			return "", nil, fmt.Errorf("%w: unsupported filter field %q", store.ErrInvalidEntity, field)
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(`SELECT body FROM documents WHERE collection = ?`)
	args := []any{string(coll)}
	for _, field := range fields {
		b.WriteString(` AND json_extract(body, ?) = ?`)
		args = append(args, `$."`+field+`"`, filter[field])
	}
	b.WriteString(` ORDER BY seq`)
	return b.String(), args, nil
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, coll store.Collection, id string) error {
	if err := store.CheckCollection(coll, "delete"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, string(coll), id)
	if err != nil {
		return store.NewStoreError(string(coll), "delete", "database error",
			fmt.Errorf("%w: %v", store.ErrDeleteFailed, err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError(string(coll), "delete", "failed to get rows affected", err)
	}
	if n == 0 {
		return store.NewStoreError(string(coll), "delete", "document "+id+" not found", store.ErrNotFound)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("document deleted",
		slog.String("collection", string(coll)),
		slog.String("id", id))
	return nil
}

// DeleteAll implements store.DocumentStore.DeleteAll.
func (s *DocumentStore) DeleteAll(ctx context.Context, coll store.Collection) (int64, error) {
	if err := store.CheckCollection(coll, "delete_all"); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, string(coll))
	if err != nil {
		return 0, store.NewStoreError(string(coll), "delete_all", "database error",
			fmt.Errorf("%w: %v", store.ErrDeleteFailed, err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError(string(coll), "delete_all", "failed to get rows affected", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("collection cleared",
		slog.String("collection", string(coll)),
		slog.Int64("deleted", n))
	return n, nil
}

// Collections implements store.DocumentStore.Collections.
func (s *DocumentStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, store.NewStoreError("documents", "collections", "database error", err)
	}
	defer func() { _ = rows.Close() }()

	names := make([]string, 0, len(store.AllCollections))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, store.NewStoreError("documents", "collections", "failed to scan", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("documents", "collections", "failed to iterate", err)
	}
	return names, nil
}

// Ping implements store.DocumentStore.Ping.
func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return store.NewStoreError("documents", "ping", "database unreachable", err)
	}
	return nil
}

// MapError maps SQLite constraint failures to store errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		default:
			return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
		}
	}
	return err
}
