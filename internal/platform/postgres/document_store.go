package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/redact"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// pinger is satisfied by *sql.DB; transactions cannot be pinged.
type pinger interface {
	PingContext(ctx context.Context) error
}

// DocumentStore implements store.DocumentStore on the documents table.
type DocumentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// Ensure DocumentStore implements store.DocumentStore interface
var _ store.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates a DocumentStore over a database connection or
// transaction managed by the caller. If logger is nil, a default logger will
// be used.
func NewDocumentStore(db store.DBTX, logger *slog.Logger) *DocumentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		db:     db,
		logger: logger.With(slog.String("component", "document_store")),
	}
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

	query := `
		INSERT INTO documents (collection, id, body, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, string(coll), id, string(body)); err != nil {
		log.Error("failed to upsert document",
			slog.String("collection", string(coll)),
			slog.String("id", id),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError(string(coll), "upsert", "database error", MapError(err))
	}

	log.Debug("document upserted",
		slog.String("collection", string(coll)),
		slog.String("id", id))
	return nil
}

// Get implements store.DocumentStore.Get.
func (s *DocumentStore) Get(ctx context.Context, coll store.Collection, id string, dst any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.CheckCollection(coll, "get"); err != nil {
		return err
	}

	query := `
		SELECT body::text
		FROM documents
		WHERE collection = $1 AND id = $2
	`
	var body string
	err := s.db.QueryRowContext(ctx, query, string(coll), id).Scan(&body)
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("document not found",
				slog.String("collection", string(coll)),
				slog.String("id", id))
			return store.NewStoreError(string(coll), "get", "document "+id+" not found", store.ErrNotFound)
		}
		log.Error("failed to get document",
			slog.String("collection", string(coll)),
			slog.String("id", id),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError(string(coll), "get", "database error", MapError(err))
	}

	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return store.NewStoreError(string(coll), "get", "failed to decode document",
			fmt.Errorf("%w: %v", store.ErrInvalidEntity, err))
	}
	return nil
}

// Find implements store.DocumentStore.Find. The filter becomes a JSONB
// containment test, which the GIN index on body serves.
func (s *DocumentStore) Find(
	ctx context.Context,
	coll store.Collection,
	filter store.Filter,
) ([]json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.CheckCollection(coll, "find"); err != nil {
		return nil, err
	}

	if filter == nil {
		filter = store.Filter{}
	}
	containment, err := json.Marshal(filter)
	if err != nil {
		return nil, store.NewStoreError(string(coll), "find", "failed to encode filter", err)
	}

	query := `
		SELECT body::text
		FROM documents
		WHERE collection = $1 AND body @> $2::jsonb
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query, string(coll), string(containment))
	if err != nil {
		log.Error("failed to query documents",
			slog.String("collection", string(coll)),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError(string(coll), "find", "database error", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, store.NewStoreError(string(coll), "find", "failed to scan document", MapError(err))
		}
		docs = append(docs, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(string(coll), "find", "failed to iterate documents", MapError(err))
	}

	log.Debug("documents found",
		slog.String("collection", string(coll)),
		slog.Int("filter_fields", len(filter)),
		slog.Int("count", len(docs)))
	return docs, nil
}

// Delete implements store.DocumentStore.Delete.
func (s *DocumentStore) Delete(ctx context.Context, coll store.Collection, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.CheckCollection(coll, "delete"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, string(coll), id)
	if err != nil {
		log.Error("failed to delete document",
			slog.String("collection", string(coll)),
			slog.String("id", id),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError(string(coll), "delete", "database error",
			fmt.Errorf("%w: %v", store.ErrDeleteFailed, MapError(err)))
	}
	if err := CheckRowsAffected(result, "document "+id); err != nil {
		return store.NewStoreError(string(coll), "delete", "document "+id+" not found", err)
	}

	log.Debug("document deleted",
		slog.String("collection", string(coll)),
		slog.String("id", id))
	return nil
}

// DeleteAll implements store.DocumentStore.DeleteAll.
func (s *DocumentStore) DeleteAll(ctx context.Context, coll store.Collection) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := store.CheckCollection(coll, "delete_all"); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1`, string(coll))
	if err != nil {
		return 0, store.NewStoreError(string(coll), "delete_all", "database error",
			fmt.Errorf("%w: %v", store.ErrDeleteFailed, MapError(err)))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError(string(coll), "delete_all", "failed to get rows affected", err)
	}

	log.Info("collection cleared",
		slog.String("collection", string(coll)),
		slog.Int64("deleted", n))
	return n, nil
}

// Collections implements store.DocumentStore.Collections.
func (s *DocumentStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT collection FROM documents ORDER BY collection`)
	if err != nil {
		return nil, store.NewStoreError("documents", "collections", "database error", MapError(err))
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

// Ping implements store.DocumentStore.Ping. Against a transaction it runs a
// trivial query instead.
func (s *DocumentStore) Ping(ctx context.Context) error {
	if p, ok := s.db.(pinger); ok {
		if err := p.PingContext(ctx); err != nil {
			return store.NewStoreError("documents", "ping", "database unreachable", err)
		}
		return nil
	}

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return store.NewStoreError("documents", "ping", "database unreachable", err)
	}
	return nil
}
