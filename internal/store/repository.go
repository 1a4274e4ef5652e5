package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Repository gives typed access to a single collection. Documents are
// encoded with encoding/json, so T's json tags define the stored shape.
type Repository[T any] struct {
	store DocumentStore
	coll  Collection
	id    func(*T) string
}

// NewRepository creates a Repository over coll. The id function extracts the
// document key from a value.
func NewRepository[T any](s DocumentStore, coll Collection, id func(*T) string) *Repository[T] {
	return &Repository[T]{store: s, coll: coll, id: id}
}

// Collection returns the collection the repository reads and writes.
func (r *Repository[T]) Collection() Collection {
	return r.coll
}

// Save upserts v under its id.
func (r *Repository[T]) Save(ctx context.Context, v *T) error {
	id := r.id(v)
	if id == "" {
		return NewStoreError(string(r.coll), "upsert", "document id is empty", ErrInvalidEntity)
	}
	return r.store.Upsert(ctx, r.coll, id, v)
}

// Get loads the document stored under id.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	var v T
	if err := r.store.Get(ctx, r.coll, id, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Find returns every document matching filter.
func (r *Repository[T]) Find(ctx context.Context, filter Filter) ([]T, error) {
	docs, err := r.store.Find(ctx, r.coll, filter)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for i, raw := range docs {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, NewStoreError(
				string(r.coll),
				"find",
				fmt.Sprintf("failed to decode document %d", i),
				fmt.Errorf("%w: %v", ErrInvalidEntity, err),
			)
		}
		out = append(out, v)
	}
	return out, nil
}

// FindOne returns the first document matching filter, or ErrNotFound.
func (r *Repository[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	found, err := r.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, NewStoreError(string(r.coll), "find", "no matching document", ErrNotFound)
	}
	return &found[0], nil
}

// Delete removes the document stored under id.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.coll, id)
}

// DeleteAll empties the collection.
func (r *Repository[T]) DeleteAll(ctx context.Context) (int64, error) {
	return r.store.DeleteAll(ctx, r.coll)
}
