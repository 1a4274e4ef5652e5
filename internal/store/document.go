package store

import (
	"context"
	"encoding/json"
)

// Collection names a group of documents of one kind.
type Collection string

// Collections used by the application.
const (
	CollectionPatients     Collection = "patients"
	CollectionDoctors      Collection = "doctors"
	CollectionCaretakers   Collection = "caretakers"
	CollectionAppointments Collection = "appointments"
	CollectionUsers        Collection = "users"
)

// AllCollections lists every collection in a stable order.
var AllCollections = []Collection{
	CollectionPatients,
	CollectionDoctors,
	CollectionCaretakers,
	CollectionAppointments,
	CollectionUsers,
}

// Valid reports whether c is one of the known collections.
func (c Collection) Valid() bool {
	for _, known := range AllCollections {
		if c == known {
			return true
		}
	}
	return false
}

// Filter selects documents whose top-level string fields equal the given
// values. An empty filter matches every document in the collection.
type Filter map[string]string

// DocumentStore persists JSON documents keyed by collection and id.
//
// Writes replace whole documents; there are no partial updates and no
// multi-document transactions. Find returns documents in insertion order.
type DocumentStore interface {
	// Upsert encodes doc as JSON and stores it under id, replacing any
	// existing document.
	Upsert(ctx context.Context, coll Collection, id string, doc any) error

	// Get decodes the document stored under id into dst.
	// Returns ErrNotFound if no such document exists.
	Get(ctx context.Context, coll Collection, id string, dst any) error

	// Find returns the raw JSON of every document matching the filter.
	Find(ctx context.Context, coll Collection, filter Filter) ([]json.RawMessage, error)

	// Delete removes the document stored under id.
	// Returns ErrNotFound if no such document exists.
	Delete(ctx context.Context, coll Collection, id string) error

	// DeleteAll removes every document in the collection and returns how
	// many were removed.
	DeleteAll(ctx context.Context, coll Collection) (int64, error)

	// Collections lists the collections that currently hold documents.
	Collections(ctx context.Context) ([]string, error)

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error
}

// CheckCollection returns a StoreError wrapping ErrUnknownCollection when
// coll is not a known collection.
func CheckCollection(coll Collection, operation string) error {
	if !coll.Valid() {
		return NewStoreError(string(coll), operation, "unknown collection", ErrUnknownCollection)
	}
	return nil
}
