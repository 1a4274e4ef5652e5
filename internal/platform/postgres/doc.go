// Package postgres provides the PostgreSQL implementation of the
// store.DocumentStore interface. Documents live in a single JSONB table
// keyed by (collection, id); the schema is managed by the goose migrations
// embedded in this package.
package postgres
