// Package store defines interfaces for data persistence operations.
// Application records are JSON documents kept in named collections; the
// DocumentStore interface abstracts the database that holds them, and
// Repository gives typed access to one collection.
package store
