// Package store provides the document store used by the import pipeline
// and the read-side handlers.
//
// Records live in logical collections keyed by name, one collection per
// record kind. Two production backends are provided (MongoDB and a
// PostgreSQL JSONB table) plus an in-memory store for tests. The store
// handle is passed explicitly to everything that needs it; there is no
// package-level connection.
package store

import "context"

// Filter matches documents whose fields equal the given values.
// An empty filter matches every document in the collection.
type Filter map[string]any

// Document is a stored record in its generic decoded form.
type Document map[string]any

// Store is the document-store contract consumed by the import pipeline.
type Store interface {
	// InsertOne persists a single record into a collection. The record is
	// any JSON/BSON-marshalable value carrying its own id and created_at.
	InsertOne(ctx context.Context, collection string, record any) error

	// Find returns up to limit documents matching the filter, newest first.
	Find(ctx context.Context, collection string, filter Filter, limit int64) ([]Document, error)

	// CountDocuments returns the number of documents matching the filter.
	CountDocuments(ctx context.Context, collection string, filter Filter) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close(ctx context.Context) error
}
