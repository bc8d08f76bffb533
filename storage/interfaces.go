package storage

import (
	"context"

	"github.com/poiesic/docfeed/core"
)

// DocumentStore is the minimal load-side contract of a backing document
// store. Implementations must be safe for concurrent use; the ingestion
// pipeline imposes no coordination between concurrent calls.
type DocumentStore interface {
	// AddDocument stores a single record in the collection. Failures are
	// recoverable from the caller's perspective: a bad document affects
	// only itself.
	AddDocument(ctx context.Context, collection string, record core.Record) error

	// AddDocuments stores a batch of records in one call. The call is
	// all-or-nothing for the batch; on failure the caller may retry the
	// records individually.
	AddDocuments(ctx context.Context, collection string, records []core.Record) error

	// Commit makes every previously added document in the collection
	// visible to readers. Documents added but not committed are not
	// guaranteed to survive or to be seen.
	Commit(ctx context.Context, collection string) error

	// Close closes the store and releases resources.
	Close() error
}

// CollectionReader is the read-side counterpart used by tooling and
// tests. Only committed documents are observable.
type CollectionReader interface {
	// CountDocuments returns the number of committed documents in the collection.
	CountDocuments(ctx context.Context, collection string) (int, error)

	// GetDocuments returns up to limit committed documents in insertion
	// order. A non-positive limit means no limit.
	GetDocuments(ctx context.Context, collection string, limit int) ([]core.Record, error)
}
