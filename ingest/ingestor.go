package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/docfeed/core"
	"github.com/poiesic/docfeed/storage"
)

// DefaultBatchSize is the number of records submitted per bulk add.
const DefaultBatchSize = 1000

// Ingestor loads record batches into a document store. Each chunk is
// first submitted as one bulk call; if that fails the chunk is retried
// record by record so a single poison record cannot sink its whole
// chunk. One commit covers the entire call.
type Ingestor struct {
	store     storage.DocumentStore
	batchSize int
	logger    *slog.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor) error

// WithBatchSize sets the bulk chunk size. Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(i *Ingestor) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		i.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingestor) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger
		return nil
	}
}

// NewIngestor creates an Ingestor over the given store.
func NewIngestor(store storage.DocumentStore, opts ...Option) (*Ingestor, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	ingestor := &Ingestor{
		store:     store,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(ingestor); err != nil {
			return nil, err
		}
	}
	return ingestor, nil
}

// Ingest loads records into the collection and returns how many were
// persisted. The count may be silently lower than len(records); use
// IngestWithMonitor to observe individual drops.
func (i *Ingestor) Ingest(ctx context.Context, collection string, records []core.Record) (int, error) {
	return i.IngestWithMonitor(ctx, collection, records, nil)
}

// IngestWithMonitor is Ingest with per-drop and per-fallback callbacks.
// A nil monitor is allowed.
func (i *Ingestor) IngestWithMonitor(ctx context.Context, collection string, records []core.Record, monitor Monitor) (int, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	succeeded := 0
	for start := 0; start < len(records); start += i.batchSize {
		end := start + i.batchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		err := i.store.AddDocuments(ctx, collection, chunk)
		if err == nil {
			succeeded += len(chunk)
			continue
		}
		monitor.BulkFallback(start/i.batchSize, err)
		i.logger.Warn("bulk add failed, falling back to individual adds",
			"collection", collection, "chunk_start", start, "chunk_size", len(chunk), "error", err)

		for offset, record := range chunk {
			if err := i.store.AddDocument(ctx, collection, record); err != nil {
				monitor.DocumentDropped(start+offset, err)
				i.logger.Warn("dropping record",
					"collection", collection, "index", start+offset, "error", err)
				continue
			}
			succeeded++
		}
	}

	if err := i.store.Commit(ctx, collection); err != nil {
		return succeeded, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	monitor.Committed(succeeded)
	return succeeded, nil
}
