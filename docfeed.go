// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package docfeed normalizes JSON, CSV, and XML payloads into flat
// records and bulk-loads them into a badger-backed document store.
package docfeed

import (
	"log/slog"

	"github.com/poiesic/docfeed/ingest"
	"github.com/poiesic/docfeed/storage"
	"github.com/poiesic/docfeed/storage/badger"
)

// Index is the top-level handle: an open document store plus factories
// for ingestion pipelines over it.
type Index struct {
	store  *badger.Store
	logger *slog.Logger
}

// IndexOption configures an Index.
type IndexOption func(*indexOptions)

type indexOptions struct {
	logger       *slog.Logger
	storeOptions []badger.Option
}

// WithIndexLogger sets the logger used by the index and its store.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(o *indexOptions) {
		o.logger = logger
	}
}

// WithStoreOptions passes options through to the underlying store.
func WithStoreOptions(opts ...badger.Option) IndexOption {
	return func(o *indexOptions) {
		o.storeOptions = append(o.storeOptions, opts...)
	}
}

// Open opens (creating if necessary) a document store at filePath.
func Open(filePath string, opts ...IndexOption) (*Index, error) {
	options := &indexOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	storeOpts := append([]badger.Option{badger.WithLogger(options.logger)}, options.storeOptions...)
	store, err := badger.Open(filePath, storeOpts...)
	if err != nil {
		return nil, err
	}

	return &Index{
		store:  store,
		logger: options.logger,
	}, nil
}

// Close closes the underlying store.
func (ix *Index) Close() error {
	if err := ix.store.Close(); err != nil {
		ix.logger.Error("error closing document store", "err", err)
		return err
	}
	return nil
}

// Store returns the underlying document store.
func (ix *Index) Store() storage.DocumentStore {
	return ix.store
}

// Reader returns the read-side view of the store.
func (ix *Index) Reader() storage.CollectionReader {
	return ix.store
}

// NewPipeline creates an ingestion pipeline over the index's store.
func (ix *Index) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	opts = append([]ingest.Option{ingest.WithLogger(ix.logger)}, opts...)
	return ingest.NewPipeline(ix.store, opts...)
}
