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


package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/docfeed/core"
	"github.com/poiesic/docfeed/storage"
)

// AddDocument stores a single record in the collection. The record is
// not visible to readers until Commit.
func (s *Store) AddDocument(ctx context.Context, collection string, record core.Record) error {
	if s.db.IsClosed() {
		return storage.ErrStoreClosed
	}

	data := storage.MarshalRecord(record)
	if len(data) > s.maxDocBytes {
		return fmt.Errorf("%w: %d bytes exceeds ceiling of %d", storage.ErrDocumentTooLarge, len(data), s.maxDocBytes)
	}

	seq, err := s.nextSeq(collection)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeDocumentKey(collection, seq), data)
	})
	if err != nil {
		return err
	}
	s.noteWritten(collection, seq)
	return nil
}

// AddDocuments stores a batch of records in a single transaction.
// Every record is serialized and size-checked before anything is
// written, so an oversized record fails the whole batch without
// touching the database.
func (s *Store) AddDocuments(ctx context.Context, collection string, records []core.Record) error {
	if s.db.IsClosed() {
		return storage.ErrStoreClosed
	}
	if len(records) == 0 {
		return nil
	}

	payloads := make([][]byte, len(records))
	for i, record := range records {
		data := storage.MarshalRecord(record)
		if len(data) > s.maxDocBytes {
			return fmt.Errorf("%w: record %d is %d bytes, ceiling is %d", storage.ErrDocumentTooLarge, i, len(data), s.maxDocBytes)
		}
		payloads[i] = data
	}

	keys := make([][]byte, len(payloads))
	var highest uint64
	for i := range payloads {
		seq, err := s.nextSeq(collection)
		if err != nil {
			return err
		}
		keys[i] = makeDocumentKey(collection, seq)
		highest = seq
	}

	err := s.db.Update(func(tx *badger.Txn) error {
		for i, data := range payloads {
			if err := tx.Set(keys[i], data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.noteWritten(collection, highest)
	return nil
}

// Commit advances the collection's watermark to the highest sequence
// written so far, making every document at or below it visible. A
// commit with nothing pending is a no-op.
func (s *Store) Commit(ctx context.Context, collection string) error {
	if s.db.IsClosed() {
		return storage.ErrStoreClosed
	}

	s.mu.Lock()
	pending := s.pending[collection]
	s.mu.Unlock()
	if pending == 0 {
		return nil
	}

	err := s.db.Update(func(tx *badger.Txn) error {
		current, err := readWatermark(tx, collection)
		if err != nil {
			return err
		}
		if pending <= current {
			return nil
		}
		return tx.Set(makeWatermarkKey(collection), storage.MarshalSequence(pending))
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.pending[collection] == pending {
		delete(s.pending, collection)
	}
	s.mu.Unlock()
	return nil
}

// readWatermark returns the collection's committed watermark, zero when
// nothing has been committed yet.
func readWatermark(tx *badger.Txn, collection string) (uint64, error) {
	item, err := tx.Get(makeWatermarkKey(collection))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var watermark uint64
	err = item.Value(func(val []byte) error {
		var err error
		watermark, err = storage.UnmarshalSequence(val)
		return err
	})
	return watermark, err
}

// CountDocuments returns the number of committed documents in the
// collection.
func (s *Store) CountDocuments(ctx context.Context, collection string) (int, error) {
	if s.db.IsClosed() {
		return 0, storage.ErrStoreClosed
	}

	var count int
	err := s.db.View(func(tx *badger.Txn) error {
		watermark, err := readWatermark(tx, collection)
		if err != nil {
			return err
		}
		if watermark == 0 {
			return nil
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentPrefix(collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if documentSequence(iter.Item().Key()) > watermark {
				break
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetDocuments returns up to limit committed documents in insertion
// order. A non-positive limit returns every committed document.
func (s *Store) GetDocuments(ctx context.Context, collection string, limit int) ([]core.Record, error) {
	if s.db.IsClosed() {
		return nil, storage.ErrStoreClosed
	}

	var records []core.Record
	err := s.db.View(func(tx *badger.Txn) error {
		watermark, err := readWatermark(tx, collection)
		if err != nil {
			return err
		}
		if watermark == 0 {
			return nil
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeDocumentPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			if documentSequence(item.Key()) > watermark {
				break
			}
			err := item.Value(func(val []byte) error {
				record, err := storage.UnmarshalRecord(val)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
			if limit > 0 && len(records) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
