package badger

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/poiesic/docfeed/storage"
)

const (
	defaultSequenceBandwidth = 100

	// DefaultMaxDocumentBytes is the per-document serialized size ceiling.
	DefaultMaxDocumentBytes = 1 << 20
)

// Store is a BadgerDB-backed document store. Documents are keyed by a
// per-collection sequence; a per-collection watermark records the
// highest committed sequence, and only documents at or below it are
// visible to readers. A crash between add and commit therefore leaves
// the late documents invisible rather than half-published.
type Store struct {
	db          *badger.DB
	logger      *slog.Logger
	maxDocBytes int

	mu      sync.Mutex
	seqs    map[string]*badger.Sequence
	pending map[string]uint64
}

var (
	_ storage.DocumentStore    = (*Store)(nil)
	_ storage.CollectionReader = (*Store)(nil)
)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by the store and by badger itself.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithMaxDocumentBytes overrides the per-document size ceiling.
func WithMaxDocumentBytes(n int) Option {
	return func(s *Store) {
		s.maxDocBytes = n
	}
}

// Open opens a document store at the specified path.
// Creates the directory if it doesn't exist.
func Open(filePath string, opts ...Option) (*Store, error) {
	return open(filePath, false, opts...)
}

func open(filePath string, inMemory bool, opts ...Option) (*Store, error) {
	store := &Store{
		logger:      slog.Default(),
		maxDocBytes: DefaultMaxDocumentBytes,
		seqs:        make(map[string]*badger.Sequence),
		pending:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(store)
	}

	var badgerOpts badger.Options
	if inMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		badgerOpts = badger.DefaultOptions(filePath)
	}

	badgerOpts.Logger = &badgerLoggerAdapter{logger: store.logger}
	badgerOpts.Compression = options.None

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	store.db = db
	return store, nil
}

// nextSeq returns the next document sequence number for a collection.
// Sequence zero is reserved: the watermark value 0 means "nothing
// committed yet", so a zero from badger is skipped.
func (s *Store) nextSeq(collection string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.seqs[collection]
	if !ok {
		var err error
		seq, err = s.db.GetSequence(makeSequenceKey(collection), defaultSequenceBandwidth)
		if err != nil {
			return 0, err
		}
		s.seqs[collection] = seq
	}

	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		n, err = seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return n, nil
}

// noteWritten records the highest sequence written since the last
// commit, so Commit knows where to move the watermark.
func (s *Store) noteWritten(collection string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.pending[collection] {
		s.pending[collection] = seq
	}
}

// Close releases the collection sequences and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for collection, seq := range s.seqs {
		if err := seq.Release(); err != nil {
			s.logger.Warn("failed to release sequence", "collection", collection, "error", err)
		}
	}
	s.seqs = make(map[string]*badger.Sequence)
	return s.db.Close()
}
