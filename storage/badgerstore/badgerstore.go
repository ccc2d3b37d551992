// Package badgerstore implements a production storage.Store backend on
// top of github.com/dgraph-io/badger/v4, an embedded transactional
// key-value engine. It maps each object-storage path to one badger
// key — root node files, lakehouse/namespace/table descriptor blobs
// are all opaque values.
//
// Badger's transactions use serializable snapshot isolation: a
// transaction that reads a key and later commits a write is aborted
// with ErrConflict if another transaction committed a change to that
// key in between. StartAtomicWrite exploits exactly this to implement
// conditional create without any extra locking or CAS metadata column.
package badgerstore

import (
	"bytes"
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/trinitylake-io/trinitylake-go/errs"
	"github.com/trinitylake-io/trinitylake-go/log"
	"github.com/trinitylake-io/trinitylake-go/storage"
)

// Store wraps a badger.DB as a storage.Store.
type Store struct {
	db  *badger.DB
	log log.Logger
}

// Options configures Open.
type Options struct {
	// Dir is the directory badger should store its files in.
	Dir string
	// Logger receives a debug-level entry for each atomic write that
	// loses a race to a concurrent writer. Defaults to log.Global() if nil.
	Logger log.Logger
}

// Open opens (or creates) a badger database at opts.Dir.
func Open(opts Options) (*Store, error) {
	l := opts.Logger
	if l == nil {
		l = log.Global()
	}
	db, err := badger.Open(badger.DefaultOptions(opts.Dir).WithLogger(nil))
	if err != nil {
		return nil, errs.Wrap(errs.StorageUnavailable, err, "opening badger store at %q", opts.Dir)
	}
	return &Store{db: db, log: l}, nil
}

// Close releases the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Read(_ context.Context, path string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errs.New(errs.NotFound, "object %q not found", path)
		} else if err != nil {
			return errs.Wrap(errs.StorageUnavailable, err, "reading %q", path)
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Write(_ context.Context, path string) (storage.WriteHandle, error) {
	return &writeHandle{store: s, path: path}, nil
}

func (s *Store) StartAtomicWrite(_ context.Context, path string) (storage.AtomicHandle, error) {
	return &writeHandle{store: s, path: path, conditional: true}, nil
}

func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	var out []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			out = append(out, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.StorageUnavailable, err, "listing prefix %q", prefix)
	}
	return out, nil
}

func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, errs.Wrap(errs.StorageUnavailable, err, "checking existence of %q", path)
	}
	return found, nil
}

type writeHandle struct {
	store       *Store
	path        string
	conditional bool
	buf         bytes.Buffer
	closed      bool
}

func (h *writeHandle) Write(p []byte) (int, error) {
	return h.buf.Write(p)
}

func (h *writeHandle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	if !h.conditional {
		err := h.store.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(h.path), h.buf.Bytes())
		})
		if err != nil {
			return errs.Wrap(errs.StorageUnavailable, err, "writing %q", h.path)
		}
		return nil
	}

	// Conditional create: read the key (enrolling it in the
	// transaction's read set) before writing it, so badger's
	// serializable snapshot isolation aborts the commit with
	// ErrConflict if a concurrent transaction publishes the same
	// path first.
	txn := h.store.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get([]byte(h.path))
	switch {
	case err == nil:
		return errs.New(errs.AlreadyExists, "object %q already exists", h.path)
	case errors.Is(err, badger.ErrKeyNotFound):
		// expected: path is free.
	default:
		return errs.Wrap(errs.StorageUnavailable, err, "checking %q before atomic write", h.path)
	}

	if err := txn.Set([]byte(h.path), h.buf.Bytes()); err != nil {
		return errs.Wrap(errs.StorageUnavailable, err, "staging atomic write to %q", h.path)
	}

	if err := txn.Commit(); err != nil {
		if errors.Is(err, badger.ErrConflict) {
			h.store.log.WithField("path", h.path).Debug("atomic write lost race, object already published")
			return errs.New(errs.AlreadyExists, "object %q already exists", h.path)
		}
		return errs.Wrap(errs.StorageUnavailable, err, "committing atomic write to %q", h.path)
	}
	return nil
}
