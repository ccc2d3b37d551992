// Package memstore implements an in-memory reference backend for
// storage.Store. It is the default backend for tests and small
// deployments.
//
// Written bytes are copied when a handle is closed, and Read returns a
// fresh copy, so callers may modify either slice without affecting the
// stored object.
package memstore

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/trinitylake-io/trinitylake-go/errs"
	"github.com/trinitylake-io/trinitylake-go/storage"
)

// Store is an in-memory, mutex-guarded map from path to bytes.
type Store struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{objects: map[string][]byte{}}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Read(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[path]
	if !ok {
		return nil, errs.New(errs.NotFound, "object %q not found", path)
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (s *Store) Write(_ context.Context, path string) (storage.WriteHandle, error) {
	return &writeHandle{store: s, path: path}, nil
}

func (s *Store) StartAtomicWrite(_ context.Context, path string) (storage.AtomicHandle, error) {
	return &writeHandle{store: s, path: path, conditional: true}, nil
}

func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for p := range s.objects {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

// publish is called from writeHandle.Close and holds the commit logic
// that makes StartAtomicWrite conditional: under the same lock that
// guards reads, it rejects the write if the path already exists.
func (s *Store) publish(path string, data []byte, conditional bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conditional {
		if _, exists := s.objects[path]; exists {
			return errs.New(errs.AlreadyExists, "object %q already exists", path)
		}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[path] = cp
	return nil
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
	return h.store.publish(h.path, h.buf.Bytes(), h.conditional)
}
