// Package storage defines the abstraction the tree engine uses to talk
// to an object store: random-access reads, ordinary writes, and the
// conditional-create primitive that the commit protocol depends on for
// linearizing concurrent writers. It mirrors the shape of the
// teacher's storage.Store contract (one small backend interface,
// multiple implementations living in sibling packages) without
// carrying over any of its policy/document-specific semantics.
package storage

import (
	"context"
	"io"

	"github.com/trinitylake-io/trinitylake-go/errs"
)

// Store is the interface every object-storage backend must implement.
// Implementations live in sibling packages (memstore, badgerstore);
// Store itself stays backend-agnostic.
type Store interface {
	// Read returns the full contents of path. It fails with
	// errs.NotFound if path does not exist.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write opens an ordinary write handle for path. Closing the
	// handle publishes the bytes; an existing object at path is
	// overwritten. Backends that cannot support overwrite semantics
	// may reject with errs.Internal.
	Write(ctx context.Context, path string) (WriteHandle, error)

	// StartAtomicWrite opens a conditional-create handle for path.
	// Closing the handle publishes path's bytes if and only if path
	// did not exist at publish time; otherwise Close fails with
	// errs.AlreadyExists and no bytes become visible. This is the
	// only coordination point among concurrent writers.
	StartAtomicWrite(ctx context.Context, path string) (AtomicHandle, error)

	// List returns every stored path with the given prefix. Listings
	// need not be strongly consistent, but must eventually reflect
	// published objects.
	List(ctx context.Context, prefix string) ([]string, error)

	// Exists reports whether path currently resolves to an object.
	Exists(ctx context.Context, path string) (bool, error)
}

// WriteHandle is an open ordinary write. Write may be called multiple
// times to stream bytes; Close publishes them.
type WriteHandle interface {
	io.Writer
	Close() error
}

// AtomicHandle is an open conditional-create write. Close either
// publishes the accumulated bytes (if path is still absent) or fails
// with errs.AlreadyExists, in which case no bytes become visible.
type AtomicHandle interface {
	io.Writer
	Close() error
}

// WriteAll is a convenience wrapper: open an ordinary write handle,
// write the full payload, and close it in one call.
func WriteAll(ctx context.Context, s Store, path string, data []byte) error {
	h, err := s.Write(ctx, path)
	if err != nil {
		return err
	}
	if _, err := h.Write(data); err != nil {
		_ = h.Close()
		return err
	}
	return h.Close()
}

// WriteAllAtomic is the conditional-create analogue of WriteAll: it
// returns errs.AlreadyExists (from Close) if path was published by
// another writer in the meantime.
func WriteAllAtomic(ctx context.Context, s Store, path string, data []byte) error {
	h, err := s.StartAtomicWrite(ctx, path)
	if err != nil {
		return err
	}
	if _, err := h.Write(data); err != nil {
		_ = h.Close()
		return err
	}
	return h.Close()
}

// ReadAll is a tiny readability helper over Store.Read that maps a nil
// result into a well-formed errs.NotFound if a backend ever returns
// (nil, nil) by mistake.
func ReadAll(ctx context.Context, s Store, path string) ([]byte, error) {
	b, err := s.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errs.New(errs.NotFound, "object %q not found", path)
	}
	return b, nil
}
