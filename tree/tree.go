// Package tree implements the operations that sit between the raw
// storage adapter and the transaction engine: discovering the latest
// root version, cloning a node for mutation, and tracking whether a
// clone has actually been mutated.
package tree

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/trinitylake-io/trinitylake-go/codec"
	"github.com/trinitylake-io/trinitylake-go/errs"
	"github.com/trinitylake-io/trinitylake-go/storage"
)

// RootPrefix is the storage prefix under which every root node version
// is published.
const RootPrefix = "root/"

// versionWidth is the zero-padding width for root version numbers.
// Fixed so that lexicographic listing order equals numeric order.
const versionWidth = 20

// RootPath returns the deterministic storage path for root version v.
func RootPath(v uint64) string {
	return RootPrefix + pad(v)
}

func pad(v uint64) string {
	s := strconv.FormatUint(v, 10)
	if len(s) >= versionWidth {
		return s
	}
	return strings.Repeat("0", versionWidth-len(s)) + s
}

// VersionedNode is a root node together with the version it was
// loaded from (or, for a fresh root, the version it will publish as).
type VersionedNode struct {
	Node    *codec.Node
	Version uint64
}

// RunningNode is a mutable working copy of a VersionedNode produced by
// Clone. It tracks whether it has diverged from the node it was cloned
// from, which is what HasVersion reports and what CommitTransaction
// uses to reject a no-op commit.
type RunningNode struct {
	node    *codec.Node
	version uint64
	dirty   bool
}

// Clone produces a RunningNode that shares no mutable state with vn's
// underlying node — the mandatory first step before any mutation.
func Clone(vn *VersionedNode) *RunningNode {
	return &RunningNode{node: vn.Node.Clone(), version: vn.Version}
}

// CloneRunning produces a RunningNode that shares no mutable state
// with r's underlying node, preserving r's version and dirty flag.
// Used by mutating catalog operations to chain a second mutation onto
// a transaction's running root without losing the dirty bit a prior
// mutation already set.
func CloneRunning(r *RunningNode) *RunningNode {
	return &RunningNode{node: r.node.Clone(), version: r.version, dirty: r.dirty}
}

// Node returns the underlying node for reads.
func (r *RunningNode) Node() *codec.Node { return r.node }

// Set mutates the running node and marks it dirty.
func (r *RunningNode) Set(key, value string) {
	r.node.Set(key, value)
	r.dirty = true
}

// Remove mutates the running node and marks it dirty.
func (r *RunningNode) Remove(key string) {
	r.node.Remove(key)
	r.dirty = true
}

// FindVersionFromRootNode returns the version r was cloned from.
func FindVersionFromRootNode(r *RunningNode) uint64 {
	return r.version
}

// HasVersion reports whether r has been mutated (via Set/Remove)
// relative to the snapshot it was cloned from. An unmodified clone of
// a loaded root reports false; the running root after any Set/Remove
// reports true.
func HasVersion(r *RunningNode) bool {
	return r.dirty
}

// FindLatestRoot lists every published root version, decodes the one
// with the largest version number, and returns it. It fails with
// errs.Uninitialized if no root has ever been published.
func FindLatestRoot(ctx context.Context, store storage.Store) (*VersionedNode, error) {
	paths, err := store.List(ctx, RootPrefix)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errs.New(errs.Uninitialized, "no root version found; call CreateLakehouse first")
	}

	versions := make([]uint64, 0, len(paths))
	byVersion := map[uint64]string{}
	for _, p := range paths {
		raw := strings.TrimPrefix(p, RootPrefix)
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			continue // not a well-formed root path; ignore
		}
		versions = append(versions, v)
		byVersion[v] = p
	}
	if len(versions) == 0 {
		return nil, errs.New(errs.Uninitialized, "no well-formed root version found")
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	latest := versions[len(versions)-1]

	data, err := storage.ReadAll(ctx, store, byVersion[latest])
	if err != nil {
		return nil, err
	}
	node, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return &VersionedNode{Node: node, Version: latest}, nil
}

// FindLakehouseDef follows node's lakehouse-definition pointer and
// reads the referenced descriptor blob.
func FindLakehouseDef(ctx context.Context, store storage.Store, node *codec.Node) ([]byte, error) {
	path, ok := node.LakehouseDef()
	if !ok {
		return nil, errs.New(errs.CorruptNode, "node has no lakehouse-definition pointer")
	}
	return storage.ReadAll(ctx, store, path)
}

// WriteNodeFile serializes node through the codec and publishes it via
// handle. For a commit, handle must be an AtomicHandle opened at
// RootPath(beginningVersion+1); Close reports errs.AlreadyExists if
// another writer already published that version.
func WriteNodeFile(handle storage.AtomicHandle, node *codec.Node) error {
	data, err := codec.Encode(node)
	if err != nil {
		return err
	}
	if _, err := handle.Write(data); err != nil {
		_ = handle.Close()
		return err
	}
	return handle.Close()
}
