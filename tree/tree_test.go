package tree

import (
	"context"
	"testing"

	"github.com/trinitylake-io/trinitylake-go/codec"
	"github.com/trinitylake-io/trinitylake-go/errs"
	"github.com/trinitylake-io/trinitylake-go/storage"
	"github.com/trinitylake-io/trinitylake-go/storage/memstore"
)

func TestFindLatestRootUninitialized(t *testing.T) {
	store := memstore.New()
	if _, err := FindLatestRoot(context.Background(), store); !errs.Is(err, errs.Uninitialized) {
		t.Fatalf("got %v, want Uninitialized", err)
	}
}

func TestFindLatestRootPicksHighestVersion(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	for v := uint64(0); v < 3; v++ {
		n := codec.New()
		n.SetLakehouseDef("lakehouse/x")
		n.Set("marker", pad(v))
		data, err := codec.Encode(n)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if err := storage.WriteAllAtomic(ctx, store, RootPath(v), data); err != nil {
			t.Fatalf("writing root %d: %v", v, err)
		}
	}

	got, err := FindLatestRoot(ctx, store)
	if err != nil {
		t.Fatalf("FindLatestRoot: %v", err)
	}
	if got.Version != 2 {
		t.Fatalf("Version = %d, want 2", got.Version)
	}
	if marker, _ := got.Node.Get("marker"); marker != pad(2) {
		t.Fatalf("marker = %q, want %q", marker, pad(2))
	}
}

func TestCloneTracksDirty(t *testing.T) {
	n := codec.New()
	n.SetLakehouseDef("lakehouse/x")
	vn := &VersionedNode{Node: n, Version: 0}

	clone := Clone(vn)
	if HasVersion(clone) {
		t.Fatal("an unmodified clone must not report HasVersion")
	}
	clone.Set("ns~sales", "ns/sales/1")
	if !HasVersion(clone) {
		t.Fatal("a clone mutated via Set must report HasVersion")
	}
	if n.Has("ns~sales") {
		t.Fatal("mutating the clone must not affect the source node")
	}
}
