package catalog

import (
	"context"
	"testing"

	"github.com/trinitylake-io/trinitylake-go/errs"
	"github.com/trinitylake-io/trinitylake-go/storage/memstore"
)

func mustBegin(t *testing.T, c *Catalog) *RunningTransaction {
	t.Helper()
	tx, err := c.BeginTransaction(context.Background())
	if err != nil {
		t.Fatalf("BeginTransaction: %v", err)
	}
	return tx
}

func TestBeginTransactionBeforeCreateLakehouseIsUninitialized(t *testing.T) {
	c := New(memstore.New())
	if _, err := c.BeginTransaction(context.Background()); !errs.Is(err, errs.Uninitialized) {
		t.Fatalf("got %v, want Uninitialized", err)
	}
}

func TestCreateLakehouseThenEmptyListing(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	if err := c.CreateLakehouse(ctx, []byte("lakehouse descriptor")); err != nil {
		t.Fatalf("CreateLakehouse: %v", err)
	}

	tx := mustBegin(t, c)
	if got := c.ShowNamespaces(tx); len(got) != 0 {
		t.Fatalf("ShowNamespaces = %v, want empty", got)
	}
}

func TestCreateLakehouseTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	if err := c.CreateLakehouse(ctx, []byte("d1")); err != nil {
		t.Fatalf("CreateLakehouse: %v", err)
	}
	if err := c.CreateLakehouse(ctx, []byte("d2")); !errs.Is(err, errs.AlreadyExists) {
		t.Fatalf("got %v, want AlreadyExists", err)
	}
}

func TestCreateAndDescribeNamespace(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	if err := c.CreateLakehouse(ctx, []byte("lakehouse")); err != nil {
		t.Fatalf("CreateLakehouse: %v", err)
	}

	tx := mustBegin(t, c)
	tx, err := c.CreateNamespace(ctx, tx, "sales", []byte("sales namespace"))
	if err != nil {
		t.Fatalf("CreateNamespace: %v", err)
	}
	if !c.NamespaceExists(tx, "sales") {
		t.Fatal("NamespaceExists = false, want true")
	}
	got, err := c.DescribeNamespace(ctx, tx, "sales")
	if err != nil {
		t.Fatalf("DescribeNamespace: %v", err)
	}
	if string(got) != "sales namespace" {
		t.Fatalf("descriptor = %q, want %q", got, "sales namespace")
	}

	if _, err := c.CommitTransaction(ctx, tx); err != nil {
		t.Fatalf("CommitTransaction: %v", err)
	}
}

func TestCreateNamespaceTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	_ = c.CreateLakehouse(ctx, []byte("lakehouse"))

	tx := mustBegin(t, c)
	tx, err := c.CreateNamespace(ctx, tx, "sales", []byte("d1"))
	if err != nil {
		t.Fatalf("CreateNamespace: %v", err)
	}
	if _, err := c.CreateNamespace(ctx, tx, "sales", []byte("d2")); !errs.Is(err, errs.AlreadyExists) {
		t.Fatalf("got %v, want AlreadyExists", err)
	}
}

func TestDropMissingNamespaceNotFound(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	_ = c.CreateLakehouse(ctx, []byte("lakehouse"))
	tx := mustBegin(t, c)
	if _, err := c.DropNamespace(ctx, tx, "ghost"); !errs.Is(err, errs.NotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestExistencePredicatesNeverFail(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	_ = c.CreateLakehouse(ctx, []byte("lakehouse"))
	tx := mustBegin(t, c)

	if c.NamespaceExists(tx, "ghost") {
		t.Fatal("NamespaceExists = true, want false")
	}
	if c.TableExists(tx, "ghost", "ghost") {
		t.Fatal("TableExists = true, want false")
	}
}

func TestShowTablesFiltersByNamespace(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	_ = c.CreateLakehouse(ctx, []byte("lakehouse"))

	tx := mustBegin(t, c)
	tx, err := c.CreateNamespace(ctx, tx, "sales", []byte("sales"))
	if err != nil {
		t.Fatalf("CreateNamespace(sales): %v", err)
	}
	tx, err = c.CreateNamespace(ctx, tx, "marketing", []byte("marketing"))
	if err != nil {
		t.Fatalf("CreateNamespace(marketing): %v", err)
	}
	tx, err = c.CreateTable(ctx, tx, "sales", "orders", []byte("orders"))
	if err != nil {
		t.Fatalf("CreateTable(sales.orders): %v", err)
	}
	tx, err = c.CreateTable(ctx, tx, "marketing", "campaigns", []byte("campaigns"))
	if err != nil {
		t.Fatalf("CreateTable(marketing.campaigns): %v", err)
	}

	got, err := c.ShowTables(tx, "sales")
	if err != nil {
		t.Fatalf("ShowTables: %v", err)
	}
	if len(got) != 1 || got[0] != "orders" {
		t.Fatalf("ShowTables(sales) = %v, want [orders]", got)
	}
}

func TestCommitWithNoMutationsIsNothingToCommit(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	_ = c.CreateLakehouse(ctx, []byte("lakehouse"))
	tx := mustBegin(t, c)
	if _, err := c.CommitTransaction(ctx, tx); !errs.Is(err, errs.NothingToCommit) {
		t.Fatalf("got %v, want NothingToCommit", err)
	}
}

func TestConcurrentTransactionsConflictOnCommit(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	_ = c.CreateLakehouse(ctx, []byte("lakehouse"))

	tx1 := mustBegin(t, c)
	tx2 := mustBegin(t, c)

	tx1, err := c.CreateNamespace(ctx, tx1, "sales", []byte("sales"))
	if err != nil {
		t.Fatalf("CreateNamespace(tx1): %v", err)
	}
	tx2, err = c.CreateNamespace(ctx, tx2, "marketing", []byte("marketing"))
	if err != nil {
		t.Fatalf("CreateNamespace(tx2): %v", err)
	}

	if _, err := c.CommitTransaction(ctx, tx1); err != nil {
		t.Fatalf("CommitTransaction(tx1): %v", err)
	}
	if _, err := c.CommitTransaction(ctx, tx2); !errs.Is(err, errs.CommitConflict) {
		t.Fatalf("got %v, want CommitConflict", err)
	}
}

func TestAlterNamespacePreservesKeyButSwingsDescriptor(t *testing.T) {
	ctx := context.Background()
	c := New(memstore.New())
	_ = c.CreateLakehouse(ctx, []byte("lakehouse"))

	tx := mustBegin(t, c)
	tx, err := c.CreateNamespace(ctx, tx, "sales", []byte("v1"))
	if err != nil {
		t.Fatalf("CreateNamespace: %v", err)
	}
	tx, err = c.AlterNamespace(ctx, tx, "sales", []byte("v2"))
	if err != nil {
		t.Fatalf("AlterNamespace: %v", err)
	}
	got, err := c.DescribeNamespace(ctx, tx, "sales")
	if err != nil {
		t.Fatalf("DescribeNamespace: %v", err)
	}
	if string(got) != "v2" {
		t.Fatalf("descriptor = %q, want v2", got)
	}
}
