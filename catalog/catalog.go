// Package catalog implements the transaction engine: the entry point
// exposing create/alter/drop/describe/list/exists operations for
// namespaces and tables, built on top of storage, codec, keyencoder
// and tree.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/trinitylake-io/trinitylake-go/codec"
	"github.com/trinitylake-io/trinitylake-go/errs"
	"github.com/trinitylake-io/trinitylake-go/keyencoder"
	"github.com/trinitylake-io/trinitylake-go/log"
	"github.com/trinitylake-io/trinitylake-go/storage"
	"github.com/trinitylake-io/trinitylake-go/tree"
)

// Catalog is the transaction engine's handle: a storage backend and a
// key encoder bundled together, plus the ambient logging/metrics every
// operation goes through. There is no global state — every caller
// constructs (or is handed) its own Catalog.
type Catalog struct {
	store   storage.Store
	encoder *keyencoder.Encoder
	log     log.Logger
	metrics *metricsCollector
}

// Option configures New.
type Option func(*Catalog)

// WithLogger overrides the logger used for debug tracing. Defaults to
// log.Global().
func WithLogger(l log.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

// WithKeyEncoderConfig overrides the key encoder's naming parameters.
// Defaults to keyencoder.DefaultConfig().
func WithKeyEncoderConfig(cfg keyencoder.Config) Option {
	return func(c *Catalog) { c.encoder = keyencoder.New(cfg) }
}

// WithMetricsRegisterer registers the catalog's commit metrics with
// reg. If not supplied, metrics are collected but never exposed.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(c *Catalog) { c.metrics = newMetricsCollector(reg) }
}

// New returns a Catalog backed by store.
func New(store storage.Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:   store,
		encoder: keyencoder.New(keyencoder.DefaultConfig()),
		log:     log.Global(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newMetricsCollector(nil)
	}
	return c
}

// blobPath builds the path template for a freshly written descriptor
// blob. Each call mints a fresh UUID component so concurrent writers
// never collide, per §6.
func blobPath(kind string, parts ...string) string {
	p := kind
	for _, part := range parts {
		p += "/" + part
	}
	return p + "/" + uuid.NewString()
}

// CreateLakehouse writes the lakehouse descriptor blob and publishes
// root version 0 pointing at it. It fails with errs.AlreadyExists if
// root 0 has already been published by a previous call.
func (c *Catalog) CreateLakehouse(ctx context.Context, descriptor []byte) error {
	defPath := blobPath("lakehouse")
	if err := storage.WriteAll(ctx, c.store, defPath, descriptor); err != nil {
		return err
	}

	root := codec.New()
	root.SetLakehouseDef(defPath)

	data, err := codec.Encode(root)
	if err != nil {
		return err
	}

	path := tree.RootPath(0)
	if err := storage.WriteAllAtomic(ctx, c.store, path, data); err != nil {
		if errs.IsAlreadyExists(err) {
			return errs.New(errs.AlreadyExists, "lakehouse already initialized at %s", path)
		}
		return err
	}

	c.log.WithField("path", path).Debug("created lakehouse")
	return nil
}

// BeginTransaction captures the latest published root as both the
// beginning and running root of a new transaction. It fails with
// errs.Uninitialized if CreateLakehouse has not been called.
func (c *Catalog) BeginTransaction(ctx context.Context) (*RunningTransaction, error) {
	latest, err := tree.FindLatestRoot(ctx, c.store)
	if err != nil {
		return nil, err
	}
	running := tree.Clone(latest)
	return &RunningTransaction{
		ID:        newTransactionID(),
		Begin:     time.Now(),
		Isolation: Serializable,
		beginning: latest,
		running:   running,
	}, nil
}

// DescribeLakehouse reads the lakehouse descriptor blob referenced by
// tx's running root.
func (c *Catalog) DescribeLakehouse(ctx context.Context, tx *RunningTransaction) ([]byte, error) {
	return tree.FindLakehouseDef(ctx, c.store, tx.running.Node())
}

// CreateNamespace writes a namespace descriptor blob and sets its key
// in a cloned running root. It fails with errs.AlreadyExists if the
// namespace is already present in tx.
func (c *Catalog) CreateNamespace(ctx context.Context, tx *RunningTransaction, name string, descriptor []byte) (*RunningTransaction, error) {
	key, err := c.encoder.NamespaceKey(name)
	if err != nil {
		return nil, err
	}
	if tx.running.Node().Has(key) {
		return nil, errs.New(errs.AlreadyExists, "namespace %q already exists", name)
	}

	path := blobPath("ns", name)
	if err := storage.WriteAll(ctx, c.store, path, descriptor); err != nil {
		return nil, err
	}

	next := cloneRunning(tx.running)
	next.Set(key, path)
	return tx.withRunning(next), nil
}

// AlterNamespace writes a new namespace descriptor blob and swings the
// namespace's pointer to it. The prior blob remains readable — only
// the pointer moves. It fails with errs.NotFound if the namespace is
// not present in tx.
func (c *Catalog) AlterNamespace(ctx context.Context, tx *RunningTransaction, name string, descriptor []byte) (*RunningTransaction, error) {
	key, err := c.encoder.NamespaceKey(name)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(key) {
		return nil, errs.New(errs.NotFound, "namespace %q not found", name)
	}

	path := blobPath("ns", name)
	if err := storage.WriteAll(ctx, c.store, path, descriptor); err != nil {
		return nil, err
	}

	next := cloneRunning(tx.running)
	next.Set(key, path)
	return tx.withRunning(next), nil
}

// DropNamespace removes the namespace's key from a cloned running
// root. It fails with errs.NotFound if the namespace is not present.
func (c *Catalog) DropNamespace(_ context.Context, tx *RunningTransaction, name string) (*RunningTransaction, error) {
	key, err := c.encoder.NamespaceKey(name)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(key) {
		return nil, errs.New(errs.NotFound, "namespace %q not found", name)
	}
	next := cloneRunning(tx.running)
	next.Remove(key)
	return tx.withRunning(next), nil
}

// DescribeNamespace reads the descriptor blob referenced by name's
// key. It fails with errs.NotFound if the namespace is not present.
func (c *Catalog) DescribeNamespace(ctx context.Context, tx *RunningTransaction, name string) ([]byte, error) {
	key, err := c.encoder.NamespaceKey(name)
	if err != nil {
		return nil, err
	}
	path, ok := tx.running.Node().Get(key)
	if !ok {
		return nil, errs.New(errs.NotFound, "namespace %q not found", name)
	}
	return storage.ReadAll(ctx, c.store, path)
}

// NamespaceExists reports whether name is present. It never fails on
// absence — it returns false.
func (c *Catalog) NamespaceExists(tx *RunningTransaction, name string) bool {
	key, err := c.encoder.NamespaceKey(name)
	if err != nil {
		return false
	}
	return tx.running.Node().Has(key)
}

// ShowNamespaces returns every namespace name present in tx's running
// root, in ascending key order.
func (c *Catalog) ShowNamespaces(tx *RunningTransaction) []string {
	var out []string
	for _, k := range tx.running.Node().UserKeys() {
		if c.encoder.IsNamespaceKey(k) {
			name, err := c.encoder.NamespaceNameFromKey(k)
			if err == nil {
				out = append(out, name)
			}
		}
	}
	return out
}

// CreateTable writes a table descriptor blob and sets its key in a
// cloned running root. It fails with errs.NotFound if the namespace is
// absent, or errs.AlreadyExists if the table is already present.
func (c *Catalog) CreateTable(ctx context.Context, tx *RunningTransaction, namespace, table string, descriptor []byte) (*RunningTransaction, error) {
	nsKey, err := c.encoder.NamespaceKey(namespace)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(nsKey) {
		return nil, errs.New(errs.NotFound, "namespace %q not found", namespace)
	}
	key, err := c.encoder.TableKey(namespace, table)
	if err != nil {
		return nil, err
	}
	if tx.running.Node().Has(key) {
		return nil, errs.New(errs.AlreadyExists, "table %q.%q already exists", namespace, table)
	}

	path := blobPath("tbl", namespace, table)
	if err := storage.WriteAll(ctx, c.store, path, descriptor); err != nil {
		return nil, err
	}

	next := cloneRunning(tx.running)
	next.Set(key, path)
	return tx.withRunning(next), nil
}

// AlterTable writes a new table descriptor blob and swings the
// table's pointer to it. It fails with errs.NotFound if the namespace
// or table is not present.
func (c *Catalog) AlterTable(ctx context.Context, tx *RunningTransaction, namespace, table string, descriptor []byte) (*RunningTransaction, error) {
	nsKey, err := c.encoder.NamespaceKey(namespace)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(nsKey) {
		return nil, errs.New(errs.NotFound, "namespace %q not found", namespace)
	}
	key, err := c.encoder.TableKey(namespace, table)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(key) {
		return nil, errs.New(errs.NotFound, "table %q.%q not found", namespace, table)
	}

	path := blobPath("tbl", namespace, table)
	if err := storage.WriteAll(ctx, c.store, path, descriptor); err != nil {
		return nil, err
	}

	next := cloneRunning(tx.running)
	next.Set(key, path)
	return tx.withRunning(next), nil
}

// DropTable removes the table's key from a cloned running root. It
// fails with errs.NotFound if the namespace or table is not present.
func (c *Catalog) DropTable(_ context.Context, tx *RunningTransaction, namespace, table string) (*RunningTransaction, error) {
	nsKey, err := c.encoder.NamespaceKey(namespace)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(nsKey) {
		return nil, errs.New(errs.NotFound, "namespace %q not found", namespace)
	}
	key, err := c.encoder.TableKey(namespace, table)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(key) {
		return nil, errs.New(errs.NotFound, "table %q.%q not found", namespace, table)
	}
	next := cloneRunning(tx.running)
	next.Remove(key)
	return tx.withRunning(next), nil
}

// DescribeTable reads the descriptor blob referenced by the table's
// key. It fails with errs.NotFound if the namespace or table is not
// present.
func (c *Catalog) DescribeTable(ctx context.Context, tx *RunningTransaction, namespace, table string) ([]byte, error) {
	nsKey, err := c.encoder.NamespaceKey(namespace)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(nsKey) {
		return nil, errs.New(errs.NotFound, "namespace %q not found", namespace)
	}
	key, err := c.encoder.TableKey(namespace, table)
	if err != nil {
		return nil, err
	}
	path, ok := tx.running.Node().Get(key)
	if !ok {
		return nil, errs.New(errs.NotFound, "table %q.%q not found", namespace, table)
	}
	return storage.ReadAll(ctx, c.store, path)
}

// TableExists reports whether namespace.table is present. It never
// fails on absence — it returns false.
func (c *Catalog) TableExists(tx *RunningTransaction, namespace, table string) bool {
	key, err := c.encoder.TableKey(namespace, table)
	if err != nil {
		return false
	}
	return tx.running.Node().Has(key)
}

// ShowTables returns every table name in namespace present in tx's
// running root, in ascending key order. It fails with errs.NotFound if
// namespace itself is not present.
func (c *Catalog) ShowTables(tx *RunningTransaction, namespace string) ([]string, error) {
	nsKey, err := c.encoder.NamespaceKey(namespace)
	if err != nil {
		return nil, err
	}
	if !tx.running.Node().Has(nsKey) {
		return nil, errs.New(errs.NotFound, "namespace %q not found", namespace)
	}

	var out []string
	for _, k := range tx.running.Node().UserKeys() {
		if !c.encoder.IsTableKey(k) {
			continue
		}
		ns, tbl, err := c.encoder.TableNameFromKey(k)
		if err != nil {
			continue
		}
		if ns == namespace {
			out = append(out, tbl)
		}
	}
	return out, nil
}

// CommitTransaction computes the target version as
// tx.BeginningRoot().Version+1 and performs a conditional create on
// the corresponding root path. If another writer already published
// that version, it fails with errs.CommitConflict; the caller may
// retry by calling BeginTransaction again and replaying its
// mutations. It fails with errs.NothingToCommit if tx's running root
// has not been mutated.
func (c *Catalog) CommitTransaction(ctx context.Context, tx *RunningTransaction) (*CommittedTransaction, error) {
	if !tree.HasVersion(tx.running) {
		return nil, errs.New(errs.NothingToCommit, "transaction %s made no changes", tx.ID)
	}

	c.metrics.attempts.Inc()
	start := time.Now()
	defer func() { c.metrics.latency.Observe(time.Since(start).Seconds()) }()

	targetVersion := tree.FindVersionFromRootNode(tx.running) + 1
	path := tree.RootPath(targetVersion)

	handle, err := c.store.StartAtomicWrite(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := tree.WriteNodeFile(handle, tx.running.Node()); err != nil {
		if errs.IsAlreadyExists(err) {
			c.metrics.conflicts.Inc()
			c.log.WithField("version", targetVersion).Debug("commit lost the race for the next root version")
			return nil, errs.New(errs.CommitConflict, "version %d was published by another writer", targetVersion)
		}
		return nil, err
	}

	c.log.WithField("version", targetVersion).Debug("committed transaction")
	return &CommittedTransaction{
		ID:   tx.ID,
		Root: &tree.VersionedNode{Node: tx.running.Node(), Version: targetVersion},
	}, nil
}

// cloneRunning clones r's underlying node into a fresh RunningNode,
// preserving mutation isolation between the input transaction and the
// one returned by the caller.
func cloneRunning(r *tree.RunningNode) *tree.RunningNode {
	return tree.CloneRunning(r)
}
