package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/trinitylake-io/trinitylake-go/tree"
)

// Isolation identifies the isolation level a transaction requested.
// The engine only ever offers one level today (see SPEC_FULL.md), but
// the field exists so a future level does not require an API break.
type Isolation string

// Serializable is the only isolation level the engine currently
// offers: reads and writes both go to the transaction's private clone
// of the beginning root (so a read observes the transaction's own
// earlier mutations), and two transactions beginning at the same
// version necessarily race for the next version at commit time.
const Serializable Isolation = "serializable"

// RunningTransaction is an in-memory snapshot under construction. It
// is not safe for concurrent mutation — exactly one goroutine should
// hold a given RunningTransaction at a time.
type RunningTransaction struct {
	// ID is an opaque transaction identifier, unique per BeginTransaction call.
	ID string
	// Begin is the wall-clock time the transaction started.
	Begin time.Time
	// Isolation is the isolation level requested at BeginTransaction.
	Isolation Isolation

	// beginning is the immutable snapshot observed at BeginTransaction.
	// It may be shared freely across readers.
	beginning *tree.VersionedNode
	// running is the mutable working copy. clone is mandatory before
	// any mutation, so mutating operations always replace this field
	// with a fresh RunningTransaction rather than aliasing it.
	running *tree.RunningNode
}

// BeginningRoot returns the immutable snapshot observed at
// BeginTransaction, which the running root was cloned from.
func (t *RunningTransaction) BeginningRoot() *tree.VersionedNode {
	return t.beginning
}

// RunningRoot returns the mutable working copy this transaction's
// pending writes live in.
func (t *RunningTransaction) RunningRoot() *tree.RunningNode {
	return t.running
}

// withRunning returns a new RunningTransaction sharing t's identity
// and beginning root but pointing at a different running root. Used
// by every mutating catalog operation so that the input transaction
// value is never itself mutated.
func (t *RunningTransaction) withRunning(r *tree.RunningNode) *RunningTransaction {
	return &RunningTransaction{
		ID:        t.ID,
		Begin:     t.Begin,
		Isolation: t.Isolation,
		beginning: t.beginning,
		running:   r,
	}
}

func newTransactionID() string {
	return uuid.NewString()
}

// CommittedTransaction records a successful atomic publish of a new root.
type CommittedTransaction struct {
	// ID is the transaction identifier that committed.
	ID string
	// Root is the root that was published.
	Root *tree.VersionedNode
}
