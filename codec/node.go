// Package codec serializes and deserializes a tree node — the
// catalog's versioned snapshot — to and from the single opaque byte
// sequence the storage adapter persists under root/<version>.
package codec

import "sort"

// Reserved row keys. These are chosen so that no name the key encoder
// can ever produce collides with them: every encoded key starts with a
// non-empty namespace or table prefix, and the encoder's NamespaceKey and
// TableKey reject any name containing its separator, which in the
// default configuration is the same '~' byte these keys start with.
const (
	// LakehouseDefKey points at the lakehouse descriptor blob.
	LakehouseDefKey = "~lakehouse"
	// NumKeysKey is the stored count of non-reserved rows, checked
	// against the observed count on decode.
	NumKeysKey = "~numkeys"
)

// Node is an in-memory tree node: the ordered set of (key, value) rows
// that make up one catalog snapshot. Keys are unique within a node.
// Node is a value-ish type — the engine never mutates a Node it does
// not own; Clone must be called before any mutation that should not
// be visible to other holders of the same Node.
type Node struct {
	rows map[string]string
}

// New returns an empty node with no rows, including no reserved rows.
// Callers constructing a root must call SetLakehouseDef explicitly.
func New() *Node {
	return &Node{rows: map[string]string{}}
}

// Clone produces a deep, independently mutable copy that shares no
// mutable state with n. This is the only way to get a node that is
// safe to mutate — running transactions always clone before Set/Remove.
func (n *Node) Clone() *Node {
	cp := make(map[string]string, len(n.rows))
	for k, v := range n.rows {
		cp[k] = v
	}
	return &Node{rows: cp}
}

// Get returns the value stored at key and whether key is present.
func (n *Node) Get(key string) (string, bool) {
	v, ok := n.rows[key]
	return v, ok
}

// Set writes key to value, inserting or overwriting the row.
func (n *Node) Set(key, value string) {
	n.rows[key] = value
}

// Remove deletes key from the node. Removing an absent key is a no-op.
func (n *Node) Remove(key string) {
	delete(n.rows, key)
}

// Has reports whether key is present.
func (n *Node) Has(key string) bool {
	_, ok := n.rows[key]
	return ok
}

// LakehouseDef returns the lakehouse-definition pointer row, if set.
func (n *Node) LakehouseDef() (string, bool) {
	return n.Get(LakehouseDefKey)
}

// SetLakehouseDef sets the lakehouse-definition pointer row.
func (n *Node) SetLakehouseDef(path string) {
	n.Set(LakehouseDefKey, path)
}

// UserKeys returns every non-reserved key in the node, sorted
// lexicographically by byte representation — the canonical order the
// codec also uses when serializing.
func (n *Node) UserKeys() []string {
	out := make([]string, 0, len(n.rows))
	for k := range n.rows {
		if isReservedKey(k) {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// allKeysSorted returns every row's key, reserved or not, in canonical
// (sorted) order. Used only by the codec when serializing.
func (n *Node) allKeysSorted() []string {
	out := make([]string, 0, len(n.rows))
	for k := range n.rows {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isReservedKey(k string) bool {
	return k == LakehouseDefKey || k == NumKeysKey
}

// Len returns the number of non-reserved rows.
func (n *Node) Len() int {
	return len(n.UserKeys())
}
