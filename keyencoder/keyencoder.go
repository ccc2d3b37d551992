// Package keyencoder implements the deterministic mapping between
// domain names (namespace, table) and the flat key space each tree
// node owns. It is parameterized by a small Config — the "lakehouse
// descriptor" naming parameters in spec terms — rather than by the
// opaque descriptor blob itself, since the blob's physical format is
// an external collaborator's concern (see SPEC_FULL.md).
package keyencoder

import (
	"strings"

	"github.com/trinitylake-io/trinitylake-go/codec"
	"github.com/trinitylake-io/trinitylake-go/errs"
)

// Config carries the naming parameters an Encoder is built from. The
// zero value is not valid; use DefaultConfig or supply your own.
type Config struct {
	// Separator joins a namespace prefix, a name, and (for tables) the
	// table prefix and table name. It must not appear in any
	// namespace or table name the caller supplies.
	Separator string
	// NamespacePrefix marks a key as a namespace key.
	NamespacePrefix string
	// TablePrefix marks a key as a table key.
	TablePrefix string
}

// DefaultConfig returns the naming parameters trinitylake uses unless
// a lakehouse was created with different ones.
func DefaultConfig() Config {
	return Config{
		Separator:       "~",
		NamespacePrefix: "ns",
		TablePrefix:     "tbl",
	}
}

// Encoder maps namespace/table names to node keys and back.
type Encoder struct {
	cfg Config
}

// New returns an Encoder for cfg. It panics if cfg is structurally
// invalid (empty separator, or a prefix containing the separator) —
// those are programmer errors in lakehouse setup, not user input.
func New(cfg Config) *Encoder {
	if cfg.Separator == "" || cfg.NamespacePrefix == "" || cfg.TablePrefix == "" {
		panic("keyencoder: Config fields must be non-empty")
	}
	if strings.Contains(cfg.NamespacePrefix, cfg.Separator) || strings.Contains(cfg.TablePrefix, cfg.Separator) {
		panic("keyencoder: prefixes must not contain the separator")
	}
	return &Encoder{cfg: cfg}
}

func (e *Encoder) validateName(kind, name string) error {
	if name == "" {
		return errs.New(errs.InvalidName, "%s name must not be empty", kind)
	}
	if strings.Contains(name, e.cfg.Separator) {
		return errs.New(errs.InvalidName, "%s name %q contains reserved separator %q", kind, name, e.cfg.Separator)
	}
	return nil
}

// NamespaceKey returns the node key for namespace name. It is
// injective: distinct valid names always produce distinct keys.
func (e *Encoder) NamespaceKey(name string) (string, error) {
	if err := e.validateName("namespace", name); err != nil {
		return "", err
	}
	return e.cfg.NamespacePrefix + e.cfg.Separator + name, nil
}

// TableKey returns the node key for table within namespace. It is
// injective and disjoint from every namespace key and reserved key.
func (e *Encoder) TableKey(namespace, table string) (string, error) {
	if err := e.validateName("namespace", namespace); err != nil {
		return "", err
	}
	if err := e.validateName("table", table); err != nil {
		return "", err
	}
	return e.cfg.TablePrefix + e.cfg.Separator + namespace + e.cfg.Separator + table, nil
}

// IsNamespaceKey reports whether k was produced by NamespaceKey for
// some valid name.
func (e *Encoder) IsNamespaceKey(k string) bool {
	prefix := e.cfg.NamespacePrefix + e.cfg.Separator
	if !strings.HasPrefix(k, prefix) {
		return false
	}
	rest := strings.TrimPrefix(k, prefix)
	return rest != "" && !strings.Contains(rest, e.cfg.Separator)
}

// IsTableKey reports whether k was produced by TableKey for some
// valid namespace/table pair.
func (e *Encoder) IsTableKey(k string) bool {
	prefix := e.cfg.TablePrefix + e.cfg.Separator
	if !strings.HasPrefix(k, prefix) {
		return false
	}
	rest := strings.TrimPrefix(k, prefix)
	parts := strings.SplitN(rest, e.cfg.Separator, 2)
	return len(parts) == 2 && parts[0] != "" && parts[1] != "" && !strings.Contains(parts[1], e.cfg.Separator)
}

// IsReservedKey reports whether k is one of the codec's reserved rows.
func (e *Encoder) IsReservedKey(k string) bool {
	return k == codec.LakehouseDefKey || k == codec.NumKeysKey
}

// NamespaceNameFromKey inverts NamespaceKey, failing with
// errs.MalformedKey if k is not a namespace key.
func (e *Encoder) NamespaceNameFromKey(k string) (string, error) {
	if !e.IsNamespaceKey(k) {
		return "", errs.New(errs.MalformedKey, "key %q is not a namespace key", k)
	}
	return strings.TrimPrefix(k, e.cfg.NamespacePrefix+e.cfg.Separator), nil
}

// TableNameFromKey inverts TableKey, failing with errs.MalformedKey if
// k is not a table key. It returns the namespace and table name.
func (e *Encoder) TableNameFromKey(k string) (namespace, table string, err error) {
	if !e.IsTableKey(k) {
		return "", "", errs.New(errs.MalformedKey, "key %q is not a table key", k)
	}
	rest := strings.TrimPrefix(k, e.cfg.TablePrefix+e.cfg.Separator)
	parts := strings.SplitN(rest, e.cfg.Separator, 2)
	return parts[0], parts[1], nil
}
