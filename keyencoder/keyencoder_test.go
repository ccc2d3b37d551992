package keyencoder

import (
	"testing"

	"github.com/trinitylake-io/trinitylake-go/codec"
)

func TestNamespaceAndTableKeyRoundTrip(t *testing.T) {
	e := New(DefaultConfig())

	nsKey, err := e.NamespaceKey("sales")
	if err != nil {
		t.Fatalf("NamespaceKey: %v", err)
	}
	if !e.IsNamespaceKey(nsKey) || e.IsTableKey(nsKey) {
		t.Fatalf("classification wrong for namespace key %q", nsKey)
	}
	name, err := e.NamespaceNameFromKey(nsKey)
	if err != nil || name != "sales" {
		t.Fatalf("NamespaceNameFromKey(%q) = (%q, %v), want (sales, nil)", nsKey, name, err)
	}

	tblKey, err := e.TableKey("sales", "orders")
	if err != nil {
		t.Fatalf("TableKey: %v", err)
	}
	if !e.IsTableKey(tblKey) || e.IsNamespaceKey(tblKey) {
		t.Fatalf("classification wrong for table key %q", tblKey)
	}
	ns, tbl, err := e.TableNameFromKey(tblKey)
	if err != nil || ns != "sales" || tbl != "orders" {
		t.Fatalf("TableNameFromKey(%q) = (%q, %q, %v), want (sales, orders, nil)", tblKey, ns, tbl, err)
	}
}

func TestClassificationIsExhaustiveAndExclusive(t *testing.T) {
	e := New(DefaultConfig())
	keys := []string{}
	if k, err := e.NamespaceKey("sales"); err == nil {
		keys = append(keys, k)
	}
	if k, err := e.TableKey("sales", "orders"); err == nil {
		keys = append(keys, k)
	}
	keys = append(keys, codec.LakehouseDefKey, codec.NumKeysKey)

	for _, k := range keys {
		classes := 0
		if e.IsNamespaceKey(k) {
			classes++
		}
		if e.IsTableKey(k) {
			classes++
		}
		if e.IsReservedKey(k) {
			classes++
		}
		if classes != 1 {
			t.Errorf("key %q belongs to %d classes, want exactly 1", k, classes)
		}
	}
}

func TestInvalidNameRejected(t *testing.T) {
	e := New(DefaultConfig())
	if _, err := e.NamespaceKey("sa~les"); err == nil {
		t.Fatal("expected InvalidName for a name containing the separator")
	}
	if _, err := e.NamespaceKey(""); err == nil {
		t.Fatal("expected InvalidName for an empty name")
	}
}

func TestMalformedKeyRejected(t *testing.T) {
	e := New(DefaultConfig())
	if _, err := e.NamespaceNameFromKey("tbl~sales~orders"); err == nil {
		t.Fatal("expected MalformedKey decoding a table key as a namespace key")
	}
	if _, _, err := e.TableNameFromKey("ns~sales"); err == nil {
		t.Fatal("expected MalformedKey decoding a namespace key as a table key")
	}
}
