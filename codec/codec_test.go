package codec

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	n := New()
	n.SetLakehouseDef("lakehouse/abc-123")
	n.Set("ns~sales", "ns/sales/def-456")
	n.Set("tbl~sales~orders", "tbl/sales/orders/ghi-789")

	encoded, err := Encode(n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	for _, k := range n.allKeysSorted() {
		want, _ := n.Get(k)
		got, ok := decoded.Get(k)
		if !ok || got != want {
			t.Errorf("key %q: got (%q, %v), want %q", k, got, ok, want)
		}
	}
	if decoded.Len() != n.Len() {
		t.Errorf("Len() = %d, want %d", decoded.Len(), n.Len())
	}
}

func TestDecodeEmptyRoot(t *testing.T) {
	n := New()
	n.SetLakehouseDef("lakehouse/root-def")

	encoded, err := Encode(n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Len() != 0 {
		t.Errorf("Len() = %d, want 0", decoded.Len())
	}
	if got, _ := decoded.LakehouseDef(); got != "lakehouse/root-def" {
		t.Errorf("LakehouseDef() = %q, want lakehouse/root-def", got)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	if _, err := Decode([]byte("not a node file")); err == nil {
		t.Fatal("expected error decoding garbage bytes")
	}
}

func TestDecodeRejectsMissingLakehouseDef(t *testing.T) {
	n := New()
	n.Set(NumKeysKey, "0")
	// Encode only refreshes NumKeysKey and never adds LakehouseDefKey, so
	// the encoded node carries a single reserved row (NumKeysKey) and the
	// missing-pointer path is actually exercised.
	n.rows = map[string]string{NumKeysKey: "0"}
	data, err := Encode(n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := Decode(data); err == nil {
		t.Fatal("expected CorruptNode decoding a node with no lakehouse pointer")
	}
}

func TestDecodeRejectsMismatchedNumKeys(t *testing.T) {
	// Built by hand rather than via Encode, since Encode always refreshes
	// NumKeysKey to the node's true count before writing it out.
	n := New()
	n.SetLakehouseDef("lakehouse/abc-123")
	n.Set("ns~sales", "ns/sales/def-456")
	n.rows[NumKeysKey] = "99"

	var buf bytes.Buffer
	buf.Write(magic[:])
	if err := binary.Write(&buf, binary.BigEndian, format); err != nil {
		t.Fatalf("writing format: %v", err)
	}
	keys := n.allKeysSorted()
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(keys))); err != nil {
		t.Fatalf("writing count: %v", err)
	}
	for _, k := range keys {
		if err := writeString(&buf, k); err != nil {
			t.Fatalf("writing key %q: %v", k, err)
		}
		if err := writeString(&buf, n.rows[k]); err != nil {
			t.Fatalf("writing value for %q: %v", k, err)
		}
	}

	if _, err := Decode(buf.Bytes()); err == nil {
		t.Fatal("expected CorruptNode decoding a node with a mismatched NumKeysKey")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	n := New()
	n.SetLakehouseDef("lakehouse/a")
	n.Set("ns~x", "ns/x/1")

	clone := n.Clone()
	clone.Set("ns~y", "ns/y/1")

	if n.Has("ns~y") {
		t.Fatal("mutating the clone must not affect the source node")
	}
	if !clone.Has("ns~x") {
		t.Fatal("clone must carry over rows from the source node")
	}
}
