package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"strconv"

	"github.com/trinitylake-io/trinitylake-go/errs"
)

// magic identifies a trinitylake root node file. format tags the wire
// layout version so a future incompatible change can be rejected
// cleanly instead of silently misparsed.
var magic = [4]byte{'T', 'L', 'K', 'E'}

const format uint16 = 1

// Encode serializes n to its self-describing binary form:
//
//	magic (4 bytes) | format (uint16 BE) | row count (uint32 BE)
//	rows: keyLen (uint32 BE) | key | valueLen (uint32 BE) | value
//
// Rows are written in ascending order of key bytes so that encoding is
// deterministic and content-addressable hashes of the result are
// stable. NumKeysKey is refreshed to the node's current user-key count
// before encoding, so callers never need to maintain it by hand.
func Encode(n *Node) ([]byte, error) {
	n.Set(NumKeysKey, strconv.Itoa(n.Len()))

	keys := n.allKeysSorted()

	var buf bytes.Buffer
	buf.Write(magic[:])
	if err := binary.Write(&buf, binary.BigEndian, format); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, uint32(len(keys))); err != nil {
		return nil, err
	}

	for _, k := range keys {
		v := n.rows[k]
		if err := writeString(&buf, k); err != nil {
			return nil, err
		}
		if err := writeString(&buf, v); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if err := binary.Write(buf, binary.BigEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := buf.WriteString(s)
	return err
}

// Decode parses the binary form produced by Encode. It rejects
// unknown headers with errs.CorruptNode and enforces that there are no
// duplicate keys, that both reserved rows are present, that the
// declared row count matches the number of rows actually read, and
// that NumKeysKey's value matches the decoded node's user-key count.
func Decode(data []byte) (*Node, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil || gotMagic != magic {
		return nil, errs.New(errs.CorruptNode, "bad magic header")
	}

	var gotFormat uint16
	if err := binary.Read(r, binary.BigEndian, &gotFormat); err != nil {
		return nil, errs.Wrap(errs.CorruptNode, err, "reading format tag")
	}
	if gotFormat != format {
		return nil, errs.New(errs.CorruptNode, "unsupported node format %d", gotFormat)
	}

	var count uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, errs.Wrap(errs.CorruptNode, err, "reading row count")
	}

	n := New()
	var observed uint32
	for i := uint32(0); i < count; i++ {
		key, err := readString(r)
		if err != nil {
			return nil, errs.Wrap(errs.CorruptNode, err, "reading row %d key", i)
		}
		value, err := readString(r)
		if err != nil {
			return nil, errs.Wrap(errs.CorruptNode, err, "reading row %d value", i)
		}
		if n.Has(key) {
			return nil, errs.New(errs.CorruptNode, "duplicate key %q", key)
		}
		n.rows[key] = value
		observed++
	}

	if observed != count {
		return nil, errs.New(errs.CorruptNode, "declared row count %d does not match observed count %d", count, observed)
	}
	if !n.Has(LakehouseDefKey) {
		return nil, errs.New(errs.CorruptNode, "missing reserved row %q", LakehouseDefKey)
	}
	numKeys, ok := n.Get(NumKeysKey)
	if !ok {
		return nil, errs.New(errs.CorruptNode, "missing reserved row %q", NumKeysKey)
	}
	declaredUserKeys, err := strconv.Atoi(numKeys)
	if err != nil {
		return nil, errs.Wrap(errs.CorruptNode, err, "parsing %q value %q", NumKeysKey, numKeys)
	}
	if declaredUserKeys != n.Len() {
		return nil, errs.New(errs.CorruptNode, "%q declares %d keys, node has %d", NumKeysKey, declaredUserKeys, n.Len())
	}

	return n, nil
}

func readString(r *bytes.Reader) (string, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
