package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/yulesa/glaciers/internal/table"
)

// BinaryToHex converts every binary-typed column of t into a string column
// whose values are "0x" + lowercase-hex(bytes), per spec.md §4.2.
func BinaryToHex(t *table.Table) *table.Table {
	out := t
	for _, c := range t.Columns() {
		if c.Kind != table.KindBinary {
			continue
		}
		n := c.Len()
		nc := table.NewColumn(c.Name, table.KindString, n)
		for i := 0; i < n; i++ {
			if c.Null[i] {
				nc.Null[i] = true
				continue
			}
			nc.Str[i] = "0x" + hex.EncodeToString(c.Bin[i])
		}
		out = out.WithColumn(nc)
	}
	return out
}

// HexDatatypes names, per schema group, which aliased columns are encoded
// as hex strings rather than raw binary.
type HexDatatypes map[string]bool

// HexToBinary strips a leading "0x" (case-insensitive) and hex-decodes every
// column named in hexCols, leaving all other columns untouched.
func HexToBinary(t *table.Table, hexCols HexDatatypes) (*table.Table, error) {
	out := t
	for name, isHex := range hexCols {
		if !isHex {
			continue
		}
		c, ok := t.Column(name)
		if !ok || c.Kind != table.KindString {
			continue
		}
		n := c.Len()
		nc := table.NewColumn(c.Name, table.KindBinary, n)
		for i := 0; i < n; i++ {
			if c.Null[i] {
				nc.Null[i] = true
				continue
			}
			s := c.Str[i]
			if strings.HasPrefix(strings.ToLower(s), "0x") {
				s = s[2:]
			}
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("codec: hex_to_binary: column %q row %d: %w", name, i, err)
			}
			nc.Bin[i] = b
		}
		out = out.WithColumn(nc)
	}
	return out, nil
}
