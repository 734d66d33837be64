package matcher

import (
	"testing"

	"github.com/yulesa/glaciers/internal/table"
)

func binCol(name string, vals ...[]byte) *table.Column {
	c := table.NewColumn(name, table.KindBinary, len(vals))
	for i, v := range vals {
		if v == nil {
			c.Null[i] = true
			continue
		}
		c.Bin[i] = v
	}
	return c
}

func strCol(name string, vals ...string) *table.Column {
	c := table.NewColumn(name, table.KindString, len(vals))
	for i, v := range vals {
		c.Str[i] = v
	}
	return c
}

func TestMatchLogsByTopic0AddressUnknownStaysNull(t *testing.T) {
	topic0 := []byte{0x01}
	addr := []byte{0xaa}
	logs := table.New(
		binCol("topic0", topic0),
		binCol("topic1", nil),
		binCol("topic2", nil),
		binCol("topic3", nil),
		binCol("address", addr),
	)
	catalog := table.New(
		binCol("hash", []byte{0x02}),
		binCol("address", addr),
		table.NewColumn("num_indexed_args", table.KindInt64, 1),
		strCol("full_signature", "Other()"),
	)
	joined, err := MatchLogsByTopic0Address(logs, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sig, ok := joined.Column("full_signature")
	if !ok {
		t.Fatal("expected full_signature column present")
	}
	if !sig.IsNull(0) {
		t.Fatal("expected unmatched row to carry null full_signature")
	}
}

func TestMatchLogsByTopic0TwoPassFallback(t *testing.T) {
	topic0 := []byte{0x01}
	logs := table.New(
		binCol("topic0", topic0),
		binCol("topic1", []byte{0xaa}),
		binCol("topic2", nil),
		binCol("topic3", nil),
		binCol("address", []byte{0xff}), // contract not in catalog
	)
	hashCol := table.NewColumn("hash", table.KindBinary, 1)
	hashCol.Bin[0] = topic0
	numIdx := table.NewColumn("num_indexed_args", table.KindInt64, 1)
	numIdx.Int[0] = 2
	anon := table.NewColumn("anonymous", table.KindBool, 1)
	anon.Bool[0] = false
	catalog := table.New(
		hashCol,
		binCol("address", []byte{0x11}),
		numIdx,
		anon,
		strCol("full_signature", "Transfer(address,address)"),
		strCol("name", "Transfer"),
	)

	out, err := MatchLogsByTopic0(logs, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sig, ok := out.Column("full_signature")
	if !ok {
		t.Fatal("expected full_signature column")
	}
	found := false
	for i := 0; i < out.NumRows(); i++ {
		if !sig.IsNull(i) && sig.Str[i] == "Transfer(address,address)" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected two-pass fallback to resolve signature by (hash, num_indexed_args)")
	}
}
