package codec

import (
	"math/big"
	"testing"

	"github.com/yulesa/glaciers/internal/table"
)

func TestStringifyPrimitives(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Value{Kind: KindBool, Bool: true}, "true"},
		{Value{Kind: KindBool, Bool: false}, "false"},
		{Value{Kind: KindUint, Int: big.NewInt(100)}, "100"},
		{Value{Kind: KindBytesVar, Bytes: []byte{}}, "0x"},
		{Value{Kind: KindBytesVar, Bytes: []byte{0xab, 0xcd}}, "0xabcd"},
		{Value{Kind: KindString, Str: "hello"}, "hello"},
		{Null, "None"},
	}
	for _, c := range cases {
		if got := Stringify(c.v); got != c.want {
			t.Errorf("Stringify(%+v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestStringifyArrayAndTuple(t *testing.T) {
	arr := Value{Kind: KindArray, Elems: []Value{
		{Kind: KindUint, Int: big.NewInt(1)},
		{Kind: KindUint, Int: big.NewInt(2)},
	}}
	if got, want := Stringify(arr), "[1, 2]"; got != want {
		t.Errorf("Stringify(array) = %q, want %q", got, want)
	}

	tup := Value{Kind: KindTuple, Elems: []Value{
		{Kind: KindBool, Bool: true},
		{Kind: KindString, Str: "x"},
	}}
	if got, want := Stringify(tup), "(true, x)"; got != want {
		t.Errorf("Stringify(tuple) = %q, want %q", got, want)
	}
}

func TestBinaryHexRoundTrip(t *testing.T) {
	col := table.NewColumn("hash", table.KindBinary, 2)
	col.Bin[0] = []byte{0xde, 0xad, 0xbe, 0xef}
	col.Null[1] = true
	tb := table.New(col)

	hexTb := BinaryToHex(tb)
	hc, ok := hexTb.Column("hash")
	if !ok || hc.Kind != table.KindString {
		t.Fatal("expected string column after BinaryToHex")
	}
	if hc.Str[0] != "0xdeadbeef" {
		t.Fatalf("expected 0xdeadbeef, got %q", hc.Str[0])
	}
	if !hc.Null[1] {
		t.Fatal("expected null preserved")
	}

	backTb, err := HexToBinary(hexTb, HexDatatypes{"hash": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bc, _ := backTb.Column("hash")
	if string(bc.Bin[0]) != string(col.Bin[0]) {
		t.Fatalf("round trip mismatch: got %x want %x", bc.Bin[0], col.Bin[0])
	}
	if !bc.Null[1] {
		t.Fatal("expected null preserved after round trip")
	}
}
