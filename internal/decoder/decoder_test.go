package decoder

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/yulesa/glaciers/internal/table"
)

func leftPadHash(b []byte) []byte {
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// rightPadHash mirrors Solidity's right-padding of fixed-size byte arrays:
// the real bytes sit at the start of the 32-byte word, zeros fill the rest.
func rightPadHash(b []byte) []byte {
	out := make([]byte, 32)
	copy(out, b)
	return out
}

func TestDecodeLogsChunkERC20Transfer(t *testing.T) {
	from := common.HexToAddress("0x1111111111111111111111111111111111111111")
	to := common.HexToAddress("0x2222222222222222222222222222222222222222")
	value := big.NewInt(1000)

	n := 1
	sig := table.NewColumn("full_signature", table.KindString, n)
	sig.Str[0] = "Transfer(address indexed from,address indexed to,uint256 value)"
	anon := table.NewColumn("anonymous", table.KindBool, n)
	anon.Bool[0] = false
	t0 := table.NewColumn("topic0", table.KindBinary, n)
	t0.Null[0] = true
	t1 := table.NewColumn("topic1", table.KindBinary, n)
	t1.Bin[0] = leftPadHash(from.Bytes())
	t2 := table.NewColumn("topic2", table.KindBinary, n)
	t2.Bin[0] = leftPadHash(to.Bytes())
	t3 := table.NewColumn("topic3", table.KindBinary, n)
	t3.Null[0] = true
	data := table.NewColumn("data", table.KindBinary, n)
	data.Bin[0] = leftPadHash(value.Bytes())

	chunk := table.New(sig, anon, t0, t1, t2, t3, data)

	out, err := DecodeLogsChunk(chunk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keysCol, ok := out.Column("event_keys")
	if !ok {
		t.Fatal("expected event_keys column")
	}
	valsCol, ok := out.Column("event_values")
	if !ok {
		t.Fatal("expected event_values column")
	}
	if keysCol.IsNull(0) || valsCol.IsNull(0) {
		t.Fatal("expected non-null decode for a well-formed row")
	}
	keys := keysCol.List[0]
	vals := valsCol.List[0]
	wantKeys := []string{"from", "to", "value"}
	for i, k := range wantKeys {
		if keys[i] != k {
			t.Fatalf("key[%d] = %q, want %q", i, keys[i], k)
		}
	}
	if common.HexToAddress(vals[0]) != from {
		t.Fatalf("from = %q, want %s", vals[0], from.Hex())
	}
	if common.HexToAddress(vals[1]) != to {
		t.Fatalf("to = %q, want %s", vals[1], to.Hex())
	}
	if vals[2] != "1000" {
		t.Fatalf("value = %q, want 1000", vals[2])
	}

	jsonCol, ok := out.Column("event_json")
	if !ok || jsonCol.IsNull(0) || jsonCol.Str[0] == "" {
		t.Fatal("expected a non-empty event_json row")
	}
}

func TestDecodeLogsChunkIndexedFixedBytes(t *testing.T) {
	n := 1
	sig := table.NewColumn("full_signature", table.KindString, n)
	sig.Str[0] = "Tagged(bytes4 indexed tag)"
	anon := table.NewColumn("anonymous", table.KindBool, n)
	anon.Bool[0] = false
	t0 := table.NewColumn("topic0", table.KindBinary, n)
	t0.Null[0] = true
	t1 := table.NewColumn("topic1", table.KindBinary, n)
	t1.Bin[0] = rightPadHash([]byte{0xde, 0xad, 0xbe, 0xef})
	t2 := table.NewColumn("topic2", table.KindBinary, n)
	t2.Null[0] = true
	t3 := table.NewColumn("topic3", table.KindBinary, n)
	t3.Null[0] = true

	chunk := table.New(sig, anon, t0, t1, t2, t3)

	out, err := DecodeLogsChunk(chunk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	valsCol, ok := out.Column("event_values")
	if !ok || valsCol.IsNull(0) {
		t.Fatal("expected non-null decode for a well-formed row")
	}
	if got := valsCol.List[0][0]; got != "0xdeadbeef" {
		t.Fatalf("tag = %q, want 0xdeadbeef", got)
	}
}

func TestDecodeLogsChunkNullSignatureEmitsNullTriple(t *testing.T) {
	n := 1
	sig := table.NewColumn("full_signature", table.KindString, n)
	sig.Null[0] = true
	chunk := table.New(sig)

	out, err := DecodeLogsChunk(chunk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"event_values", "event_keys", "event_json"} {
		c, ok := out.Column(name)
		if !ok || !c.IsNull(0) {
			t.Fatalf("expected %s to be null for an unmatched row", name)
		}
	}
}

func TestDecodeLogsChunkParseFailureIsAbsorbed(t *testing.T) {
	n := 1
	sig := table.NewColumn("full_signature", table.KindString, n)
	sig.Str[0] = "not a valid signature"
	chunk := table.New(sig)

	out, err := DecodeLogsChunk(chunk)
	if err != nil {
		t.Fatalf("parse failures must be absorbed, not returned: %v", err)
	}
	vals, _ := out.Column("event_values")
	if !vals.IsNull(0) {
		t.Fatal("expected null event_values after a signature parse failure")
	}
}

func TestDecodeTracesChunkERC20Transfer(t *testing.T) {
	to := common.HexToAddress("0x3333333333333333333333333333333333333333")
	amount := big.NewInt(42)

	n := 1
	sig := table.NewColumn("full_signature", table.KindString, n)
	sig.Str[0] = "transfer(address to,uint256 amount) returns (bool success)"
	mut := table.NewColumn("state_mutability", table.KindString, n)
	mut.Str[0] = "nonpayable"

	input := table.NewColumn("action_input", table.KindBinary, n)
	body := append(leftPadHash(to.Bytes()), leftPadHash(amount.Bytes())...)
	input.Bin[0] = append(make([]byte, 4), body...) // fake 4-byte selector prefix

	output := table.NewColumn("result_output", table.KindBinary, n)
	success := make([]byte, 32)
	success[31] = 1
	output.Bin[0] = success

	chunk := table.New(sig, mut, input, output)

	out, err := DecodeTracesChunk(chunk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inVals, ok := out.Column("input_values")
	if !ok || inVals.IsNull(0) {
		t.Fatal("expected non-null input_values")
	}
	if inVals.List[0][0] != to.Hex() {
		t.Fatalf("input[0] = %q, want %s", inVals.List[0][0], to.Hex())
	}
	if inVals.List[0][1] != "42" {
		t.Fatalf("input[1] = %q, want 42", inVals.List[0][1])
	}

	outVals, ok := out.Column("output_values")
	if !ok || outVals.IsNull(0) {
		t.Fatal("expected non-null output_values")
	}
	if outVals.List[0][0] != "true" {
		t.Fatalf("output[0] = %q, want true", outVals.List[0][0])
	}
}

func TestParseEventRoundTripsAnonymousFlag(t *testing.T) {
	ev, err := ParseEvent("Approval(address indexed owner,address indexed spender,uint256 value)", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Anonymous {
		t.Fatal("expected non-anonymous event")
	}
	indexedCount := 0
	for _, in := range ev.Inputs {
		if in.Indexed {
			indexedCount++
		}
	}
	if indexedCount != 2 {
		t.Fatalf("indexedCount = %d, want 2", indexedCount)
	}
}
