package abicatalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	eABI "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/yulesa/glaciers/internal/config"
)

const transferABI = `[
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},
    {"name":"to","type":"address","indexed":true},
    {"name":"value","type":"uint256","indexed":false}
  ]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[
    {"name":"_to","type":"address"},
    {"name":"_value","type":"uint256"}
  ],"outputs":[{"name":"","type":"bool"}]}
]`

func TestReadAbiJSONEventRow(t *testing.T) {
	config.Reset()
	parsed, err := eABI.JSON(strings.NewReader(transferABI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")
	tb, err := ReadAbiJSON(parsed, addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tb.NumRows() != 1 {
		t.Fatalf("expected 1 event row (default abi_read_mode=events), got %d", tb.NumRows())
	}
	nameCol, _ := tb.Column("name")
	if nameCol.Str[0] != "Transfer" {
		t.Fatalf("expected Transfer, got %q", nameCol.Str[0])
	}
	numIdx, _ := tb.Column("num_indexed_args")
	n, ok := numIdx.IntAt(0)
	if !ok || n != 3 {
		t.Fatalf("expected num_indexed_args=3 (1+2 indexed), got %d ok=%v", n, ok)
	}
	hashCol, _ := tb.Column("hash")
	if len(hashCol.Bin[0]) != 32 {
		t.Fatalf("expected 32-byte event hash, got %d bytes", len(hashCol.Bin[0]))
	}
}

func TestReadAbiJSONFunctionRow(t *testing.T) {
	config.Reset()
	if err := config.Set("abi_reader.abi_read_mode", "functions"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parsed, err := eABI.JSON(strings.NewReader(transferABI))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")
	tb, err := ReadAbiJSON(parsed, addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tb.NumRows() != 1 {
		t.Fatalf("expected 1 function row, got %d", tb.NumRows())
	}
	hashCol, _ := tb.Column("hash")
	if len(hashCol.Bin[0]) != 4 {
		t.Fatalf("expected 4-byte function selector, got %d bytes", len(hashCol.Bin[0]))
	}
	mutCol, _ := tb.Column("state_mutability")
	if mutCol.Str[0] != "nonpayable" {
		t.Fatalf("expected nonpayable, got %q", mutCol.Str[0])
	}
}

func TestScanAbiSourceSkipsInvalidFilename(t *testing.T) {
	config.Reset()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "not-an-address.json"), []byte(transferABI), 0o644); err != nil {
		t.Fatal(err)
	}
	validName := "0x0000000000000000000000000000000000000002.json"
	if err := os.WriteFile(filepath.Join(dir, validName), []byte(transferABI), 0o644); err != nil {
		t.Fatal(err)
	}
	tb, err := ScanAbiSource(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tb.NumRows() != 1 {
		t.Fatalf("expected only the valid-address file to contribute a row, got %d", tb.NumRows())
	}
}
