package abicatalog

import (
	"os"
	"path/filepath"

	"github.com/yulesa/glaciers/internal/codec"
	"github.com/yulesa/glaciers/internal/table"
)

// ReadCatalog loads a persisted catalog table and normalizes its hash/
// address columns to binary, for callers outside this package (the decoder
// orchestrator's decode_df step).
func ReadCatalog(path string) (*table.Table, error) {
	return readCatalogFile(path)
}

func readCatalogFile(path string) (*table.Table, error) {
	t, err := codec.ReadTable(path)
	if err != nil {
		return nil, &CatalogError{Kind: KindInvalidAbiDb, Reason: err.Error(), Err: err}
	}
	hexCols := codec.HexDatatypes{"hash": true, "address": true}
	return codec.HexToBinary(t, hexCols)
}

func writeCatalogFile(t *table.Table, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &CatalogError{Kind: KindInvalidAbiDb, Reason: err.Error(), Err: err}
		}
	}
	if err := codec.WriteTable(t, path); err != nil {
		return &CatalogError{Kind: KindInvalidAbiDb, Reason: err.Error(), Err: err}
	}
	return nil
}

func hexEncodeCatalog(t *table.Table) *table.Table {
	return codec.BinaryToHex(t)
}
