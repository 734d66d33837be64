package codec

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yulesa/glaciers/internal/table"
	"github.com/yulesa/glaciers/internal/tableio"
)

// InvalidExtensionError is returned when a path's extension is neither
// ".parquet" nor ".csv".
type InvalidExtensionError struct {
	Path string
}

func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("codec: invalid extension: %s", e.Path)
}

// ReadTable dispatches file reading on path extension, per spec.md §4.2.
func ReadTable(path string) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return tableio.ReadParquet(path)
	case ".csv":
		return tableio.ReadCSV(path)
	default:
		return nil, &InvalidExtensionError{Path: path}
	}
}

// WriteTable mirrors ReadTable for writes.
func WriteTable(t *table.Table, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return tableio.WriteParquet(t, path)
	case ".csv":
		return tableio.WriteCSV(t, path)
	default:
		return &InvalidExtensionError{Path: path}
	}
}
