package tableio

import (
	"context"
	"os"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/yulesa/glaciers/internal/table"
)

// ReadParquet reads a columnar parquet file into a Table.
func ReadParquet(path string) (*table.Table, error) {
	rdr, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, pool)
	if err != nil {
		return nil, err
	}
	at, err := fr.ReadTable(context.Background())
	if err != nil {
		return nil, err
	}
	defer at.Release()
	return fromArrowTable(at)
}

// WriteParquet writes t to path in parquet format.
func WriteParquet(t *table.Table, path string) error {
	at, err := toArrowTable(t)
	if err != nil {
		return err
	}
	defer at.Release()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	props := parquet.NewWriterProperties()
	arrProps := pqarrow.DefaultWriterProps()
	return pqarrow.WriteTable(at, f, at.NumRows(), props, arrProps)
}
