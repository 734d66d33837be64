package tableio

import (
	encoding_csv "encoding/csv"
	"encoding/hex"
	"io"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"

	"github.com/yulesa/glaciers/internal/table"
)

// ReadCSV reads a row-oriented CSV file into a Table. Every column is read
// back from arrow/csv as a string column, then coerced to KindInt64 or
// KindBool when every non-null value parses cleanly as one (int64 or
// "true"/"false"), mirroring what WriteCSV wrote for KindInt64/KindBool
// columns; everything else, including binary columns (which round-trip
// through the same "0x"-prefixed hex-string convention
// codec.BinaryToHex/HexToBinary use elsewhere, since CSV has no native
// binary cell type), stays KindString.
func ReadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, err := peekHeader(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	r := arrowcsv.NewReader(f, schema, arrowcsv.WithHeader(true), arrowcsv.WithAllocator(pool))
	defer r.Release()

	n := 0
	cols := make([]*table.Column, len(header))
	for i, name := range header {
		cols[i] = table.NewColumn(name, table.KindString, 0)
		_ = name
		_ = cols[i]
	}
	var strs [][]string
	strs = make([][]string, len(header))

	for r.Next() {
		rec := r.Record()
		for ci := 0; ci < int(rec.NumCols()); ci++ {
			sa, ok := rec.Column(ci).(*array.String)
			if !ok {
				continue
			}
			for i := 0; i < sa.Len(); i++ {
				if sa.IsNull(i) {
					strs[ci] = append(strs[ci], "\x00NULL\x00")
				} else {
					strs[ci] = append(strs[ci], sa.Value(i))
				}
			}
		}
		n += int(rec.NumRows())
	}
	if err := r.Err(); err != nil && err != io.EOF {
		return nil, err
	}

	out := make([]*table.Column, len(header))
	for ci, name := range header {
		c := table.NewColumn(name, table.KindString, n)
		for i := 0; i < n && i < len(strs[ci]); i++ {
			if strs[ci][i] == "\x00NULL\x00" {
				c.Null[i] = true
			} else {
				c.Str[i] = strs[ci][i]
			}
		}
		out[ci] = coerceColumnKind(c)
	}
	return table.New(out...), nil
}

// coerceColumnKind re-types a string column read back from CSV as KindInt64
// or KindBool when every non-null value parses as one, undoing the
// stringification WriteCSV applies to those kinds. Columns with no non-null
// values, or any value that fails to parse, are left as KindString.
func coerceColumnKind(c *table.Column) *table.Column {
	n := len(c.Str)
	allInt, allBool, sawValue := true, true, false
	for i := 0; i < n; i++ {
		if c.Null[i] {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseInt(c.Str[i], 10, 64); err != nil {
			allInt = false
		}
		if c.Str[i] != "true" && c.Str[i] != "false" {
			allBool = false
		}
	}
	if !sawValue {
		return c
	}

	switch {
	case allInt:
		out := table.NewColumn(c.Name, table.KindInt64, n)
		for i := 0; i < n; i++ {
			if c.Null[i] {
				out.Null[i] = true
				continue
			}
			v, _ := strconv.ParseInt(c.Str[i], 10, 64)
			out.Int[i] = v
		}
		return out
	case allBool:
		out := table.NewColumn(c.Name, table.KindBool, n)
		for i := 0; i < n; i++ {
			if c.Null[i] {
				out.Null[i] = true
				continue
			}
			out.Bool[i] = c.Str[i] == "true"
		}
		return out
	default:
		return c
	}
}

func peekHeader(f *os.File) ([]string, error) {
	r := encoding_csv.NewReader(f)
	return r.Read()
}

// WriteCSV writes t to path as row-oriented CSV. Binary columns are
// rendered "0x"+hex; string-list columns are joined with ";" (mirroring the
// original decoder's own ";"-joined multi-part UDF output convention).
func WriteCSV(t *table.Table, path string) error {
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.Name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := arrowcsv.NewWriter(f, schema, arrowcsv.WithHeader(true))
	defer w.Flush()

	rb := array.NewRecordBuilder(pool, schema)
	defer rb.Release()
	n := t.NumRows()
	for ci, c := range cols {
		b := rb.Field(ci).(*array.StringBuilder)
		for i := 0; i < n; i++ {
			if c.Null[i] {
				b.AppendNull()
				continue
			}
			switch c.Kind {
			case table.KindString:
				b.Append(c.Str[i])
			case table.KindBinary:
				b.Append("0x" + hex.EncodeToString(c.Bin[i]))
			case table.KindInt64:
				b.Append(strconv.FormatInt(c.Int[i], 10))
			case table.KindBool:
				b.Append(strconv.FormatBool(c.Bool[i]))
			case table.KindStringList:
				b.Append(joinList(c.List[i]))
			}
		}
	}
	rec := rb.NewRecord()
	defer rec.Release()
	return w.Write(rec)
}
