// Package tableio adapts internal/table.Table to and from on-disk columnar
// (Parquet) and row-oriented (CSV) files, via github.com/apache/arrow-go/v18 —
// the one piece of spec.md's dataframe-engine black box this module does not
// hand-roll, since parquet/CSV codec correctness is exactly what a dedicated
// Arrow implementation buys over ad-hoc byte pushing.
package tableio

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/yulesa/glaciers/internal/table"
)

var pool = memory.NewGoAllocator()

func arrowType(k table.Kind) arrow.DataType {
	switch k {
	case table.KindString:
		return arrow.BinaryTypes.String
	case table.KindBinary:
		return arrow.BinaryTypes.Binary
	case table.KindInt64:
		return arrow.PrimitiveTypes.Int64
	case table.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case table.KindStringList:
		return arrow.ListOf(arrow.BinaryTypes.String)
	default:
		return arrow.BinaryTypes.String
	}
}

func arrowSchema(t *table.Table) *arrow.Schema {
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// toArrowTable materializes t as a single-chunk arrow.Table.
func toArrowTable(t *table.Table) (arrow.Table, error) {
	schema := arrowSchema(t)
	rb := array.NewRecordBuilder(pool, schema)
	defer rb.Release()

	n := t.NumRows()
	for ci, c := range t.Columns() {
		switch c.Kind {
		case table.KindString:
			b := rb.Field(ci).(*array.StringBuilder)
			for i := 0; i < n; i++ {
				if c.Null[i] {
					b.AppendNull()
				} else {
					b.Append(c.Str[i])
				}
			}
		case table.KindBinary:
			b := rb.Field(ci).(*array.BinaryBuilder)
			for i := 0; i < n; i++ {
				if c.Null[i] {
					b.AppendNull()
				} else {
					b.Append(c.Bin[i])
				}
			}
		case table.KindInt64:
			b := rb.Field(ci).(*array.Int64Builder)
			for i := 0; i < n; i++ {
				if c.Null[i] {
					b.AppendNull()
				} else {
					b.Append(c.Int[i])
				}
			}
		case table.KindBool:
			b := rb.Field(ci).(*array.BooleanBuilder)
			for i := 0; i < n; i++ {
				if c.Null[i] {
					b.AppendNull()
				} else {
					b.Append(c.Bool[i])
				}
			}
		case table.KindStringList:
			b := rb.Field(ci).(*array.ListBuilder)
			vb := b.ValueBuilder().(*array.StringBuilder)
			for i := 0; i < n; i++ {
				if c.Null[i] {
					b.AppendNull()
					continue
				}
				b.Append(true)
				for _, s := range c.List[i] {
					vb.Append(s)
				}
			}
		default:
			return nil, fmt.Errorf("tableio: unsupported column kind for %q", c.Name)
		}
	}

	rec := rb.NewRecord()
	defer rec.Release()
	return array.NewTableFromRecords(schema, []arrow.Record{rec}), nil
}

// fromArrowTable rebuilds an internal table.Table from an arrow.Table, read
// back column-by-column, chunk-by-chunk.
func fromArrowTable(at arrow.Table) (*table.Table, error) {
	n := int(at.NumRows())
	cols := make([]*table.Column, 0, at.NumCols())
	for ci := 0; ci < int(at.NumCols()); ci++ {
		field := at.Schema().Field(ci)
		chunked := at.Column(ci).Data()
		kind, err := kindFromArrow(field.Type)
		if err != nil {
			return nil, err
		}
		col := table.NewColumn(field.Name, kind, n)
		row := 0
		for _, chunk := range chunked.Chunks() {
			if err := appendChunk(col, chunk, &row); err != nil {
				return nil, err
			}
		}
		cols = append(cols, col)
	}
	return table.New(cols...), nil
}

func kindFromArrow(t arrow.DataType) (table.Kind, error) {
	switch t.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return table.KindString, nil
	case arrow.BINARY, arrow.LARGE_BINARY, arrow.FIXED_SIZE_BINARY:
		return table.KindBinary, nil
	case arrow.INT64, arrow.INT32, arrow.INT16, arrow.INT8,
		arrow.UINT64, arrow.UINT32, arrow.UINT16, arrow.UINT8:
		return table.KindInt64, nil
	case arrow.BOOL:
		return table.KindBool, nil
	case arrow.LIST, arrow.LARGE_LIST:
		return table.KindStringList, nil
	default:
		return table.KindString, nil
	}
}

func appendChunk(col *table.Column, arr arrow.Array, row *int) error {
	switch col.Kind {
	case table.KindString:
		sa, ok := arr.(*array.String)
		if !ok {
			return fmt.Errorf("tableio: expected string array for %q", col.Name)
		}
		for i := 0; i < sa.Len(); i++ {
			if sa.IsNull(i) {
				col.Null[*row] = true
			} else {
				col.Str[*row] = sa.Value(i)
			}
			*row++
		}
	case table.KindBinary:
		ba, ok := arr.(*array.Binary)
		if !ok {
			return fmt.Errorf("tableio: expected binary array for %q", col.Name)
		}
		for i := 0; i < ba.Len(); i++ {
			if ba.IsNull(i) {
				col.Null[*row] = true
			} else {
				v := ba.Value(i)
				cp := make([]byte, len(v))
				copy(cp, v)
				col.Bin[*row] = cp
			}
			*row++
		}
	case table.KindInt64:
		ia, ok := arr.(*array.Int64)
		if !ok {
			return fmt.Errorf("tableio: expected int64 array for %q", col.Name)
		}
		for i := 0; i < ia.Len(); i++ {
			if ia.IsNull(i) {
				col.Null[*row] = true
			} else {
				col.Int[*row] = ia.Value(i)
			}
			*row++
		}
	case table.KindBool:
		ba, ok := arr.(*array.Boolean)
		if !ok {
			return fmt.Errorf("tableio: expected boolean array for %q", col.Name)
		}
		for i := 0; i < ba.Len(); i++ {
			if ba.IsNull(i) {
				col.Null[*row] = true
			} else {
				col.Bool[*row] = ba.Value(i)
			}
			*row++
		}
	case table.KindStringList:
		la, ok := arr.(*array.List)
		if !ok {
			return fmt.Errorf("tableio: expected list array for %q", col.Name)
		}
		values, ok := la.ListValues().(*array.String)
		if !ok {
			return fmt.Errorf("tableio: expected string list values for %q", col.Name)
		}
		for i := 0; i < la.Len(); i++ {
			if la.IsNull(i) {
				col.Null[*row] = true
				*row++
				continue
			}
			start, end := la.ValueOffsets(i)
			elems := make([]string, 0, end-start)
			for j := start; j < end; j++ {
				elems = append(elems, values.Value(int(j)))
			}
			col.List[*row] = elems
			*row++
		}
	}
	return nil
}

func joinList(l []string) string { return strings.Join(l, ";") }
