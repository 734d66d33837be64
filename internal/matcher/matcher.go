// Package matcher left-joins raw record tables against the ABI catalog by
// selector hash, per spec.md §4.4. Raw tables are expected to already carry
// the canonical column names (topic0..topic3, data, address for logs;
// selector, action_input, result_output, action_to for traces) — the
// decoder orchestrator renames configured aliases to these before matching.
package matcher

import (
	"fmt"

	"github.com/yulesa/glaciers/internal/table"
)

// ErrorKind enumerates MatcherError subvariants (spec.md §7).
type ErrorKind int

const KindEngineError ErrorKind = 0

type MatcherError struct {
	Err error
}

func (e *MatcherError) Error() string { return fmt.Sprintf("matcher: engine error: %v", e.Err) }
func (e *MatcherError) Unwrap() error { return e.Err }

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return &MatcherError{Err: err}
}

// withLogNumIndexedArgs computes num_indexed_args on a raw log table as
// 1 + (topic1 not null) + (topic2 not null) + (topic3 not null), per
// spec.md §4.4 and the resolved Open Question in §9.
func withLogNumIndexedArgs(logs *table.Table) *table.Table {
	n := logs.NumRows()
	col := table.NewColumn("num_indexed_args", table.KindInt64, n)
	t1, hasT1 := logs.Column("topic1")
	t2, hasT2 := logs.Column("topic2")
	t3, hasT3 := logs.Column("topic3")
	for i := 0; i < n; i++ {
		count := int64(1)
		if hasT1 && !t1.IsNull(i) {
			count++
		}
		if hasT2 && !t2.IsNull(i) {
			count++
		}
		if hasT3 && !t3.IsNull(i) {
			count++
		}
		col.Int[i] = count
	}
	return logs.WithColumn(col)
}

// MatchLogsByTopic0Address implements spec.md §4.4 "Log, hash_address".
func MatchLogsByTopic0Address(logs, catalog *table.Table) (*table.Table, error) {
	withIdx := withLogNumIndexedArgs(logs)
	joined, err := withIdx.LeftJoin(catalog, []table.JoinKey{
		{Left: "topic0", Right: "hash"},
		{Left: "address", Right: "address"},
		{Left: "num_indexed_args", Right: "num_indexed_args"},
	})
	return joined, wrap(err)
}

// MatchTracesBy4BytesAddress implements spec.md §4.4 "Trace, hash_address".
func MatchTracesBy4BytesAddress(traces, catalog *table.Table) (*table.Table, error) {
	joined, err := traces.LeftJoin(catalog, []table.JoinKey{
		{Left: "selector", Right: "hash"},
		{Left: "action_to", Right: "address"},
	})
	return joined, wrap(err)
}

// signatureFrequencyTable implements spec.md §4.4's "signature-frequency
// table": group by groupCols, count, keep the modal group per partitionCols
// (ties broken by stable descending sort = first occurrence), project out
// address.
func signatureFrequencyTable(catalog *table.Table, groupCols []string, partitionCols []string) (*table.Table, error) {
	groups, err := catalog.GroupBy(groupCols...)
	if err != nil {
		return nil, err
	}
	table.StableSortDescByCount(groups)

	best := map[string]table.GroupCount{}
	order := []string{}
	partCols := make([]*table.Column, len(partitionCols))
	for i, name := range partitionCols {
		c, ok := catalog.Column(name)
		if !ok {
			return nil, fmt.Errorf("matcher: missing partition column %q", name)
		}
		partCols[i] = c
	}
	for _, g := range groups {
		key := partitionKey(partCols, g.RowIndex)
		if _, exists := best[key]; !exists {
			best[key] = g
			order = append(order, key)
		}
	}

	rows := make([]int, 0, len(order))
	for _, k := range order {
		rows = append(rows, best[k].RowIndex)
	}
	projected := catalog.Exclude("address")
	return selectRowsPublic(projected, rows), nil
}

// selectRowsPublic mirrors table's private selectRows via the public API
// (Slice-per-row vstack), since signature-frequency tables are small.
func selectRowsPublic(t *table.Table, rows []int) *table.Table {
	slices := make([]*table.Table, len(rows))
	for i, r := range rows {
		slices[i] = t.Slice(r, r+1)
	}
	out, err := table.VStack(slices...)
	if err != nil {
		return t.Slice(0, 0)
	}
	return out
}

func partitionKey(cols []*table.Column, row int) string {
	s := ""
	for _, c := range cols {
		if c.IsNull(row) {
			s += "\x00NULL\x00|"
			continue
		}
		switch c.Kind {
		case table.KindString:
			s += c.Str[row] + "|"
		case table.KindBinary:
			s += string(c.Bin[row]) + "|"
		case table.KindInt64:
			s += fmt.Sprintf("%d|", c.Int[row])
		}
	}
	return s
}

// MatchLogsByTopic0 implements spec.md §4.4 "Log, hash (two-pass)".
func MatchLogsByTopic0(logs, catalog *table.Table) (*table.Table, error) {
	firstPass, err := MatchLogsByTopic0Address(logs, catalog)
	if err != nil {
		return nil, err
	}

	matchedRows, unmatchedRows := partitionBySignature(firstPass)
	matched := selectRowsPublic(firstPass, matchedRows)
	unmatchedRaw := selectRowsPublic(logs, unmatchedRows)
	unmatchedRaw = withLogNumIndexedArgs(unmatchedRaw)

	freq, err := signatureFrequencyTable(catalog,
		[]string{"hash", "full_signature", "name", "anonymous", "num_indexed_args"},
		[]string{"hash", "num_indexed_args"})
	if err != nil {
		return nil, wrap(err)
	}

	secondPass, err := unmatchedRaw.LeftJoin(freq, []table.JoinKey{
		{Left: "topic0", Right: "hash"},
		{Left: "num_indexed_args", Right: "num_indexed_args"},
	})
	if err != nil {
		return nil, wrap(err)
	}

	return table.VStack(matched, secondPass)
}

// MatchTracesBy4Bytes implements spec.md §4.4 "Trace, hash (two-pass)".
func MatchTracesBy4Bytes(traces, catalog *table.Table) (*table.Table, error) {
	firstPass, err := MatchTracesBy4BytesAddress(traces, catalog)
	if err != nil {
		return nil, err
	}

	matchedRows, unmatchedRows := partitionBySignature(firstPass)
	matched := selectRowsPublic(firstPass, matchedRows)
	unmatchedRaw := selectRowsPublic(traces, unmatchedRows)

	freq, err := signatureFrequencyTable(catalog,
		[]string{"hash", "full_signature", "name"},
		[]string{"hash"})
	if err != nil {
		return nil, wrap(err)
	}

	secondPass, err := unmatchedRaw.LeftJoin(freq, []table.JoinKey{
		{Left: "selector", Right: "hash"},
	})
	if err != nil {
		return nil, wrap(err)
	}

	return table.VStack(matched, secondPass)
}

func partitionBySignature(t *table.Table) (matched, unmatched []int) {
	sig, ok := t.Column("full_signature")
	if !ok {
		for i := 0; i < t.NumRows(); i++ {
			unmatched = append(unmatched, i)
		}
		return
	}
	for i := 0; i < t.NumRows(); i++ {
		if sig.IsNull(i) {
			unmatched = append(unmatched, i)
		} else {
			matched = append(matched, i)
		}
	}
	return
}
