package table

import "testing"

func strCol(name string, vals ...string) *Column {
	c := NewColumn(name, KindString, len(vals))
	for i, v := range vals {
		if v == "" {
			c.Null[i] = true
			continue
		}
		c.Str[i] = v
	}
	return c
}

func TestLeftJoinMatchAndMiss(t *testing.T) {
	left := New(strCol("key", "a", "b", "c"))
	right := New(strCol("key", "a", "b"), strCol("value", "A", "B"))

	joined, err := left.LeftJoin(right, []JoinKey{{Left: "key", Right: "key"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vc, ok := joined.Column("value")
	if !ok {
		t.Fatal("expected value column present")
	}
	if vc.Str[0] != "A" || vc.Str[1] != "B" {
		t.Fatalf("expected matched values A,B, got %v", vc.Str)
	}
	if !vc.Null[2] {
		t.Fatal("expected row c unmatched (null)")
	}
}

func TestAntiJoin(t *testing.T) {
	left := New(strCol("id", "1", "2", "3"))
	right := New(strCol("id", "2"))
	diff, err := left.AntiJoin(right, "id", "id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", diff.NumRows())
	}
	idc, _ := diff.Column("id")
	if idc.Str[0] != "1" || idc.Str[1] != "3" {
		t.Fatalf("expected [1,3], got %v", idc.Str)
	}
}

func TestUniqueKeepsFirst(t *testing.T) {
	c := strCol("id", "x", "x", "y")
	v := strCol("v", "first", "second", "third")
	tb := New(c, v)
	u, err := tb.Unique("id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.NumRows() != 2 {
		t.Fatalf("expected 2 unique rows, got %d", u.NumRows())
	}
	vc, _ := u.Column("v")
	if vc.Str[0] != "first" {
		t.Fatalf("expected first occurrence kept, got %q", vc.Str[0])
	}
}

func TestVStack(t *testing.T) {
	a := New(strCol("id", "1"))
	b := New(strCol("id", "2"))
	out, err := VStack(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", out.NumRows())
	}
}

func TestGroupByStableSortDescByCount(t *testing.T) {
	c := strCol("sig", "A", "B", "A", "C", "A", "B")
	tb := New(c)
	groups, err := tb.GroupBy("sig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	StableSortDescByCount(groups)
	if groups[0].Count != 3 {
		t.Fatalf("expected highest count group first (3), got %d", groups[0].Count)
	}
	// B (count 2) must appear before C (count 1); ties among equal counts
	// preserve first-occurrence order already, nothing else ties here.
	if groups[1].Count != 2 || groups[2].Count != 1 {
		t.Fatalf("unexpected ordering: %+v", groups)
	}
}

func TestSliceAndClone(t *testing.T) {
	c := strCol("id", "1", "2", "3")
	tb := New(c)
	sl := tb.Slice(1, 3)
	if sl.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", sl.NumRows())
	}
	idc, _ := sl.Column("id")
	if idc.Str[0] != "2" || idc.Str[1] != "3" {
		t.Fatalf("expected [2,3], got %v", idc.Str)
	}

	clone := tb.Clone()
	cc, _ := clone.Column("id")
	cc.Str[0] = "mutated"
	orig, _ := tb.Column("id")
	if orig.Str[0] == "mutated" {
		t.Fatal("expected clone to be independent of original")
	}
}
