package diag

import (
	"testing"

	"ownck/internal/cfg"
	"ownck/internal/source"
	"ownck/internal/symbols"
)

func sampleFunc(id cfg.FuncID, name string) *cfg.Func {
	table := symbols.NewTable(symbols.Hints{}, nil)
	b := cfg.NewBuilder(table, id, name, source.Span{})
	b.Local("x", "Str", symbols.MoveKindMove, b.FuncScope(), 0, source.Span{})
	bb := b.NewBlock(b.FuncScope())
	b.ReturnVoid(bb)
	return b.MustFinish()
}

func TestBagLimit(t *testing.T) {
	fn := sampleFunc(1, "f")
	bag := NewBag(2)
	d := New(SevError, OwnUseAfterMove, TmplUseAfterMove, 0, fn, 0, cfg.PlaceOf(0))
	if !bag.Add(d) || !bag.Add(d) {
		t.Fatal("adds under the limit must succeed")
	}
	if bag.Add(d) {
		t.Fatal("add past the limit must report a drop")
	}
	if bag.Len() != 2 || bag.Cap() != 2 {
		t.Fatalf("len=%d cap=%d, want 2/2", bag.Len(), bag.Cap())
	}
}

func TestBagSortOrder(t *testing.T) {
	f1 := sampleFunc(1, "f")
	f2 := sampleFunc(2, "g")
	bag := NewBag(8)

	// Deliberately out of order on every key.
	bag.Add(New(SevError, OwnConflictingBorrow, TmplUniqueBorrowConflict, 2, f2, 0, cfg.PlaceOf(0)))
	bag.Add(New(SevError, OwnUseAfterMove, TmplUseAfterMove, 0, f1, 5, cfg.PlaceOf(0)))
	bag.Add(New(SevError, OwnConflictingBorrow, TmplUniqueBorrowConflict, 1, f2, 0, cfg.PlaceOf(0)))
	bag.Add(New(SevError, OwnUseAfterMove, TmplUseAfterMove, 0, f1, 2, cfg.PlaceOf(0)))
	bag.Sort()

	items := bag.Items()
	type key struct {
		fn   cfg.FuncID
		pt   cfg.PointID
		rule uint8
	}
	want := []key{{1, 2, 0}, {1, 5, 0}, {2, 0, 1}, {2, 0, 2}}
	for i, w := range want {
		got := key{items[i].Func, items[i].Point, items[i].Rule}
		if got != w {
			t.Fatalf("items[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestReporterFanOut(t *testing.T) {
	fn := sampleFunc(1, "f")
	src := NewBag(2)
	src.Add(New(SevError, OwnUseAfterMove, TmplUseAfterMove, 0, fn, 0, cfg.PlaceOf(0)))
	src.Add(New(SevError, OwnDanglingReference, TmplDanglingReference, 4, fn, 1, cfg.PlaceOf(0)))

	a := NewBag(2)
	b := NewBag(2)
	src.Drain(MultiReporter{BagReporter{Bag: a}, BagReporter{Bag: b}, NopReporter{}})
	if a.Len() != 2 || b.Len() != 2 {
		t.Fatalf("fan-out sank %d/%d diagnostics, want 2/2", a.Len(), b.Len())
	}
	if a.Items()[1].Code != OwnDanglingReference {
		t.Fatal("drain must preserve stored order")
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	fn := sampleFunc(1, "f")
	d := New(SevError, OwnUseAfterMove, TmplUseAfterMove, 0, fn, 0, cfg.PlaceOf(0))

	a := NewBag(1)
	a.Add(d)
	b := NewBag(2)
	b.Add(d)
	b.Add(d)

	a.Merge(b)
	if a.Len() != 3 || a.Cap() < 3 {
		t.Fatalf("len=%d cap=%d after merge, want 3 items kept", a.Len(), a.Cap())
	}
	if !a.HasErrors() {
		t.Fatal("merged bag holds errors")
	}
}
