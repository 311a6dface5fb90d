package verify

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"ownck/internal/cfg"
	"ownck/internal/diag"
	"ownck/internal/source"
	"ownck/internal/symbols"
)

func noDst() cfg.Place {
	return cfg.Place{Local: cfg.NoLocalID}
}

// moveThenUse builds the classic offender: a is moved into b, then read.
func moveThenUse(table *symbols.Table, id cfg.FuncID, name string) *cfg.Func {
	b := cfg.NewBuilder(table, id, name, source.Span{})
	scope := b.FuncScope()
	a := b.Local("a", "Str", symbols.MoveKindMove, scope, 0, source.Span{})
	dst := b.Local("b", "Str", symbols.MoveKindMove, scope, 0, source.Span{})

	bb := b.NewBlock(scope)
	b.Assign(bb, cfg.PlaceOf(a), cfg.UseRV(cfg.ConstOp()))
	b.Assign(bb, cfg.PlaceOf(dst), cfg.UseRV(cfg.MoveOp(cfg.PlaceOf(a))))
	b.Call(bb, "use", noDst(), false, cfg.CopyOp(cfg.PlaceOf(a)))
	b.ReturnVoid(bb)
	return b.MustFinish()
}

// returnRefToLocal builds a reference to a frame local that escapes through
// the return.
func returnRefToLocal(table *symbols.Table, id cfg.FuncID, name string) *cfg.Func {
	b := cfg.NewBuilder(table, id, name, source.Span{})
	scope := b.FuncScope()
	v := b.Local("v", "Buf", symbols.MoveKindMove, scope, 0, source.Span{})
	r := b.Local("r", "Ref", symbols.MoveKindCopy, scope, cfg.LocalFlagRef, source.Span{})

	bb := b.NewBlock(scope)
	b.Assign(bb, cfg.PlaceOf(v), cfg.UseRV(cfg.ConstOp()))                 // p0
	b.Assign(bb, cfg.PlaceOf(r), cfg.RefRV(cfg.RefShared, cfg.PlaceOf(v))) // p1
	b.Return(bb, cfg.CopyOp(cfg.PlaceOf(r)))                               // p2
	return b.MustFinish()
}

func TestFuncRequiresFrozenTable(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	fn := moveThenUse(table, 1, "f")
	if _, err := Func(table, fn, Options{}); !errors.Is(err, ErrTableNotFrozen) {
		t.Fatalf("err = %v, want ErrTableNotFrozen", err)
	}
}

func TestUseAfterMoveDiagnostic(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	fn := moveThenUse(table, 1, "f")
	table.Freeze()

	bag, err := Func(table, fn, Options{})
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", items)
	}
	d := items[0]
	if d.Code != diag.OwnUseAfterMove || d.Template != diag.TmplUseAfterMove {
		t.Fatalf("diagnostic = %+v, want use-after-move", d)
	}
	if d.Point != 2 || !d.HasRelated || d.RelatedPoint != 1 {
		t.Fatalf("diagnostic = %+v, want use at p2 related to move at p1", d)
	}
}

func TestReturnedReferenceToLocalDangles(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	fn := returnRefToLocal(table, 1, "f")
	table.Freeze()

	bag, err := Func(table, fn, Options{})
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", items)
	}
	d := items[0]
	if d.Code != diag.OwnDanglingReference || d.Template != diag.TmplDanglingReference {
		t.Fatalf("diagnostic = %+v, want dangling reference", d)
	}
	if d.Point != 1 {
		t.Fatalf("diagnostic at p%d, want the borrow site p1", d.Point)
	}
}

func TestAllViolationsCollected(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	b := cfg.NewBuilder(table, 1, "multi", source.Span{})
	scope := b.FuncScope()
	a := b.Local("a", "Buf", symbols.MoveKindMove, scope, 0, source.Span{})
	r := b.Local("r", "Ref", symbols.MoveKindCopy, scope, cfg.LocalFlagRef, source.Span{})
	dst := b.Local("b", "Buf", symbols.MoveKindMove, scope, 0, source.Span{})

	bb := b.NewBlock(scope)
	b.Assign(bb, cfg.PlaceOf(a), cfg.UseRV(cfg.ConstOp()))                 // p0
	b.Assign(bb, cfg.PlaceOf(r), cfg.RefRV(cfg.RefShared, cfg.PlaceOf(a))) // p1
	b.Assign(bb, cfg.PlaceOf(dst), cfg.UseRV(cfg.MoveOp(cfg.PlaceOf(a))))  // p2: move while borrowed
	b.Call(bb, "use", noDst(), false, cfg.CopyOp(cfg.PlaceOf(r)))          // p3
	b.Call(bb, "use", noDst(), false, cfg.CopyOp(cfg.PlaceOf(a)))          // p4: use after move
	b.ReturnVoid(bb)
	fn := b.MustFinish()
	table.Freeze()

	bag, err := Func(table, fn, Options{})
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected both violations, got %+v", items)
	}
	// Sorted by point: the move-while-borrowed at p2 precedes the
	// use-after-move at p4.
	if items[0].Code != diag.OwnMoveWhileBorrowed || items[0].Point != 2 {
		t.Fatalf("items[0] = %+v, want move-while-borrowed at p2", items[0])
	}
	if items[1].Code != diag.OwnUseAfterMove || items[1].Point != 4 {
		t.Fatalf("items[1] = %+v, want use-after-move at p4", items[1])
	}
}

func TestIdenticalInputIdenticalOutput(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	fn := moveThenUse(table, 1, "f")
	fn2 := returnRefToLocal(table, 2, "g")
	table.Freeze()

	run := func() []diag.Diagnostic {
		results, err := Module(context.Background(), table, []*cfg.Func{fn, fn2}, Options{Jobs: 2})
		if err != nil {
			t.Fatalf("Module: %v", err)
		}
		return Aggregate(results).Items()
	}
	first := run()
	for i := 0; i < 8; i++ {
		if again := run(); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d diverged:\n%+v\nvs\n%+v", i, first, again)
		}
	}
}

func TestModuleKeepsInputOrder(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	funcs := []*cfg.Func{
		moveThenUse(table, 7, "seven"),
		moveThenUse(table, 3, "three"),
		moveThenUse(table, 5, "five"),
	}
	table.Freeze()

	results, err := Module(context.Background(), table, funcs, Options{Jobs: 3})
	if err != nil {
		t.Fatalf("Module: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, want := range []string{"seven", "three", "five"} {
		if results[i].Name != want {
			t.Fatalf("results[%d].Name = %q, want %q", i, results[i].Name, want)
		}
		if !results[i].Bag.HasErrors() {
			t.Fatalf("results[%d] should carry the seeded violation", i)
		}
	}
}

func TestModuleRequiresFrozenTable(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	fn := moveThenUse(table, 1, "f")
	if _, err := Module(context.Background(), table, []*cfg.Func{fn}, Options{}); !errors.Is(err, ErrTableNotFrozen) {
		t.Fatalf("err = %v, want ErrTableNotFrozen", err)
	}
}
