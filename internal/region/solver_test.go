package region

import (
	"testing"

	"ownck/internal/cfg"
	"ownck/internal/source"
	"ownck/internal/symbols"
)

func TestRegionSetOps(t *testing.T) {
	a := New(128)
	b := New(128)
	a.Add(3)
	a.Add(70)
	b.Add(70)

	if !b.ContainedIn(a) {
		t.Fatalf("b ⊆ a expected")
	}
	if a.ContainedIn(b) {
		t.Fatalf("a ⊆ b unexpected")
	}

	inter := a.Intersect(b)
	if inter.Len() != 1 || !inter.Has(70) {
		t.Fatalf("intersection = %v, want {70}", inter.Points())
	}

	union := a.Union(b)
	if union.Len() != 2 {
		t.Fatalf("union = %v, want {3,70}", union.Points())
	}

	if max, ok := a.Max(); !ok || max != 70 {
		t.Fatalf("Max = %d,%v, want 70,true", max, ok)
	}
}

// straightLine builds one block:
//
//	p0: a = const
//	p1: r = &a
//	p2: use(copy r)
//	p3: b = const        (r is dead here)
//	p4: return
func straightLine(t *testing.T) (*cfg.Func, *symbols.Table, *cfg.Points) {
	t.Helper()
	table := symbols.NewTable(symbols.Hints{}, nil)
	b := cfg.NewBuilder(table, 1, "straight", source.Span{})
	scope := b.FuncScope()

	a := b.Local("a", "Str", symbols.MoveKindMove, scope, 0, source.Span{})
	r := b.Local("r", "&Str", symbols.MoveKindCopy, scope, cfg.LocalFlagRef, source.Span{})
	c := b.Local("c", "Int", symbols.MoveKindCopy, scope, 0, source.Span{})

	bb := b.NewBlock(scope)
	b.Assign(bb, cfg.PlaceOf(a), cfg.UseRV(cfg.ConstOp()))
	b.Assign(bb, cfg.PlaceOf(r), cfg.RefRV(cfg.RefShared, cfg.PlaceOf(a)))
	b.Call(bb, "use", cfg.Place{Local: cfg.NoLocalID}, false, cfg.CopyOp(cfg.PlaceOf(r)))
	b.Assign(bb, cfg.PlaceOf(c), cfg.UseRV(cfg.ConstOp()))
	b.ReturnVoid(bb)

	fn := b.MustFinish()
	return fn, table, cfg.BuildPoints(fn)
}

func TestRegionEndsAtLastUse(t *testing.T) {
	fn, _, points := straightLine(t)
	solver := Solve(fn, points)

	r := solver.RegionOf(1, 1) // borrow created at p1 into local r
	if !r.Has(1) || !r.Has(2) {
		t.Fatalf("region must cover creation and last use, got %v", r.Points())
	}
	if r.Has(3) || r.Has(4) {
		t.Fatalf("region must end at the last use, got %v", r.Points())
	}
}

func TestRefFlowExtendsRegion(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	b := cfg.NewBuilder(table, 1, "flow", source.Span{})
	scope := b.FuncScope()

	a := b.Local("a", "Str", symbols.MoveKindMove, scope, 0, source.Span{})
	r1 := b.Local("r1", "&Str", symbols.MoveKindCopy, scope, cfg.LocalFlagRef, source.Span{})
	r2 := b.Local("r2", "&Str", symbols.MoveKindCopy, scope, cfg.LocalFlagRef, source.Span{})

	bb := b.NewBlock(scope)
	b.Assign(bb, cfg.PlaceOf(a), cfg.UseRV(cfg.ConstOp()))                                 // p0
	b.Assign(bb, cfg.PlaceOf(r1), cfg.RefRV(cfg.RefShared, cfg.PlaceOf(a)))                // p1
	b.Assign(bb, cfg.PlaceOf(r2), cfg.UseRV(cfg.CopyOp(cfg.PlaceOf(r1))))                  // p2
	b.Call(bb, "use", cfg.Place{Local: cfg.NoLocalID}, false, cfg.CopyOp(cfg.PlaceOf(r2))) // p3
	b.ReturnVoid(bb)                                                                       // p4

	fn := b.MustFinish()
	points := cfg.BuildPoints(fn)
	solver := Solve(fn, points)

	region := solver.RegionOf(1, r1)
	if !region.Has(3) {
		t.Fatalf("borrow must stay live while a ref it flowed into is used; got %v", region.Points())
	}
}

func TestBranchMergedBorrowRegions(t *testing.T) {
	table := symbols.NewTable(symbols.Hints{}, nil)
	b := cfg.NewBuilder(table, 1, "merge", source.Span{})
	scope := b.FuncScope()

	a := b.Local("a", "Str", symbols.MoveKindMove, scope, 0, source.Span{})
	v := b.Local("v", "Str", symbols.MoveKindMove, scope, 0, source.Span{})
	r := b.Local("r", "&Str", symbols.MoveKindCopy, scope, cfg.LocalFlagRef, source.Span{})

	entry := b.NewBlock(scope)
	then := b.NewBlock(scope)
	els := b.NewBlock(scope)
	join := b.NewBlock(scope)

	b.Assign(entry, cfg.PlaceOf(a), cfg.UseRV(cfg.ConstOp()))                               // p0
	b.Assign(entry, cfg.PlaceOf(v), cfg.UseRV(cfg.ConstOp()))                               // p1
	b.If(entry, cfg.ConstOp(), then, els)                                                   // p2
	b.Assign(then, cfg.PlaceOf(r), cfg.RefRV(cfg.RefShared, cfg.PlaceOf(a)))                // p3
	b.Goto(then, join)                                                                      // p4
	b.Assign(els, cfg.PlaceOf(r), cfg.RefRV(cfg.RefShared, cfg.PlaceOf(v)))                 // p5
	b.Goto(els, join)                                                                       // p6
	b.Call(join, "use", cfg.Place{Local: cfg.NoLocalID}, false, cfg.CopyOp(cfg.PlaceOf(r))) // p7
	b.ReturnVoid(join)                                                                      // p8

	fn := b.MustFinish()
	points := cfg.BuildPoints(fn)
	solver := Solve(fn, points)

	// Each candidate source must reach the post-merge use through r, and
	// each region stays confined to its own branch before the merge.
	thenRegion := solver.RegionOf(3, r)
	if !thenRegion.Has(3) || !thenRegion.Has(7) {
		t.Fatalf("then-path region must span creation and merged use, got %v", thenRegion.Points())
	}
	if thenRegion.Has(5) || thenRegion.Has(6) {
		t.Fatalf("then-path region leaked onto the other branch: %v", thenRegion.Points())
	}
	elsRegion := solver.RegionOf(5, r)
	if !elsRegion.Has(5) || !elsRegion.Has(7) {
		t.Fatalf("else-path region must span creation and merged use, got %v", elsRegion.Points())
	}
	if elsRegion.Has(3) || elsRegion.Has(4) {
		t.Fatalf("else-path region leaked onto the other branch: %v", elsRegion.Points())
	}

	common := thenRegion.Intersect(elsRegion)
	if common.Len() != 1 || !common.Has(7) {
		t.Fatalf("the regions meet exactly at the merged use, got %v", common.Points())
	}
}

func TestScopePointsExcludesReturn(t *testing.T) {
	fn, table, points := straightLine(t)

	scope := ScopePoints(fn, points, table, fn.Scope, false)
	if scope.Has(points.Term(0)) {
		t.Fatalf("return point must lie outside every local scope")
	}
	if !scope.Has(0) || !scope.Has(3) {
		t.Fatalf("scope must cover the body points, got %v", scope.Points())
	}

	param := ScopePoints(fn, points, table, fn.Scope, true)
	if !param.Has(points.Term(0)) {
		t.Fatalf("parameter storage outlives the frame, return point included")
	}
}
