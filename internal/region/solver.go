package region

import (
	"ownck/internal/cfg"
	"ownck/internal/symbols"
)

// Solver computes liveness-derived regions for one function. Regions never
// change once computed: the solver runs once per function, before the
// ownership fixed point.
//
// The computation is a standard backward liveness analysis, seeded at every
// use of a reference-typed local and propagated back to the point that
// created the reference.
type Solver struct {
	fn     *cfg.Func
	points *cfg.Points

	// liveAt[l] is the set of points where local l's current value may
	// still be used; only populated for reference-typed locals.
	liveAt map[cfg.LocalID]Region

	// flows[l] lists the ref locals a reference held by l can flow into
	// through whole-local assignments.
	flows map[cfg.LocalID][]cfg.LocalID
}

// Solve runs liveness for all reference-typed locals of fn.
func Solve(fn *cfg.Func, points *cfg.Points) *Solver {
	s := &Solver{
		fn:     fn,
		points: points,
		liveAt: make(map[cfg.LocalID]Region),
		flows:  make(map[cfg.LocalID][]cfg.LocalID),
	}
	s.buildFlows()
	for id := range fn.Locals {
		local := cfg.LocalID(id)
		if fn.Locals[id].Flags.IsRef() {
			s.liveAt[local] = s.liveness(local)
		}
	}
	return s
}

// RegionOf computes the region of a reference created at point at and
// stored into dest: the creation point plus every downstream point where
// any ref local the value can flow into is still live.
func (s *Solver) RegionOf(at cfg.PointID, dest cfg.LocalID) Region {
	live := New(s.points.Total())
	for _, holder := range s.holders(dest) {
		if holderLive, ok := s.liveAt[holder]; ok {
			live = live.Union(holderLive)
		}
	}

	r := New(s.points.Total())
	r.Add(at)
	reach := cfg.ReachableFrom(s.fn, s.points, at)
	for _, p := range live.Points() {
		if reach[p] {
			r.Add(p)
		}
	}
	return r
}

// LiveAt reports whether the reference held in local l may still be used at
// point p.
func (s *Solver) LiveAt(l cfg.LocalID, p cfg.PointID) bool {
	live, ok := s.liveAt[l]
	return ok && live.Has(p)
}

// holders returns dest plus every ref local reachable through assignment
// flow edges.
func (s *Solver) holders(dest cfg.LocalID) []cfg.LocalID {
	seen := map[cfg.LocalID]bool{dest: true}
	out := []cfg.LocalID{dest}
	for i := 0; i < len(out); i++ {
		for _, next := range s.flows[out[i]] {
			if !seen[next] {
				seen[next] = true
				out = append(out, next)
			}
		}
	}
	return out
}

// buildFlows records ref-to-ref whole-local assignments: `r2 = r1` extends
// the borrow held by r1 with r2's lifetime.
func (s *Solver) buildFlows() {
	for bi := range s.fn.Blocks {
		for ii := range s.fn.Blocks[bi].Instrs {
			ins := &s.fn.Blocks[bi].Instrs[ii]
			if ins.Kind != cfg.InstrAssign {
				continue
			}
			dst := ins.Assign.Dst
			if len(dst.Proj) != 0 {
				continue
			}
			dstLocal := s.fn.Local(dst.Local)
			if dstLocal == nil || !dstLocal.Flags.IsRef() {
				continue
			}
			src := &ins.Assign.Src
			if src.Kind != cfg.RValueUse || src.Use.Kind == cfg.OperandConst {
				continue
			}
			from := src.Use.Place
			if len(from.Proj) != 0 {
				continue
			}
			fromLocal := s.fn.Local(from.Local)
			if fromLocal == nil || !fromLocal.Flags.IsRef() {
				continue
			}
			s.flows[from.Local] = append(s.flows[from.Local], dst.Local)
		}
	}
}

// liveness computes the per-point live set of one local: live-in at a point
// means the value stored in the local may be read at that point or later on
// some path before being overwritten.
func (s *Solver) liveness(l cfg.LocalID) Region {
	blocks := s.fn.Blocks
	in := make([]bool, len(blocks))
	out := make([]bool, len(blocks))

	changed := true
	for changed {
		changed = false
		for bi := len(blocks) - 1; bi >= 0; bi-- {
			o := false
			for _, succ := range blocks[bi].Term.Successors(nil) {
				if in[succ] {
					o = true
					break
				}
			}
			i := s.blockLiveIn(cfg.BlockID(bi), l, o, Region{})
			if o != out[bi] || i != in[bi] {
				out[bi] = o
				in[bi] = i
				changed = true
			}
		}
	}

	live := New(s.points.Total())
	for bi := range blocks {
		s.blockLiveIn(cfg.BlockID(bi), l, out[bi], live)
	}
	return live
}

// blockLiveIn walks block b backward from liveOut. When record is non-nil,
// every point whose live-in holds l is added to it.
func (s *Solver) blockLiveIn(b cfg.BlockID, l cfg.LocalID, liveOut bool, record Region) bool {
	bb := s.fn.Block(b)
	live := liveOut

	step := func(pt cfg.PointID, uses bool, defs bool) {
		if defs {
			live = false
		}
		if uses {
			live = true
		}
		if live && record.words != nil {
			record.Add(pt)
		}
	}

	var uses, defs bool
	mark := cfg.UseVisitor{
		Read: func(op cfg.Operand) {
			// Whole reads and reads through a projection both read the
			// root pointer.
			if op.Place.Local == l {
				uses = true
			}
		},
		Ref: func(_ cfg.RefKind, place cfg.Place) {
			if place.Local == l {
				uses = true
			}
		},
		Write: func(place cfg.Place, whole bool) {
			if place.Local != l {
				return
			}
			if whole {
				defs = true
			} else {
				uses = true // projected write reads the root pointer
			}
		},
	}

	uses, defs = false, false
	cfg.VisitTerm(&bb.Term, mark)
	step(s.points.Term(b), uses, defs)

	for ii := len(bb.Instrs) - 1; ii >= 0; ii-- {
		uses, defs = false, false
		cfg.VisitInstr(&bb.Instrs[ii], mark)
		step(s.points.Instr(b, ii), uses, defs)
	}
	return live
}

// ScopePoints returns the point-set of a binding's declaring scope: every
// point of blocks belonging to the scope or its descendants. Return
// terminator points are excluded: a value leaving the frame has, by
// definition, outlived every local scope. Parameter storage is owned by the
// caller, so for params the set covers the whole function including
// returns.
func ScopePoints(fn *cfg.Func, points *cfg.Points, table *symbols.Table, scope symbols.ScopeID, param bool) Region {
	r := New(points.Total())
	for bi := range fn.Blocks {
		bb := &fn.Blocks[bi]
		if !param && !table.Scopes.Contains(scope, bb.Scope) {
			continue
		}
		last := points.Term(cfg.BlockID(bi))
		for pt := points.First(cfg.BlockID(bi)); pt <= last; pt++ {
			if !param && pt == last && bb.Term.Kind == cfg.TermReturn {
				continue
			}
			r.Add(pt)
		}
	}
	return r
}
