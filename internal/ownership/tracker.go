package ownership

import (
	"ownck/internal/cfg"
	"ownck/internal/symbols"
)

// UseKind classifies how a use-after-move came about, feeding the
// diagnostic template choice.
type UseKind uint8

const (
	// UseOfMoved is an unconditional use of a fully moved place.
	UseOfMoved UseKind = iota
	// UseOfPartiallyMoved uses a parent place while one of its sub-paths
	// is gone.
	UseOfPartiallyMoved
	// UseOfConditionallyMoved uses a place moved on only some of the
	// incoming CFG paths.
	UseOfConditionallyMoved
)

// Violation is a use of a place whose ownership is no longer intact.
type Violation struct {
	Kind    UseKind
	Point   cfg.PointID
	Place   cfg.Place
	MovedAt cfg.PointID
	Moved   cfg.Place
}

// MoveEvent records an actual transfer of ownership; the borrow checker
// replays these against live borrow regions.
type MoveEvent struct {
	Point cfg.PointID
	Place cfg.Place
}

// Result carries everything the ownership fixed point produced.
type Result struct {
	Violations []Violation
	Moves      []MoveEvent
}

// Track runs the forward dataflow to its fixed point and reports every use
// of moved state. It never stops at the first violation: all findings of
// the converged analysis come back together.
func Track(fn *cfg.Func, points *cfg.Points, table *symbols.Table) *Result {
	t := &tracker{
		fn:      fn,
		points:  points,
		table:   table,
		in:      make([]state, len(fn.Blocks)),
		out:     make([]state, len(fn.Blocks)),
		visited: make([]bool, len(fn.Blocks)),
	}
	t.solve()
	return t.report()
}

type tracker struct {
	fn     *cfg.Func
	points *cfg.Points
	table  *symbols.Table

	in  []state
	out []state

	// visited marks blocks whose out-state has been computed at least once.
	// A computed out-state can be empty, so the nil check on out alone
	// cannot distinguish "not yet reached" from "reached, nothing moved".
	visited []bool
}

// solve iterates transfer over the CFG until no block's out-state changes.
// Blocks are visited in reverse post-order; the join lattice is finite, so
// the worklist drains.
func (t *tracker) solve() {
	rpo := cfg.ReversePostOrder(t.fn)
	preds := cfg.Preds(t.fn)

	work := make([]cfg.BlockID, len(rpo))
	copy(work, rpo)
	queued := make([]bool, len(t.fn.Blocks))
	for _, b := range work {
		queued[b] = true
	}

	for len(work) > 0 {
		b := work[0]
		work = work[1:]
		queued[b] = false

		in := t.joinPreds(b, preds[b])
		out := t.transfer(b, in, nil)
		t.in[b] = in
		if t.visited[b] && stateEqual(out, t.out[b]) {
			continue
		}
		t.visited[b] = true
		t.out[b] = out
		for _, succ := range t.fn.Blocks[b].Term.Successors(nil) {
			if !queued[succ] {
				queued[succ] = true
				work = append(work, succ)
			}
		}
	}
}

func (t *tracker) joinPreds(b cfg.BlockID, preds []cfg.BlockID) state {
	if b == t.fn.Entry || len(preds) == 0 {
		return state{}
	}
	var acc state
	joined := false
	for _, p := range preds {
		if !t.visited[p] {
			// Unvisited predecessor: optimistically owned; the worklist
			// revisits once it converges.
			continue
		}
		if !joined {
			acc = t.out[p].clone()
			joined = true
		} else {
			acc = join(acc, t.out[p])
		}
	}
	if acc == nil {
		return state{}
	}
	return acc
}

// report replays the converged states once more, collecting violations and
// move events in point order.
func (t *tracker) report() *Result {
	res := &Result{}
	for bi := range t.fn.Blocks {
		b := cfg.BlockID(bi)
		in := t.in[b]
		if in == nil {
			continue // unreachable block
		}
		t.transfer(b, in, res)
	}
	return res
}

// transfer applies block b's statements to a copy of in. When res is
// non-nil, uses of moved state and move events are recorded.
func (t *tracker) transfer(b cfg.BlockID, in state, res *Result) state {
	st := in.clone()
	bb := t.fn.Block(b)

	var pt cfg.PointID

	checkUse := func(place cfg.Place) {
		if res == nil {
			return
		}
		mp, ok := st.lookup(place)
		if !ok {
			return
		}
		kind := UseOfMoved
		switch {
		case mp.Cond:
			kind = UseOfConditionallyMoved
		case len(mp.Place.Proj) > len(place.Proj):
			kind = UseOfPartiallyMoved
		}
		res.Violations = append(res.Violations, Violation{
			Kind:    kind,
			Point:   pt,
			Place:   place,
			MovedAt: mp.At,
			Moved:   mp.Place,
		})
	}

	visitor := cfg.UseVisitor{
		Read: func(op cfg.Operand) {
			checkUse(op.Place)
			if op.Kind == cfg.OperandMove && t.isMoveKind(op.Place) {
				st.markMoved(op.Place, pt)
				if res != nil {
					res.Moves = append(res.Moves, MoveEvent{Point: pt, Place: op.Place})
				}
			}
		},
		Ref: func(_ cfg.RefKind, place cfg.Place) {
			// Borrowing reads the place; borrowing moved storage is a use
			// after move.
			checkUse(place)
		},
		Write: func(place cfg.Place, whole bool) {
			if !whole && res != nil {
				if mp, blocked := st.blockedPrefix(place); blocked {
					kind := UseOfMoved
					if mp.Cond {
						kind = UseOfConditionallyMoved
					}
					res.Violations = append(res.Violations, Violation{
						Kind:    kind,
						Point:   pt,
						Place:   place,
						MovedAt: mp.At,
						Moved:   mp.Place,
					})
				}
			}
			// Reassignment refreshes ownership of the written path
			// regardless of prior state.
			st.reinit(place)
		},
	}

	for ii := range bb.Instrs {
		pt = t.points.Instr(b, ii)
		cfg.VisitInstr(&bb.Instrs[ii], visitor)
	}
	pt = t.points.Term(b)
	cfg.VisitTerm(&bb.Term, visitor)

	return st
}

// isMoveKind reports whether a moving use of place actually transfers
// ownership, per the root binding's declared MoveKind.
func (t *tracker) isMoveKind(place cfg.Place) bool {
	local := t.fn.Local(place.Local)
	if local == nil {
		return false
	}
	binding := t.table.Bindings.Get(local.Binding)
	return binding != nil && binding.Move == symbols.MoveKindMove
}
