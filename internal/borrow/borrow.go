package borrow

import (
	"fmt"

	"fortio.org/safecast"

	"ownck/internal/cfg"
	"ownck/internal/region"
)

// ID identifies a borrow within one function body.
type ID uint32

// NoID marks the absence of a borrow.
const NoID ID = 0

// Borrow records one reference creation: what was borrowed, how, where,
// and the region over which the resulting reference stays live. The region
// comes from the solver, never from explicit syntax.
type Borrow struct {
	ID     ID
	Kind   cfg.RefKind
	Place  cfg.Place
	At     cfg.PointID
	Dest   cfg.LocalID
	Region region.Region
}

// Collect gathers every borrow-creation site of fn in point order and asks
// the solver for its region.
func Collect(fn *cfg.Func, points *cfg.Points, solver *region.Solver) []Borrow {
	var out []Borrow
	for bi := range fn.Blocks {
		bb := &fn.Blocks[bi]
		for ii := range bb.Instrs {
			ins := &bb.Instrs[ii]
			if ins.Kind != cfg.InstrAssign || ins.Assign.Src.Kind != cfg.RValueRef {
				continue
			}
			at := points.Instr(cfg.BlockID(bi), ii)
			dest := ins.Assign.Dst.Local
			value, err := safecast.Conv[uint32](len(out) + 1)
			if err != nil {
				panic(fmt.Errorf("borrow count overflow: %w", err))
			}
			out = append(out, Borrow{
				ID:     ID(value),
				Kind:   ins.Assign.Src.Ref.Kind,
				Place:  ins.Assign.Src.Ref.Place,
				At:     at,
				Dest:   dest,
				Region: solver.RegionOf(at, dest),
			})
		}
	}
	return out
}
