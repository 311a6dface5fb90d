// Package verify orchestrates the ownership-and-aliasing verification of
// function bodies: place validation, region solving, the ownership fixed
// point, the borrow-exclusivity walk, and diagnostic emission, in that
// dependency order. The pass is pure and stateless between functions; the
// only shared input is the frozen symbol table.
package verify

import (
	"errors"
	"fmt"

	"ownck/internal/borrow"
	"ownck/internal/cfg"
	"ownck/internal/diag"
	"ownck/internal/observ"
	"ownck/internal/ownership"
	"ownck/internal/region"
	"ownck/internal/symbols"
)

// DefaultMaxDiagnostics bounds a single function's bag unless overridden.
const DefaultMaxDiagnostics = 100

// ErrTableNotFrozen indicates a verifier start before the single-writer
// handoff: the symbol table must be fully constructed and frozen first.
var ErrTableNotFrozen = errors.New("symbol table not frozen")

// Options tune a verifier run.
type Options struct {
	// MaxDiagnostics caps diagnostics per function; zero means the
	// default.
	MaxDiagnostics int
	// Jobs limits parallel function verification; zero means GOMAXPROCS.
	Jobs int
	// Timer, when set, records phase durations.
	Timer *observ.Timer
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// Func verifies one function body. The returned bag holds every violation
// found by the converged analysis, sorted deterministically; the error
// return is reserved for internal consistency failures, which are
// driver-fatal and never surface as user diagnostics.
func Func(table *symbols.Table, fn *cfg.Func, opts Options) (*diag.Bag, error) {
	if table == nil || fn == nil {
		return nil, errors.New("verify: nil input")
	}
	if !table.Frozen() {
		return nil, fmt.Errorf("verify %s: %w", fn.Name, ErrTableNotFrozen)
	}

	ph := opts.Timer.Begin("validate")
	if err := cfg.Validate(fn, table); err != nil {
		return nil, fmt.Errorf("verify %s: %w", fn.Name, err)
	}
	points := cfg.BuildPoints(fn)
	opts.Timer.End(ph, fn.Name)

	// Regions are computed once; they do not change across ownership
	// iterations.
	ph = opts.Timer.Begin("regions")
	solver := region.Solve(fn, points)
	opts.Timer.End(ph, "")

	ph = opts.Timer.Begin("ownership")
	own := ownership.Track(fn, points, table)
	opts.Timer.End(ph, "")

	ph = opts.Timer.Begin("borrows")
	borrows := borrow.Collect(fn, points, solver)
	findings := borrow.Check(fn, points, table, borrows, own.Moves)
	opts.Timer.End(ph, "")

	bag := diag.NewBag(opts.maxDiagnostics())
	emit(bag, fn, own.Violations, findings)
	bag.Sort()
	return bag, nil
}
