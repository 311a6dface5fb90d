package verify

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ownck/internal/cfg"
	"ownck/internal/diag"
	"ownck/internal/symbols"
)

// Result pairs a verified function with its diagnostics.
type Result struct {
	Func cfg.FuncID
	Name string
	Bag  *diag.Bag
}

// Module verifies all function bodies of a compilation unit in parallel.
// Bodies are independent; the frozen symbol table is the only shared
// input. Result order matches the input order regardless of scheduling, so
// aggregated output stays deterministic. The first internal error cancels
// the remaining work; detected violations are not errors and never abort.
func Module(ctx context.Context, table *symbols.Table, funcs []*cfg.Func, opts Options) ([]Result, error) {
	if !table.Frozen() {
		return nil, ErrTableNotFrozen
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(funcs) {
		jobs = len(funcs)
	}
	if jobs < 1 {
		jobs = 1
	}

	results := make([]Result, len(funcs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, fn := range funcs {
		i, fn := i, fn
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			bag, err := Func(table, fn, opts)
			if err != nil {
				return err
			}
			results[i] = Result{Func: fn.ID, Name: fn.Name, Bag: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Aggregate merges per-function bags in input order into one sorted bag.
func Aggregate(results []Result) *diag.Bag {
	total := 0
	for i := range results {
		total += results[i].Bag.Len()
	}
	if total == 0 {
		total = 1
	}
	out := diag.NewBag(total)
	for i := range results {
		out.Merge(results[i].Bag)
	}
	out.Sort()
	return out
}
