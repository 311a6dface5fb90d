package diag

import (
	"sort"
)

// Bag accumulates diagnostics up to a limit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics.
func NewBag(max int) *Bag {
	if max <= 0 {
		max = 1
	}
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   max,
	}
}

// Add appends a diagnostic, honoring the limit. It reports false when the
// diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the configured limit.
func (b *Bag) Cap() int { return b.max }

// Len counts stored diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// HasErrors reports whether any stored diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Items returns a read-only view of the stored diagnostics.
// Do not modify the returned slice; it aliases the bag's array.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends the other bag's diagnostics, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by (function, CFG point, rule precedence, place
// key, code). Repeated runs on identical input therefore produce
// byte-identical output, required for reproducible builds and snapshot
// tests.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := &b.items[i], &b.items[j]
		if di.Func != dj.Func {
			return di.Func < dj.Func
		}
		if di.Point != dj.Point {
			return di.Point < dj.Point
		}
		if di.Rule != dj.Rule {
			return di.Rule < dj.Rule
		}
		if di.PlaceKey != dj.PlaceKey {
			return di.PlaceKey < dj.PlaceKey
		}
		return di.Code < dj.Code
	})
}
