package borrow

import (
	"ownck/internal/cfg"
	"ownck/internal/ownership"
	"ownck/internal/region"
	"ownck/internal/symbols"
)

// Rule is the conflict rule precedence from the exclusivity contract; lower
// values sort first among diagnostics at the same point.
type Rule uint8

const (
	// RuleUniqueConflict: a new unique borrow overlaps any live borrow.
	RuleUniqueConflict Rule = 1
	// RuleSharedVsUnique: a new shared borrow overlaps a live unique one.
	RuleSharedVsUnique Rule = 2
	// RuleMoveWhileBorrowed: an owner moves away under a live borrow.
	RuleMoveWhileBorrowed Rule = 3
	// RuleDangling: a borrow's region escapes its referent's scope.
	RuleDangling Rule = 4
)

// FindingKind is the violation taxonomy the checker emits.
type FindingKind uint8

const (
	ConflictingBorrow FindingKind = iota
	MoveWhileBorrowed
	DanglingReference
)

// Finding is one detected violation with its conflicting prior event.
type Finding struct {
	Kind         FindingKind
	Rule         Rule
	Point        cfg.PointID
	Place        cfg.Place
	RelatedPoint cfg.PointID
	RelatedPlace cfg.Place
}

// Check replays the exclusivity invariant over all borrows and move events
// of one function. Ownership states have already converged; regions are
// fixed. The invariant must hold at every CFG point: for overlapping
// storage either any number of live shared borrows, or exactly one live
// unique borrow; shared/shared is never a conflict.
func Check(
	fn *cfg.Func,
	points *cfg.Points,
	table *symbols.Table,
	borrows []Borrow,
	moves []ownership.MoveEvent,
) []Finding {
	var out []Finding

	// Rules 1 and 2: at every borrow-creation point, every other borrow
	// whose region is live there and whose place overlaps must be
	// compatible. Earlier borrow is the related event.
	for j := range borrows {
		nb := &borrows[j]
		for i := range borrows {
			if i == j {
				continue
			}
			prior := &borrows[i]
			if !earlier(prior, nb, i, j) {
				continue
			}
			if !prior.Region.Has(nb.At) {
				continue
			}
			if nb.Kind == cfg.RefShared && prior.Kind == cfg.RefShared {
				continue
			}
			if !nb.Place.Overlaps(prior.Place) {
				continue
			}
			rule := RuleUniqueConflict
			if nb.Kind == cfg.RefShared {
				rule = RuleSharedVsUnique
			}
			out = append(out, Finding{
				Kind:         ConflictingBorrow,
				Rule:         rule,
				Point:        nb.At,
				Place:        nb.Place,
				RelatedPoint: prior.At,
				RelatedPlace: prior.Place,
			})
		}
	}

	// Rule 3: moving storage that any live borrow still covers.
	for _, mv := range moves {
		for i := range borrows {
			b := &borrows[i]
			if !b.Region.Has(mv.Point) || !b.Place.Overlaps(mv.Place) {
				continue
			}
			out = append(out, Finding{
				Kind:         MoveWhileBorrowed,
				Rule:         RuleMoveWhileBorrowed,
				Point:        mv.Point,
				Place:        mv.Place,
				RelatedPoint: b.At,
				RelatedPlace: b.Place,
			})
		}
	}

	// Rule 4: region containment within the referent's scope. Places
	// reached through a dereference point at storage this function does
	// not own, so their scope is not checkable here.
	for i := range borrows {
		b := &borrows[i]
		if derefs(b.Place) {
			continue
		}
		local := fn.Local(b.Place.Local)
		if local == nil {
			continue
		}
		binding := table.Bindings.Get(local.Binding)
		if binding == nil {
			continue
		}
		param := local.Flags&cfg.LocalFlagParam != 0
		scope := region.ScopePoints(fn, points, table, binding.Scope, param)
		if b.Region.ContainedIn(scope) {
			continue
		}
		exit, _ := scope.Max()
		out = append(out, Finding{
			Kind:         DanglingReference,
			Rule:         RuleDangling,
			Point:        b.At,
			Place:        b.Place,
			RelatedPoint: exit,
			RelatedPlace: b.Place,
		})
	}

	return out
}

// earlier orders two borrows for related-event attribution: the conflict is
// reported at the later creation, pointing back at the earlier one.
func earlier(a, b *Borrow, ai, bi int) bool {
	if a.At != b.At {
		return a.At < b.At
	}
	return ai < bi
}

func derefs(p cfg.Place) bool {
	for _, proj := range p.Proj {
		if proj.Kind == cfg.ProjDeref {
			return true
		}
	}
	return false
}
