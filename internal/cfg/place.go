package cfg

import (
	"fmt"
	"strings"

	"ownck/internal/source"
)

// PlaceProjKind enumerates projection steps extending a place path.
type PlaceProjKind uint8

const (
	ProjDeref PlaceProjKind = iota
	ProjField
	ProjIndex
)

// PlaceProj is one projection step. Field carries the interned field name;
// Index carries a constant element index.
type PlaceProj struct {
	Kind  PlaceProjKind
	Field source.StringID
	Index uint32
}

// Place is an addressable storage location: a local root extended by a
// projection path. Two places are identical iff root and projections are
// syntactically equal.
type Place struct {
	Local LocalID
	Proj  []PlaceProj
}

// PlaceOf returns the bare place for a local.
func PlaceOf(local LocalID) Place {
	return Place{Local: local}
}

// IsValid reports whether the place has a usable root.
func (p Place) IsValid() bool {
	return p.Local != NoLocalID
}

// Field extends the place with a field projection.
func (p Place) Field(name source.StringID) Place {
	return p.extend(PlaceProj{Kind: ProjField, Field: name})
}

// Index extends the place with a constant index projection.
func (p Place) Index(i uint32) Place {
	return p.extend(PlaceProj{Kind: ProjIndex, Index: i})
}

// Deref extends the place with a dereference projection.
func (p Place) Deref() Place {
	return p.extend(PlaceProj{Kind: ProjDeref})
}

func (p Place) extend(proj PlaceProj) Place {
	out := make([]PlaceProj, len(p.Proj), len(p.Proj)+1)
	copy(out, p.Proj)
	return Place{Local: p.Local, Proj: append(out, proj)}
}

// Equal reports syntactic identity.
func (p Place) Equal(q Place) bool {
	if p.Local != q.Local || len(p.Proj) != len(q.Proj) {
		return false
	}
	for i := range p.Proj {
		if p.Proj[i] != q.Proj[i] {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether p is a (non-strict) prefix of q: same root and
// q's projection path starts with p's. Moving `x.a` makes `x` partially
// moved precisely because `x` is a prefix of `x.a`.
func (p Place) IsPrefixOf(q Place) bool {
	if p.Local != q.Local || len(p.Proj) > len(q.Proj) {
		return false
	}
	for i := range p.Proj {
		if p.Proj[i] != q.Proj[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether the two places may refer to overlapping storage.
// The relation is reflexive and symmetric: places overlap when one is a
// compatible prefix of the other, or when their paths diverge only after a
// shared dereference (both then pass through the same reference, so the
// verifier must assume the storage is shared). Distinct roots never overlap.
//
// Index projections compare as may-equal: `x[1]` and `x[2]` are identical
// storage as far as conflict detection is concerned, because the verifier
// does not reason about index values.
func (p Place) Overlaps(q Place) bool {
	if p.Local != q.Local {
		return false
	}
	n := len(p.Proj)
	if len(q.Proj) < n {
		n = len(q.Proj)
	}
	seenDeref := false
	for i := 0; i < n; i++ {
		if !projCompatible(p.Proj[i], q.Proj[i]) {
			return seenDeref
		}
		if p.Proj[i].Kind == ProjDeref {
			seenDeref = true
		}
	}
	return true
}

func projCompatible(a, b PlaceProj) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == ProjField {
		return a.Field == b.Field
	}
	// Deref always matches deref; index may-aliases any index.
	return true
}

// PathKey returns a canonical string for the place, usable as a map key and
// as a deterministic sort component. It is not for human consumption; use
// Render for that.
func (p Place) PathKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "l%d", p.Local)
	for _, proj := range p.Proj {
		switch proj.Kind {
		case ProjDeref:
			b.WriteString(".*")
		case ProjField:
			fmt.Fprintf(&b, ".f%d", proj.Field)
		case ProjIndex:
			fmt.Fprintf(&b, "[%d]", proj.Index)
		}
	}
	return b.String()
}

// Render formats the place with resolved names for diagnostics rendering.
func (p Place) Render(f *Func, strings *source.Interner) string {
	name := fmt.Sprintf("_%d", p.Local)
	if int(p.Local) >= 0 && int(p.Local) < len(f.Locals) {
		name = f.Locals[p.Local].Name
	}
	out := name
	for _, proj := range p.Proj {
		switch proj.Kind {
		case ProjDeref:
			out = "(*" + out + ")"
		case ProjField:
			field, _ := strings.Lookup(proj.Field)
			out += "." + field
		case ProjIndex:
			out += fmt.Sprintf("[%d]", proj.Index)
		}
	}
	return out
}
