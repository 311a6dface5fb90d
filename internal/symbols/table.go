package symbols

import (
	"ownck/internal/source"
)

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Bindings uint32 }

// Table aggregates binding and scope arenas plus the shared interner.
//
// A table is built once per compilation unit by the front-end collaborator,
// frozen, and then shared read-only across parallel per-function verifier
// runs. Mutation after Freeze is a programming error.
type Table struct {
	Scopes   *Scopes
	Bindings *Bindings
	Strings  *source.Interner

	frozen bool
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:   NewScopes(h.Scopes),
		Bindings: NewBindings(h.Bindings),
		Strings:  strings,
	}
}

// NewScope allocates a scope, attaching it to parent.
func (t *Table) NewScope(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	t.mustBeMutable()
	id := t.Scopes.New(kind, parent, span)
	t.widenScope(parent, span)
	return id
}

// NewBinding declares a named binding inside scope.
func (t *Table) NewBinding(name string, typeName string, move MoveKind, scope ScopeID, span source.Span) BindingID {
	t.mustBeMutable()
	id := t.Bindings.New(Binding{
		Name:     t.Strings.Intern(name),
		TypeName: t.Strings.Intern(typeName),
		Move:     move,
		Scope:    scope,
		Span:     span,
	})
	if sc := t.Scopes.Get(scope); sc != nil {
		sc.Bindings = append(sc.Bindings, id)
	}
	t.widenScope(scope, span)
	return id
}

// widenScope keeps a scope's span covering everything declared inside it, so
// a renderer can map the scope to a source range without walking the tree.
// Spanless input leaves the scope untouched.
func (t *Table) widenScope(id ScopeID, span source.Span) {
	if span.Empty() {
		return
	}
	sc := t.Scopes.Get(id)
	if sc == nil || sc.Span.Contains(span) {
		return
	}
	if sc.Span.Empty() {
		sc.Span = span
		return
	}
	sc.Span = sc.Span.Cover(span)
}

// Freeze marks the table immutable. Verifier workers may only start after
// the single writer has frozen the table.
func (t *Table) Freeze() { t.frozen = true }

// Frozen reports whether the table has been sealed for writing.
func (t *Table) Frozen() bool { return t.frozen }

// BindingName resolves a binding's declared name, or "" for invalid IDs.
func (t *Table) BindingName(id BindingID) string {
	b := t.Bindings.Get(id)
	if b == nil {
		return ""
	}
	name, _ := t.Strings.Lookup(b.Name)
	return name
}

func (t *Table) mustBeMutable() {
	if t.frozen {
		panic("symbols: mutation of frozen table")
	}
}
