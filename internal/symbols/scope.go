package symbols

import (
	"ownck/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeFunction           // function body scope; parameters live here
	ScopeBlock              // nested block scope
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy. Bindings
// declared in a scope are conceptually destroyed at its exit unless moved
// out earlier.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Span     source.Span
	Bindings []BindingID
	Children []ScopeID
}
