package symbols

import (
	"ownck/internal/source"
)

// MoveKind classifies a binding's declared type for ownership transfer.
// The classification is computed by the external type checker; the verifier
// only consumes it.
type MoveKind uint8

const (
	// MoveKindCopy means uses duplicate the value and never invalidate the
	// source.
	MoveKindCopy MoveKind = iota
	// MoveKindMove means a use in moving position transfers ownership and
	// invalidates the source.
	MoveKindMove
)

func (k MoveKind) String() string {
	switch k {
	case MoveKindCopy:
		return "copy"
	case MoveKindMove:
		return "move"
	default:
		return "invalid"
	}
}

// Binding is a declared name: the root of every place. TypeName is carried
// verbatim from the type checker for diagnostics only; the verifier never
// interprets it.
type Binding struct {
	Name     source.StringID
	TypeName source.StringID
	Move     MoveKind
	Scope    ScopeID
	Span     source.Span
}
