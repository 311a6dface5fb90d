package cfg

import (
	"ownck/internal/source"
	"ownck/internal/symbols"
)

type FuncID int32
type BlockID int32
type LocalID int32

const (
	NoFuncID  FuncID  = -1
	NoBlockID BlockID = -1
	NoLocalID LocalID = -1
)

// PointID is a dense index over all program points of one function: one
// point per instruction plus one per block terminator, in block order.
type PointID uint32

// LocalFlags carry the per-local facts the verifier needs from the type
// checker.
type LocalFlags uint8

const (
	// LocalFlagParam marks a function parameter. A parameter's storage is
	// owned by the caller, so references to it may escape through returns.
	LocalFlagParam LocalFlags = 1 << iota
	// LocalFlagRef marks a local holding a shared reference.
	LocalFlagRef
	// LocalFlagRefMut marks a local holding a unique reference.
	LocalFlagRefMut
)

// IsRef reports whether the flags describe a reference-typed local.
func (f LocalFlags) IsRef() bool {
	return f&(LocalFlagRef|LocalFlagRefMut) != 0
}

// Local is a function-body slot backing a declared binding. Every place is
// rooted at a local; the symbol table supplies the binding's MoveKind and
// declaring scope.
type Local struct {
	Binding symbols.BindingID
	Name    string
	Flags   LocalFlags
	Span    source.Span
}
