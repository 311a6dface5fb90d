package cfg

// TermKind enumerates block terminators.
type TermKind uint8

const (
	TermNone TermKind = iota
	TermReturn
	TermGoto
	TermIf
	TermUnreachable
)

// Terminator ends a basic block.
type Terminator struct {
	Kind TermKind

	Return ReturnTerm
	Goto   GotoTerm
	If     IfTerm
}

// ReturnTerm leaves the function. A returned reference escapes the frame,
// so the return point lies outside every local scope.
type ReturnTerm struct {
	HasValue bool
	Value    Operand
}

type GotoTerm struct {
	Target BlockID
}

type IfTerm struct {
	Cond Operand
	Then BlockID
	Else BlockID
}

// Successors appends the terminator's successor blocks to dst.
func (t Terminator) Successors(dst []BlockID) []BlockID {
	switch t.Kind {
	case TermGoto:
		dst = append(dst, t.Goto.Target)
	case TermIf:
		dst = append(dst, t.If.Then, t.If.Else)
	}
	return dst
}
