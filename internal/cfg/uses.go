package cfg

// UseVisitor receives the storage effects of one instruction or terminator.
// Both the region solver and the ownership tracker walk effects through it,
// so the two passes can never disagree about what a statement touches.
// Any callback may be nil.
type UseVisitor struct {
	// Read is called for every operand that reads a place.
	Read func(op Operand)
	// Ref is called when a borrow of place is created.
	Ref func(kind RefKind, place Place)
	// Write is called for the destination place of an assignment or call.
	// whole is true when the write covers the entire local (no projection),
	// which refreshes ownership; projected writes only re-initialize the
	// written sub-path and read the root on the way.
	Write func(place Place, whole bool)
	// Drop is called for scope-exit destruction of a place.
	Drop func(place Place)
}

// VisitInstr walks the effects of one instruction in evaluation order:
// right-hand side reads first, then the destination write.
func VisitInstr(ins *Instr, v UseVisitor) {
	switch ins.Kind {
	case InstrAssign:
		visitRValue(&ins.Assign.Src, v)
		visitWrite(ins.Assign.Dst, v)
	case InstrCall:
		for i := range ins.Call.Args {
			visitRead(ins.Call.Args[i], v)
		}
		if ins.Call.HasDst {
			visitWrite(ins.Call.Dst, v)
		}
	case InstrDrop:
		if v.Drop != nil && ins.Drop.Place.IsValid() {
			v.Drop(ins.Drop.Place)
		}
	}
}

// VisitTerm walks the effects of a block terminator.
func VisitTerm(t *Terminator, v UseVisitor) {
	switch t.Kind {
	case TermReturn:
		if t.Return.HasValue {
			visitRead(t.Return.Value, v)
		}
	case TermIf:
		visitRead(t.If.Cond, v)
	}
}

func visitRValue(rv *RValue, v UseVisitor) {
	switch rv.Kind {
	case RValueUse:
		visitRead(rv.Use, v)
	case RValueRef:
		if v.Ref != nil && rv.Ref.Place.IsValid() {
			v.Ref(rv.Ref.Kind, rv.Ref.Place)
		}
	case RValueUnaryOp:
		visitRead(rv.Unary.Operand, v)
	case RValueBinaryOp:
		visitRead(rv.Binary.Left, v)
		visitRead(rv.Binary.Right, v)
	}
}

func visitRead(op Operand, v UseVisitor) {
	if op.Kind == OperandConst || !op.Place.IsValid() {
		return
	}
	if v.Read != nil {
		v.Read(op)
	}
}

func visitWrite(place Place, v UseVisitor) {
	if v.Write == nil || !place.IsValid() {
		return
	}
	v.Write(place, len(place.Proj) == 0)
}
