package cfg

// RefKind differentiates shared vs unique borrows.
type RefKind uint8

const (
	RefShared RefKind = iota
	RefUnique
)

func (k RefKind) String() string {
	switch k {
	case RefShared:
		return "shared"
	case RefUnique:
		return "unique"
	default:
		return "invalid"
	}
}

// OperandKind distinguishes operand positions.
type OperandKind uint8

const (
	// OperandConst is a constant; it touches no place.
	OperandConst OperandKind = iota
	// OperandCopy reads a place without claiming ownership.
	OperandCopy
	// OperandMove reads a place in moving position. Whether ownership
	// actually transfers depends on the root binding's MoveKind.
	OperandMove
)

// Operand is a value read at an instruction or terminator.
type Operand struct {
	Kind  OperandKind
	Place Place
}

// ConstOp returns a constant operand.
func ConstOp() Operand {
	return Operand{Kind: OperandConst}
}

// CopyOp returns a non-consuming read of place.
func CopyOp(place Place) Operand {
	return Operand{Kind: OperandCopy, Place: place}
}

// MoveOp returns a read of place in moving position.
func MoveOp(place Place) Operand {
	return Operand{Kind: OperandMove, Place: place}
}

// RValueKind distinguishes right-hand value kinds.
type RValueKind uint8

const (
	// RValueUse forwards a single operand.
	RValueUse RValueKind = iota
	// RValueRef creates a reference to a place.
	RValueRef
	// RValueUnaryOp computes from one operand.
	RValueUnaryOp
	// RValueBinaryOp computes from two operands.
	RValueBinaryOp
)

// RValue is the right-hand side of an assignment.
type RValue struct {
	Kind RValueKind

	Use    Operand
	Ref    RefValue
	Unary  UnaryOp
	Binary BinaryOp
}

// RefValue is a borrow expression: it produces a reference to Place.
type RefValue struct {
	Kind  RefKind
	Place Place
}

// UnaryOp computes a fresh value from one operand.
type UnaryOp struct {
	Operand Operand
}

// BinaryOp computes a fresh value from two operands.
type BinaryOp struct {
	Left  Operand
	Right Operand
}

// UseRV wraps an operand as an rvalue.
func UseRV(op Operand) RValue {
	return RValue{Kind: RValueUse, Use: op}
}

// RefRV creates a borrow rvalue of place.
func RefRV(kind RefKind, place Place) RValue {
	return RValue{Kind: RValueRef, Ref: RefValue{Kind: kind, Place: place}}
}

// BinaryRV combines two operands.
func BinaryRV(left, right Operand) RValue {
	return RValue{Kind: RValueBinaryOp, Binary: BinaryOp{Left: left, Right: right}}
}

// InstrKind enumerates instruction kinds.
type InstrKind uint8

const (
	// InstrAssign stores an rvalue into a place.
	InstrAssign InstrKind = iota
	// InstrCall invokes a function, consuming argument operands.
	InstrCall
	// InstrDrop marks the end of a binding's scope; emitted by the
	// producer at scope exits. Destruction of an owned value is recorded,
	// never an error.
	InstrDrop
	// InstrNop does nothing; keeps point numbering stable when producers
	// blank out statements.
	InstrNop
)

// Instr is one CFG statement.
type Instr struct {
	Kind InstrKind

	Assign AssignInstr
	Call   CallInstr
	Drop   DropInstr
}

// AssignInstr stores Src into Dst. Assigning to a whole local refreshes its
// ownership; assigning through a projection re-initializes that sub-path.
type AssignInstr struct {
	Dst Place
	Src RValue
}

// CallInstr invokes Callee. Argument operands in moving position transfer
// ownership out of the caller.
type CallInstr struct {
	HasDst bool
	Dst    Place
	Callee string
	Args   []Operand
}

// DropInstr ends the lifetime of a place at scope exit.
type DropInstr struct {
	Place Place
}
