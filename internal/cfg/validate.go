package cfg

import (
	"errors"
	"fmt"

	"ownck/internal/symbols"
)

var (
	// ErrNoEntry indicates a function without an entry block.
	ErrNoEntry = errors.New("function has no entry block")
	// ErrUnterminated indicates a block missing its terminator.
	ErrUnterminated = errors.New("block is not terminated")
	// ErrBadBlockRef indicates a terminator targeting a missing block.
	ErrBadBlockRef = errors.New("terminator targets unknown block")
	// ErrBadLocalRef indicates a place rooted at an unknown local.
	ErrBadLocalRef = errors.New("place roots unknown local")
	// ErrUnknownBinding indicates a local whose binding is missing from the
	// symbol table. This is a front-end programming error, never a
	// user-facing diagnostic.
	ErrUnknownBinding = errors.New("local binding not found in symbol table")
)

// Validate checks internal consistency of a handed-over function against
// the symbol table. Any failure is driver-fatal.
func Validate(f *Func, table *symbols.Table) error {
	if f == nil {
		return errors.New("nil function")
	}
	if f.Block(f.Entry) == nil {
		return fmt.Errorf("%s: %w", f.Name, ErrNoEntry)
	}
	for i := range f.Locals {
		if table.Bindings.Get(f.Locals[i].Binding) == nil {
			return fmt.Errorf("%s: local %q: %w", f.Name, f.Locals[i].Name, ErrUnknownBinding)
		}
	}
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if !bb.Terminated() {
			return fmt.Errorf("%s: block %d: %w", f.Name, i, ErrUnterminated)
		}
		for _, succ := range bb.Term.Successors(nil) {
			if f.Block(succ) == nil {
				return fmt.Errorf("%s: block %d -> %d: %w", f.Name, i, succ, ErrBadBlockRef)
			}
		}
		if err := validateBlockPlaces(f, bb); err != nil {
			return fmt.Errorf("%s: block %d: %w", f.Name, i, err)
		}
	}
	return nil
}

func validateBlockPlaces(f *Func, bb *Block) error {
	check := func(p Place) error {
		if !p.IsValid() {
			return nil
		}
		if f.Local(p.Local) == nil {
			return fmt.Errorf("local %d: %w", p.Local, ErrBadLocalRef)
		}
		return nil
	}
	checkOp := func(op Operand) error {
		if op.Kind == OperandConst {
			return nil
		}
		return check(op.Place)
	}

	for i := range bb.Instrs {
		ins := &bb.Instrs[i]
		var err error
		switch ins.Kind {
		case InstrAssign:
			if err = check(ins.Assign.Dst); err == nil {
				err = validateRValue(&ins.Assign.Src, check, checkOp)
			}
		case InstrCall:
			if ins.Call.HasDst {
				err = check(ins.Call.Dst)
			}
			for j := range ins.Call.Args {
				if err != nil {
					break
				}
				err = checkOp(ins.Call.Args[j])
			}
		case InstrDrop:
			err = check(ins.Drop.Place)
		}
		if err != nil {
			return err
		}
	}

	switch bb.Term.Kind {
	case TermReturn:
		if bb.Term.Return.HasValue {
			return checkOp(bb.Term.Return.Value)
		}
	case TermIf:
		return checkOp(bb.Term.If.Cond)
	}
	return nil
}

func validateRValue(rv *RValue, check func(Place) error, checkOp func(Operand) error) error {
	switch rv.Kind {
	case RValueUse:
		return checkOp(rv.Use)
	case RValueRef:
		return check(rv.Ref.Place)
	case RValueUnaryOp:
		return checkOp(rv.Unary.Operand)
	case RValueBinaryOp:
		if err := checkOp(rv.Binary.Left); err != nil {
			return err
		}
		return checkOp(rv.Binary.Right)
	}
	return nil
}
