package cfg

import (
	"fmt"

	"fortio.org/safecast"

	"ownck/internal/source"
	"ownck/internal/symbols"
)

// Builder constructs a function body by hand. Tests and fixtures use it the
// way a front end would: declare bindings in the symbol table, mirror them
// as locals, fill blocks, terminate each one.
type Builder struct {
	table *symbols.Table
	fn    *Func
}

// NewBuilder starts a function named name. A fresh function scope is
// allocated in the table.
func NewBuilder(table *symbols.Table, id FuncID, name string, span source.Span) *Builder {
	scope := table.NewScope(symbols.ScopeFunction, symbols.NoScopeID, span)
	return &Builder{
		table: table,
		fn: &Func{
			ID:    id,
			Name:  name,
			Span:  span,
			Scope: scope,
			Entry: NoBlockID,
		},
	}
}

// Table exposes the symbol table the builder declares into.
func (b *Builder) Table() *symbols.Table { return b.table }

// FuncScope returns the function body scope.
func (b *Builder) FuncScope() symbols.ScopeID { return b.fn.Scope }

// ChildScope opens a nested block scope.
func (b *Builder) ChildScope(parent symbols.ScopeID, span source.Span) symbols.ScopeID {
	return b.table.NewScope(symbols.ScopeBlock, parent, span)
}

// Local declares a binding in scope and mirrors it as a function local.
func (b *Builder) Local(name, typeName string, move symbols.MoveKind, scope symbols.ScopeID, flags LocalFlags, span source.Span) LocalID {
	binding := b.table.NewBinding(name, typeName, move, scope, span)
	value, err := safecast.Conv[int32](len(b.fn.Locals))
	if err != nil {
		panic(fmt.Errorf("locals overflow: %w", err))
	}
	id := LocalID(value)
	b.fn.Locals = append(b.fn.Locals, Local{
		Binding: binding,
		Name:    name,
		Flags:   flags,
		Span:    span,
	})
	return id
}

// Param declares a function parameter in the body scope.
func (b *Builder) Param(name, typeName string, move symbols.MoveKind, flags LocalFlags, span source.Span) LocalID {
	return b.Local(name, typeName, move, b.fn.Scope, flags|LocalFlagParam, span)
}

// NewBlock appends an empty block belonging to scope.
func (b *Builder) NewBlock(scope symbols.ScopeID) BlockID {
	value, err := safecast.Conv[int32](len(b.fn.Blocks))
	if err != nil {
		panic(fmt.Errorf("blocks overflow: %w", err))
	}
	id := BlockID(value)
	b.fn.Blocks = append(b.fn.Blocks, Block{ID: id, Scope: scope})
	if b.fn.Entry == NoBlockID {
		b.fn.Entry = id
	}
	return id
}

// SetEntry overrides the entry block (defaults to the first block created).
func (b *Builder) SetEntry(id BlockID) { b.fn.Entry = id }

// Assign appends dst = src to block.
func (b *Builder) Assign(block BlockID, dst Place, src RValue) {
	b.push(block, Instr{Kind: InstrAssign, Assign: AssignInstr{Dst: dst, Src: src}})
}

// Call appends a call instruction to block.
func (b *Builder) Call(block BlockID, callee string, dst Place, hasDst bool, args ...Operand) {
	b.push(block, Instr{Kind: InstrCall, Call: CallInstr{
		HasDst: hasDst,
		Dst:    dst,
		Callee: callee,
		Args:   args,
	}})
}

// Drop appends a scope-exit drop of place to block.
func (b *Builder) Drop(block BlockID, place Place) {
	b.push(block, Instr{Kind: InstrDrop, Drop: DropInstr{Place: place}})
}

// Goto terminates block with an unconditional jump.
func (b *Builder) Goto(block, target BlockID) {
	b.terminate(block, Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}})
}

// If terminates block with a conditional branch.
func (b *Builder) If(block BlockID, cond Operand, then, els BlockID) {
	b.terminate(block, Terminator{Kind: TermIf, If: IfTerm{Cond: cond, Then: then, Else: els}})
}

// Return terminates block returning value.
func (b *Builder) Return(block BlockID, value Operand) {
	b.terminate(block, Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: value}})
}

// ReturnVoid terminates block with a bare return.
func (b *Builder) ReturnVoid(block BlockID) {
	b.terminate(block, Terminator{Kind: TermReturn})
}

// Unreachable terminates block as unreachable.
func (b *Builder) Unreachable(block BlockID) {
	b.terminate(block, Terminator{Kind: TermUnreachable})
}

// Finish validates the function and returns it.
func (b *Builder) Finish() (*Func, error) {
	if err := Validate(b.fn, b.table); err != nil {
		return nil, err
	}
	return b.fn, nil
}

// MustFinish is Finish for tests and fixtures known to be well-formed.
func (b *Builder) MustFinish() *Func {
	fn, err := b.Finish()
	if err != nil {
		panic(err)
	}
	return fn
}

func (b *Builder) push(block BlockID, instr Instr) {
	bb := b.fn.Block(block)
	if bb == nil {
		panic(fmt.Sprintf("cfg: append to unknown block %d", block))
	}
	if bb.Terminated() {
		panic(fmt.Sprintf("cfg: append to terminated block %d", block))
	}
	bb.Instrs = append(bb.Instrs, instr)
}

func (b *Builder) terminate(block BlockID, term Terminator) {
	bb := b.fn.Block(block)
	if bb == nil {
		panic(fmt.Sprintf("cfg: terminate unknown block %d", block))
	}
	if bb.Terminated() {
		panic(fmt.Sprintf("cfg: block %d terminated twice", block))
	}
	bb.Term = term
}
