package cfg

import (
	"ownck/internal/source"
	"ownck/internal/symbols"
)

// Block is a basic block: straight-line instructions plus one terminator.
// Scope is the innermost lexical scope the block's statements belong to.
type Block struct {
	ID     BlockID
	Scope  symbols.ScopeID
	Instrs []Instr
	Term   Terminator
}

// Terminated reports whether the block has a terminator.
func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}

// Func is one function body handed over by the front end. The verifier
// never mutates it.
type Func struct {
	ID    FuncID
	Name  string
	Span  source.Span
	Scope symbols.ScopeID // function body scope

	Locals []Local
	Blocks []Block
	Entry  BlockID
}

// Local returns the local slot or nil for out-of-range IDs.
func (f *Func) Local(id LocalID) *Local {
	if id == NoLocalID || int(id) >= len(f.Locals) {
		return nil
	}
	return &f.Locals[id]
}

// Block returns the block or nil for out-of-range IDs.
func (f *Func) Block(id BlockID) *Block {
	if id == NoBlockID || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}
