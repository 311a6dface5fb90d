// Package fixture serializes a verification unit (frozen symbol table plus
// function CFGs) so test inputs and tooling fixtures can live on disk. The
// verifier core never touches files; this is harness plumbing.
package fixture

import (
	"errors"
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"ownck/internal/cfg"
	"ownck/internal/source"
	"ownck/internal/symbols"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// ErrSchemaMismatch indicates a fixture written by an incompatible version.
var ErrSchemaMismatch = errors.New("fixture schema mismatch")

// scopePayload flattens one symbol-table scope.
type scopePayload struct {
	Kind   uint8
	Parent uint32
	Span   source.Span
}

// bindingPayload flattens one declared binding. Names are carried as
// strings; the shared interner snapshot keeps projection field IDs stable
// across the round trip.
type bindingPayload struct {
	Name     string
	TypeName string
	Move     uint8
	Scope    uint32
	Span     source.Span
}

// payload is the on-disk shape of a verification unit.
type payload struct {
	Schema   uint16
	Strings  []string
	Scopes   []scopePayload
	Bindings []bindingPayload
	Funcs    []*cfg.Func
}

// Encode serializes the table and functions.
func Encode(table *symbols.Table, funcs []*cfg.Func) ([]byte, error) {
	if table == nil {
		return nil, errors.New("fixture: nil table")
	}
	p := payload{
		Schema:  schemaVersion,
		Strings: table.Strings.Snapshot(),
		Funcs:   funcs,
	}
	for id := 1; id <= table.Scopes.Len(); id++ {
		sc := table.Scopes.Get(symbols.ScopeID(id))
		p.Scopes = append(p.Scopes, scopePayload{
			Kind:   uint8(sc.Kind),
			Parent: uint32(sc.Parent),
			Span:   sc.Span,
		})
	}
	for id := 1; id <= table.Bindings.Len(); id++ {
		b := table.Bindings.Get(symbols.BindingID(id))
		name, _ := table.Strings.Lookup(b.Name)
		typeName, _ := table.Strings.Lookup(b.TypeName)
		p.Bindings = append(p.Bindings, bindingPayload{
			Name:     name,
			TypeName: typeName,
			Move:     uint8(b.Move),
			Scope:    uint32(b.Scope),
			Span:     b.Span,
		})
	}
	return msgpack.Marshal(&p)
}

// Decode rebuilds a frozen table and the function list from Encode output.
func Decode(data []byte) (*symbols.Table, []*cfg.Func, error) {
	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, nil, fmt.Errorf("fixture: decode: %w", err)
	}
	if p.Schema != schemaVersion {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, p.Schema, schemaVersion)
	}

	// The interner must be restored first so every interned ID referenced
	// by places and bindings resolves to the original string.
	table := symbols.NewTable(symbols.Hints{
		Scopes:   uint32(len(p.Scopes)),
		Bindings: uint32(len(p.Bindings)),
	}, source.Restore(p.Strings))

	for _, sc := range p.Scopes {
		table.NewScope(symbols.ScopeKind(sc.Kind), symbols.ScopeID(sc.Parent), sc.Span)
	}
	for _, b := range p.Bindings {
		table.NewBinding(b.Name, b.TypeName, symbols.MoveKind(b.Move), symbols.ScopeID(b.Scope), b.Span)
	}
	table.Freeze()

	for _, fn := range p.Funcs {
		if err := cfg.Validate(fn, table); err != nil {
			return nil, nil, fmt.Errorf("fixture: %w", err)
		}
	}
	return table, p.Funcs, nil
}

// Save writes an encoded unit to path.
func Save(path string, table *symbols.Table, funcs []*cfg.Func) error {
	data, err := Encode(table, funcs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a unit saved by Save.
func Load(path string) (*symbols.Table, []*cfg.Func, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return Decode(data)
}
