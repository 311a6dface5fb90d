package diag

import (
	"fmt"
)

// Code identifies a violation kind. Ownership codes live in the 3xxx block,
// leaving room below for the front end's lexical and syntactic ranges.
type Code uint16

const (
	UnknownCode Code = 0

	// OwnUseAfterMove: a place is read while its state is Moved,
	// PartiallyMoved (for the moved sub-path), or ConditionallyMoved.
	OwnUseAfterMove Code = 3001
	// OwnConflictingBorrow: two live borrows of overlapping places violate
	// the exclusivity invariant.
	OwnConflictingBorrow Code = 3002
	// OwnMoveWhileBorrowed: an owner is moved while a borrow of it is
	// still live.
	OwnMoveWhileBorrowed Code = 3003
	// OwnDanglingReference: a borrow's region is not contained within its
	// referent's scope.
	OwnDanglingReference Code = 3004
)

func (c Code) String() string {
	switch c {
	case OwnUseAfterMove:
		return "use-after-move"
	case OwnConflictingBorrow:
		return "conflicting-borrow"
	case OwnMoveWhileBorrowed:
		return "move-while-borrowed"
	case OwnDanglingReference:
		return "dangling-reference"
	default:
		return fmt.Sprintf("OWN%04d", uint16(c))
	}
}

// TemplateID selects the message template the rendering collaborator uses.
// The verifier itself never formats human-readable strings.
type TemplateID uint16

const (
	TmplNone TemplateID = iota
	TmplUseAfterMove
	TmplUseAfterPartialMove
	TmplUseAfterConditionalMove
	TmplUniqueBorrowConflict
	TmplSharedBorrowConflict
	TmplMoveWhileBorrowed
	TmplDanglingReference
)

func (t TemplateID) String() string {
	switch t {
	case TmplUseAfterMove:
		return "use-after-move"
	case TmplUseAfterPartialMove:
		return "use-after-partial-move"
	case TmplUseAfterConditionalMove:
		return "use-after-conditional-move"
	case TmplUniqueBorrowConflict:
		return "unique-borrow-conflict"
	case TmplSharedBorrowConflict:
		return "shared-borrow-conflict"
	case TmplMoveWhileBorrowed:
		return "move-while-borrowed"
	case TmplDanglingReference:
		return "dangling-reference"
	default:
		return "none"
	}
}
