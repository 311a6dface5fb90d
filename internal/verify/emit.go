package verify

import (
	"ownck/internal/borrow"
	"ownck/internal/cfg"
	"ownck/internal/diag"
	"ownck/internal/ownership"
)

// emit converts the analysis findings into structured diagnostics. All
// ownership violations are build-fatal, so everything lands as SevError.
func emit(bag *diag.Bag, fn *cfg.Func, violations []ownership.Violation, findings []borrow.Finding) {
	for _, v := range violations {
		tmpl := diag.TmplUseAfterMove
		switch v.Kind {
		case ownership.UseOfPartiallyMoved:
			tmpl = diag.TmplUseAfterPartialMove
		case ownership.UseOfConditionallyMoved:
			tmpl = diag.TmplUseAfterConditionalMove
		}
		d := diag.New(diag.SevError, diag.OwnUseAfterMove, tmpl, 0, fn, v.Point, v.Place).
			WithRelated(v.MovedAt, v.Moved)
		bag.Add(d)
	}

	for _, f := range findings {
		var code diag.Code
		var tmpl diag.TemplateID
		switch f.Kind {
		case borrow.ConflictingBorrow:
			code = diag.OwnConflictingBorrow
			tmpl = diag.TmplUniqueBorrowConflict
			if f.Rule == borrow.RuleSharedVsUnique {
				tmpl = diag.TmplSharedBorrowConflict
			}
		case borrow.MoveWhileBorrowed:
			code = diag.OwnMoveWhileBorrowed
			tmpl = diag.TmplMoveWhileBorrowed
		case borrow.DanglingReference:
			code = diag.OwnDanglingReference
			tmpl = diag.TmplDanglingReference
		}
		d := diag.New(diag.SevError, code, tmpl, uint8(f.Rule), fn, f.Point, f.Place).
			WithRelated(f.RelatedPoint, f.RelatedPlace)
		bag.Add(d)
	}
}
