package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"ownck/internal/cfg"
	"ownck/internal/diag"
	"ownck/internal/symbols"
)

// Message templates for the structured TemplateIDs. The verifier core only
// emits IDs and places; turning them into text is this tool's job.
var templates = map[diag.TemplateID]string{
	diag.TmplUseAfterMove:            "use of moved value `%s`",
	diag.TmplUseAfterPartialMove:     "use of partially moved value `%s`",
	diag.TmplUseAfterConditionalMove: "use of value `%s` that is moved on some paths",
	diag.TmplUniqueBorrowConflict:    "cannot borrow `%s` as unique: an overlapping borrow is still live",
	diag.TmplSharedBorrowConflict:    "cannot borrow `%s` as shared: a unique borrow is still live",
	diag.TmplMoveWhileBorrowed:       "cannot move `%s` while it is borrowed",
	diag.TmplDanglingReference:       "reference to `%s` outlives the storage it points to",
}

var relatedTemplates = map[diag.TemplateID]string{
	diag.TmplUseAfterMove:            "value moved here",
	diag.TmplUseAfterPartialMove:     "sub-path `%s` moved here",
	diag.TmplUseAfterConditionalMove: "moved on this path",
	diag.TmplUniqueBorrowConflict:    "prior borrow of `%s` created here",
	diag.TmplSharedBorrowConflict:    "unique borrow of `%s` created here",
	diag.TmplMoveWhileBorrowed:       "borrow of `%s` created here",
	diag.TmplDanglingReference:       "referent's scope ends here",
}

// consoleReporter renders structured diagnostics as console text. It is the
// rendering collaborator: the verifier core never formats messages.
type consoleReporter struct {
	w     io.Writer
	path  string
	table *symbols.Table
	byID  map[cfg.FuncID]*cfg.Func

	errLabel  *color.Color
	noteLabel *color.Color
}

func newConsoleReporter(w io.Writer, path string, table *symbols.Table, funcs []*cfg.Func, colorize bool) *consoleReporter {
	r := &consoleReporter{
		w:         w,
		path:      path,
		table:     table,
		byID:      make(map[cfg.FuncID]*cfg.Func, len(funcs)),
		errLabel:  color.New(color.FgRed, color.Bold),
		noteLabel: color.New(color.FgCyan),
	}
	for _, fn := range funcs {
		r.byID[fn.ID] = fn
	}
	if !colorize {
		r.errLabel.DisableColor()
		r.noteLabel.DisableColor()
	}
	return r
}

func (r *consoleReporter) Report(d diag.Diagnostic) {
	fn := r.byID[d.Func]
	place := d.PlaceKey
	related := d.RelatedKey
	if fn != nil {
		place = d.Place.Render(fn, r.table.Strings)
		related = d.RelatedPlace.Render(fn, r.table.Strings)
	}

	msg := fmt.Sprintf(templates[d.Template], place)
	fmt.Fprintf(r.w, "%s[%s] %s: %s@%d: %s\n",
		r.errLabel.Sprint(d.Severity.String()), d.Code, r.path, d.FuncName, d.Point, msg)

	if d.HasRelated {
		note := relatedTemplates[d.Template]
		if fmtNeedsPlace(note) {
			note = fmt.Sprintf(note, related)
		}
		fmt.Fprintf(r.w, "  %s %s@%d: %s\n",
			r.noteLabel.Sprint("note:"), d.FuncName, d.RelatedPoint, note)
	}
}

func fmtNeedsPlace(tmpl string) bool {
	for i := 0; i+1 < len(tmpl); i++ {
		if tmpl[i] == '%' && tmpl[i+1] == 's' {
			return true
		}
	}
	return false
}
