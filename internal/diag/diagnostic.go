package diag

import (
	"ownck/internal/cfg"
)

// Diagnostic is the structured violation record handed to the external
// rendering collaborator. Points identify CFG positions inside Func; place
// keys are the canonical path strings, stable across runs on identical
// input.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Template TemplateID

	// Rule is the conflict-rule precedence used as the second sort key;
	// zero for diagnostics outside the borrow-conflict taxonomy.
	Rule uint8

	Func     cfg.FuncID
	FuncName string

	Point    cfg.PointID
	Place    cfg.Place
	PlaceKey string

	HasRelated   bool
	RelatedPoint cfg.PointID
	RelatedPlace cfg.Place
	RelatedKey   string
}

// New builds a primary diagnostic record.
func New(sev Severity, code Code, tmpl TemplateID, rule uint8, fn *cfg.Func, point cfg.PointID, place cfg.Place) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Template: tmpl,
		Rule:     rule,
		Func:     fn.ID,
		FuncName: fn.Name,
		Point:    point,
		Place:    place,
		PlaceKey: place.PathKey(),
	}
}

// WithRelated attaches the conflicting prior event.
func (d Diagnostic) WithRelated(point cfg.PointID, place cfg.Place) Diagnostic {
	d.HasRelated = true
	d.RelatedPoint = point
	d.RelatedPlace = place
	d.RelatedKey = place.PathKey()
	return d
}
