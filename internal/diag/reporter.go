package diag

// Reporter is the sink contract for structured diagnostics. The verifier
// core fills bags; drivers drain them into whatever surface they own
// (console rendering, editor protocol, test capture).
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter stores reported diagnostics in a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r BagReporter) Report(d Diagnostic) {
	r.Bag.Add(d)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// MultiReporter fans one diagnostic out to several sinks.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m {
		r.Report(d)
	}
}

// Drain replays the bag's diagnostics, in stored order, into r.
func (b *Bag) Drain(r Reporter) {
	for i := range b.items {
		r.Report(b.items[i])
	}
}
