package diag

// Severity ranks diagnostics. Every ownership violation is build-fatal;
// there is no warning tier in this verifier, but the scale is kept so the
// surrounding driver can fold in non-fatal notices of its own.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "unknown"
	}
}
