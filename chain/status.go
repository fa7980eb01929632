package chain

// Status is the three-way outcome shared by middleware and chains. A Status
// is either Continue, Unwind, or Error with an attached payload; only the
// variant identity matters, plus the payload carried by Error.
type Status struct {
	kind statusKind
	err  error
}

type statusKind uint8

const (
	kindContinue statusKind = iota
	kindUnwind
	kindError
)

// Continue signals that dispatch should proceed to the next middleware or
// phase.
func Continue() Status {
	return Status{kind: kindContinue}
}

// Unwind signals that the middleware has fully handled the request and the
// forward pass should stop.
func Unwind() Status {
	return Status{kind: kindUnwind}
}

// Error signals a failure. The payload halts the forward pass and is passed
// verbatim to the OnError traversal and to the caller of Dispatch.
func Error(err error) Status {
	return Status{kind: kindError, err: err}
}

// IsContinue reports whether s is the Continue variant.
func (s Status) IsContinue() bool { return s.kind == kindContinue }

// IsUnwind reports whether s is the Unwind variant.
func (s Status) IsUnwind() bool { return s.kind == kindUnwind }

// IsError reports whether s is the Error variant.
func (s Status) IsError() bool { return s.kind == kindError }

// Err returns the payload carried by an Error status, or nil for the other
// variants.
func (s Status) Err() error { return s.err }

// String returns the variant name, with the payload for Error statuses.
func (s Status) String() string {
	switch s.kind {
	case kindUnwind:
		return "Unwind"
	case kindError:
		if s.err == nil {
			return "Error(<nil>)"
		}
		return "Error(" + s.err.Error() + ")"
	default:
		return "Continue"
	}
}
