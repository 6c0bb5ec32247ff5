package parser

import "fmt"

// Phase identifies the parser state in which an error occurred, so that
// log-format drift is diagnosable per hand section.
type Phase int

const (
	PhaseHeader Phase = iota
	PhaseSeating
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	// PhaseAction covers action-line classification failures, which can
	// surface from any street.
	PhaseAction
)

func (p Phase) String() string {
	switch p {
	case PhaseHeader:
		return "header"
	case PhaseSeating:
		return "seating"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhaseAction:
		return "action"
	default:
		return "unknown"
	}
}

// ParseError is a phase-scoped hand parse failure. A ParseError aborts the
// enclosing hand; the batch driver records it and moves on to the next hand.
type ParseError struct {
	Phase Phase
	Line  string // offending raw line, empty when not line-scoped
	Cause string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("%s: %s (line %q)", e.Phase, e.Cause, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Phase, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newError(phase Phase, line, cause string) *ParseError {
	return &ParseError{Phase: phase, Line: line, Cause: cause}
}

func wrapError(phase Phase, line, cause string, err error) *ParseError {
	return &ParseError{Phase: phase, Line: line, Cause: cause, Err: err}
}
