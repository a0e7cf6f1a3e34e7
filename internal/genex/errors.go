package genex

import "fmt"

// InvariantError reports a fatal engine invariant violation. These
// indicate a modeling or engine bug rather than a transient condition;
// a run that produces one must stop.
type InvariantError struct {
	Invariant string
	Entity    string
	Detail    string
}

func (e *InvariantError) Error() string {
	msg := fmt.Sprintf("invariant violation (%s) on '%s'", e.Invariant, e.Entity)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// InvalidReactionError reports a malformed reaction at construction
// time, before a simulation is started.
type InvalidReactionError struct {
	Reason string
}

func (e *InvalidReactionError) Error() string {
	return "invalid reaction: " + e.Reason
}
