package checkin

import (
	"github.com/jrsteele09/go-library-checkin/availability"
)

// Decision is the action chosen for an item once its availability is known.
type Decision int

const (
	DecisionRejectTransit Decision = iota
	DecisionCheckIn
	DecisionInLibraryUse
	DecisionRejectUnavailable
)

func (d Decision) String() string {
	switch d {
	case DecisionRejectTransit:
		return "reject-transit"
	case DecisionCheckIn:
		return "check-in"
	case DecisionInLibraryUse:
		return "in-library-use"
	default:
		return "reject-unavailable"
	}
}

// Decide picks the action for status. Rules are evaluated in order and an item in
// transit is always rejected, whatever its other fields say.
func Decide(status availability.Status) Decision {
	switch {
	case status.Reason() == availability.ReasonTransit:
		return DecisionRejectTransit
	case status.CheckedOut:
		return DecisionCheckIn
	case status.State == availability.StateAvailable:
		return DecisionInLibraryUse
	default:
		return DecisionRejectUnavailable
	}
}
