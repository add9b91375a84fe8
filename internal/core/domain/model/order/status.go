package order

import (
	"errors"
	"fmt"
	"strings"

	"emojiorder/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel behind every TransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Paid ──> Preparing ──> Ready ──> Completed
//	   │            │           │
//	   └────────────┴───────────┴──> Cancelled
//
// Completed and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota
	Pending
	Confirmed
	Paid
	Preparing
	Ready
	Completed
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Paid:      "paid",
		Preparing: "preparing",
		Ready:     "ready",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// getTransitions lists, for each non-terminal status, the statuses it may move to.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Paid, Cancelled},
		Paid:      {Preparing, Cancelled},
		Preparing: {Ready},
		Ready:     {Completed},
	}
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Confirmed, Paid, Preparing, Ready, Completed, Cancelled}
}

// ParseStatus accepts the lowercase names produced by String, case-insensitively.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, status := range Statuses() {
		if status.String() == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer. Invalid values render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next if the move is allowed, or a *TransitionError.
// Invalid moves are reported, never corrected.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, &TransitionError{From: s, To: next}
	}
	return next, nil
}

// TransitionError describes a rejected status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
