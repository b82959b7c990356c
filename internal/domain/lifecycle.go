package domain

import (
	"fmt"

	apperrors "orderdesk/internal/errors"
)

type State string

const (
	StateNew                  State = "new"
	StateContactCollected     State = "contact_collected"
	StateAwaitingPaymentProof State = "awaiting_payment_proof"
	StateSubmittedToStaff     State = "submitted_to_staff"
	StateConfirmed            State = "confirmed"
	StateNeedsClarification   State = "needs_clarification"
	StateShipped              State = "shipped"
	StateClosed               State = "closed"
	StateCancelled            State = "cancelled"
)

type Event string

const (
	EventContactCollected Event = "contact_collected"
	EventPaymentChosen    Event = "payment_chosen"
	EventSubmitted        Event = "submitted"
	EventStaffConfirmed   Event = "staff_confirmed"
	EventStaffRejected    Event = "staff_rejected"
	EventTrackingAttached Event = "tracking_attached"
	EventClosed           Event = "closed"
	EventCancelled        Event = "cancelled"

	// EventWebConfirmed is the minimal web flow, which collapses the
	// contact and staff steps into a single confirmation.
	EventWebConfirmed Event = "web_confirmed"
)

type transition struct {
	from  State
	event Event
}

var transitions = map[transition]State{
	{StateNew, EventContactCollected}:            StateContactCollected,
	{StateContactCollected, EventPaymentChosen}:  StateAwaitingPaymentProof,
	{StateAwaitingPaymentProof, EventSubmitted}:  StateSubmittedToStaff,
	{StateSubmittedToStaff, EventStaffConfirmed}: StateConfirmed,
	{StateSubmittedToStaff, EventStaffRejected}:  StateNeedsClarification,
	{StateConfirmed, EventTrackingAttached}:      StateShipped,
	{StateConfirmed, EventClosed}:                StateClosed,
	{StateNeedsClarification, EventClosed}:       StateClosed,
	{StateShipped, EventClosed}:                  StateClosed,
	{StateNew, EventWebConfirmed}:                StateConfirmed,
	{StateNew, EventCancelled}:                   StateCancelled,
	{StateContactCollected, EventCancelled}:      StateCancelled,
	{StateAwaitingPaymentProof, EventCancelled}:  StateCancelled,
}

// Transition returns the state reached from `from` on `event`, or an
// INVALID_TRANSITION conflict when the pair is not in the table.
func Transition(from State, event Event) (State, error) {
	to, ok := transitions[transition{from, event}]
	if !ok {
		return from, apperrors.NewConflictError(
			apperrors.CodeInvalidTransition,
			fmt.Sprintf("order in state %q does not accept %q", from, event),
		)
	}
	return to, nil
}

func CanTransition(from State, event Event) bool {
	_, ok := transitions[transition{from, event}]
	return ok
}

// Apply moves the order along the lifecycle. The order is left untouched on
// an invalid transition.
func (o *Order) Apply(event Event) error {
	next, err := Transition(o.State, event)
	if err != nil {
		return err
	}
	o.State = next
	return nil
}

func (s State) Terminal() bool {
	return s == StateClosed || s == StateCancelled
}

// PreSubmission reports whether the order is still a customer draft that can
// be cancelled.
func (s State) PreSubmission() bool {
	switch s {
	case StateNew, StateContactCollected, StateAwaitingPaymentProof:
		return true
	}
	return false
}
