package models

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var validTransitions = map[Status][]Status{
	StatusWaiting:  {StatusApproved, StatusRejected},
	StatusApproved: {},
	StatusRejected: {},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo reports whether the state machine allows moving from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// BookingState selects a subset of bookings relative to a moment in time.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

var bookingStates = []BookingState{StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected}

// BookingStates lists every filter state in declaration order.
func BookingStates() []BookingState {
	return append([]BookingState(nil), bookingStates...)
}

// IsValid reports whether s is one of the known filter states.
func (s BookingState) IsValid() bool {
	for _, known := range bookingStates {
		if s == known {
			return true
		}
	}
	return false
}

// ParseBookingState reads a filter state, ignoring case and surrounding spaces.
// An empty string means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	s := BookingState(strings.ToUpper(strings.TrimSpace(raw)))
	if s == "" {
		return StateAll, nil
	}
	if s.IsValid() {
		return s, nil
	}
	return "", fmt.Errorf("unknown booking state: %s", raw)
}

// Matches classifies b against now. CURRENT, PAST and FUTURE partition every
// booking with start before end.
func (s BookingState) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(now) && b.End.After(now)
	case StatePast:
		return !b.End.After(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}
