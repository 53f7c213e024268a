package message

import "fmt"

// --- State machine for message status ---
//
//	Stored → Sent         (only through Session.Send)
//	Stored → Disregarded  (terminal)
//
// Sent and Disregarded are terminal. SetStatus bypasses these checks for
// corrections; everything else goes through Transition.

// allowedTransitions maps a status to the statuses it may move to.
var allowedTransitions = map[Status][]Status{
	StatusStored: {StatusSent, StatusDisregarded},
}

// CanTransition returns an error if the message cannot move to the
// given status.
func CanTransition(m *Message, to Status) error {
	if !validStatuses[to] {
		return fmt.Errorf("invalid target status %q for message %s", to, m.ID)
	}
	for _, next := range allowedTransitions[m.Status] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("message %s cannot move from %s to %s", m.ID, m.Status, to)
}

// Transition moves the message to the given status after validating it.
func Transition(m *Message, to Status) error {
	if err := CanTransition(m, to); err != nil {
		return err
	}
	m.Status = to
	return nil
}

// Disregard discards a composed message. A disregarded message is never
// persisted unless it was already stored.
func Disregard(m *Message) error {
	return Transition(m, StatusDisregarded)
}
