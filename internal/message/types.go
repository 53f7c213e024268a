// Package message implements the QuickChat message lifecycle.
//
// A message is composed in memory, then either sent, stored for later, or
// disregarded. Sent messages receive a session-wide index and a digest
// (see rules.ComputeHash). Durable records live one file per message in a
// FileStore.
//
// This package follows the same layout as the rest of the module:
//   - types.go: the Message record and its status enum
//   - state.go: the status state machine
//   - session.go: the send counter and last-sent snapshot
//   - store.go / record.go: persistence and record decoding
package message

import (
	"fmt"
	"strings"
)

// --- Status enum ---

// Status tracks where a message is in its lifecycle.
type Status string

const (
	StatusStored      Status = "Stored"
	StatusSent        Status = "Sent"
	StatusDisregarded Status = "Disregarded"
)

// validStatuses is the set of allowed statuses.
var validStatuses = map[Status]bool{
	StatusStored:      true,
	StatusSent:        true,
	StatusDisregarded: true,
}

// ParseStatus converts a stored status string into a Status.
// Matching ignores case so hand-edited records still load.
func ParseStatus(s string) (Status, error) {
	for st := range validStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid message status %q: must be one of: Stored, Sent, Disregarded", s)
}

// --- Core data structure ---

// Message is a single QuickChat message. It is persisted as
// message_<id>.json by FileStore.
//
// Index is 0 and Hash is empty until the message has been sent.
// Once sent, both are fixed for the lifetime of the record.
type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Payload   string `json:"payload"`
	Index     int    `json:"index"`
	Hash      string `json:"hash"`
	Status    Status `json:"status"`
	Delivered bool   `json:"delivered"`
	Read      bool   `json:"read"`
}

// Compose creates a new, unsent message with a random ten-digit ID.
// It never fails: field validation happens when the message is sent.
func Compose(sender, recipient, payload string) *Message {
	return &Message{
		ID:        newID(),
		Sender:    sender,
		Recipient: recipient,
		Payload:   payload,
		Status:    StatusStored,
	}
}

// IsSent reports whether the message has been successfully sent.
func (m *Message) IsSent() bool {
	return m.Index != 0
}

// SetStatus overwrites the status without checking the state machine.
// Callers must re-persist the message afterwards.
func (m *Message) SetStatus(s Status) {
	m.Status = s
}

// SetDelivered sets the delivered flag. Clearing it also clears read.
// Callers must re-persist the message afterwards.
func (m *Message) SetDelivered(delivered bool) {
	m.Delivered = delivered
	if !delivered {
		m.Read = false
	}
}

// SetRead sets the read flag. A read message is always delivered.
// Callers must re-persist the message afterwards.
func (m *Message) SetRead(read bool) {
	m.Read = read
	if read {
		m.Delivered = true
	}
}

// String renders the message the way the inbox and sent views show it.
func (m *Message) String() string {
	return fmt.Sprintf("%s: ID: %s, From: %s, To: %s, Payload: %s, Hash: %s, Index: %d",
		m.Status, m.ID, m.Sender, m.Recipient, m.Payload, m.Hash, m.Index)
}
