package message

import (
	"fmt"
	"strings"
	"sync"

	"github.com/HendryAvila/quickchat/internal/rules"
)

// SendSuccess is the user-facing result of a successful send.
const SendSuccess = "Message sent successfully"

// SendError is a validation failure reported by Session.Send.
// Each rule has its own sentinel so callers can use errors.Is.
type SendError struct {
	Reason string
}

func (e *SendError) Error() string {
	return "Failed to send message: " + e.Reason
}

// Send validation failures, in the order they are checked.
var (
	ErrAlreadySent     = &SendError{Reason: "Message already sent"}
	ErrDisregarded     = &SendError{Reason: "Message was disregarded"}
	ErrInvalidID       = &SendError{Reason: "Invalid message ID"}
	ErrInvalidReceiver = &SendError{Reason: "Invalid recipient"}
	ErrInvalidSender   = &SendError{Reason: "Invalid sender"}
	ErrEmptyPayload    = &SendError{Reason: "Message content cannot be empty"}
	ErrPayloadTooLong  = &SendError{Reason: "Payload too long"}
)

// Persister writes a message record to durable storage.
// FileStore is the production implementation.
type Persister interface {
	Persist(m *Message) error
}

// Snapshot captures the most recently sent message.
type Snapshot struct {
	ID        string
	Sender    string
	Recipient string
	Payload   string
	Hash      string
	Index     int
}

// Snapshot captures m as it stands, for reporting a send.
func (m *Message) Snapshot() Snapshot {
	return Snapshot{
		ID:        m.ID,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Payload:   m.Payload,
		Hash:      m.Hash,
		Index:     m.Index,
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("ID: %s, Sender: %s, Recipient: %s, Payload: %s, Hash: %s, Index: %d",
		s.ID, s.Sender, s.Recipient, s.Payload, s.Hash, s.Index)
}

// Session owns the send counter and the last-sent snapshot for one
// process. It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	store    Persister
	counter  int
	lastSent *Snapshot
}

// NewSession creates a Session that persists sent messages through p.
func NewSession(p Persister) *Session {
	return &Session{store: p}
}

// Validate runs the send checks in order and returns the first failure,
// or nil if the message can be sent.
func Validate(m *Message) error {
	switch {
	case m.IsSent():
		return ErrAlreadySent
	case m.Status == StatusDisregarded:
		return ErrDisregarded
	case !rules.ValidMessageID(m.ID):
		return ErrInvalidID
	case !rules.ValidPhoneNumber(m.Recipient):
		return ErrInvalidReceiver
	case !rules.ValidPhoneNumber(m.Sender):
		return ErrInvalidSender
	case strings.TrimSpace(m.Payload) == "":
		return ErrEmptyPayload
	case len([]rune(m.Payload)) > rules.MaxPayloadLength:
		return ErrPayloadTooLong
	}
	return nil
}

// Send validates the message and, on success, assigns the next index,
// computes its hash, marks it Sent, records the snapshot and persists it.
//
// A validation failure returns a *SendError and leaves the message and
// the counter untouched. A persistence failure is returned wrapped; the
// counter has already advanced by then.
func (s *Session) Send(m *Message) error {
	if err := Validate(m); err != nil {
		return err
	}

	s.mu.Lock()
	if err := Transition(m, StatusSent); err != nil {
		s.mu.Unlock()
		return err
	}
	s.counter++
	m.Index = s.counter
	m.Hash = rules.ComputeHash(m.ID, m.Index, m.Payload)
	snap := m.Snapshot()
	s.lastSent = &snap
	s.mu.Unlock()

	if err := s.store.Persist(m); err != nil {
		return fmt.Errorf("persisting sent message %s: %w", m.ID, err)
	}
	return nil
}

// Store persists a composed message for later without sending it.
func (s *Session) Store(m *Message) error {
	if m.Status == StatusDisregarded {
		return fmt.Errorf("message %s was disregarded and cannot be stored", m.ID)
	}
	if err := s.store.Persist(m); err != nil {
		return fmt.Errorf("storing message %s: %w", m.ID, err)
	}
	return nil
}

// TotalSent returns how many messages this session has sent.
func (s *Session) TotalSent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// LastSent returns the most recently sent message, if any.
func (s *Session) LastSent() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSent == nil {
		return Snapshot{}, false
	}
	return *s.lastSent, true
}

// PrintLastSent renders the last-sent snapshot, or "No messages sent".
func (s *Session) PrintLastSent() string {
	snap, ok := s.LastSent()
	if !ok {
		return "No messages sent"
	}
	return snap.String()
}
