// Package reports builds the derived views over a loaded message set:
// inbox, sent messages, longest message, searches, delete by hash and the
// full sender report.
//
// Every function does a linear scan of the slice it is given and keeps the
// slice's order. Views that mutate messages (inbox, mark read, delete)
// take the persistence hook they need, so the caller decides where records
// are written.
package reports

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HendryAvila/quickchat/internal/message"
)

// ErrNotFound is returned when a lookup by ID or hash matches nothing.
var ErrNotFound = errors.New("message not found")

// Persister re-writes a mutated message.
type Persister interface {
	Persist(m *message.Message) error
}

// Deleter removes a durable record by message ID.
type Deleter interface {
	DeleteByID(id string) (bool, error)
}

// ReportLine is one row of the full sender report.
type ReportLine struct {
	Hash      string
	Recipient string
	Payload   string
	Status    message.Status
}

// Inbox returns the messages addressed to user. Each one not yet delivered
// is marked delivered and re-persisted. If a write fails the remaining
// messages are still returned and the first error is reported.
func Inbox(msgs []*message.Message, user string, p Persister) ([]*message.Message, error) {
	var (
		out      []*message.Message
		firstErr error
	)
	for _, m := range msgs {
		if m.Recipient != user {
			continue
		}
		out = append(out, m)

		if m.Delivered {
			continue
		}
		m.SetDelivered(true)
		if err := p.Persist(m); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("marking message %s delivered: %w", m.ID, err)
		}
	}
	return out, firstErr
}

// MarkRead marks the message with the given ID as read and re-persists it.
func MarkRead(msgs []*message.Message, id string, p Persister) (*message.Message, error) {
	m, err := FindByID(msgs, id)
	if err != nil {
		return nil, err
	}
	m.SetRead(true)
	if err := p.Persist(m); err != nil {
		return m, fmt.Errorf("marking message %s read: %w", id, err)
	}
	return m, nil
}

// SentBy returns the messages user has sent, in encounter order.
func SentBy(msgs []*message.Message, user string) []*message.Message {
	var out []*message.Message
	for _, m := range msgs {
		if m.Sender == user && m.Status == message.StatusSent {
			out = append(out, m)
		}
	}
	return out
}

// LongestSentBy returns the sent message with the longest payload. On a
// tie the first one encountered wins.
func LongestSentBy(msgs []*message.Message, user string) (*message.Message, bool) {
	var longest *message.Message
	for _, m := range SentBy(msgs, user) {
		if longest == nil || payloadLen(m) > payloadLen(longest) {
			longest = m
		}
	}
	return longest, longest != nil
}

// DeleteSentByHash deletes the first message from user whose hash matches,
// removing both its durable record and its entry in msgs. It returns the
// shortened slice and the deleted message.
func DeleteSentByHash(msgs []*message.Message, user, hash string, d Deleter) ([]*message.Message, *message.Message, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return msgs, nil, ErrNotFound
	}

	for i, m := range msgs {
		if m.Sender != user || !strings.EqualFold(m.Hash, hash) {
			continue
		}
		removed, err := d.DeleteByID(m.ID)
		if err != nil {
			return msgs, nil, fmt.Errorf("deleting message %s: %w", m.ID, err)
		}
		if !removed {
			slog.Warn("deleted message had no stored record", "message_id", m.ID, "hash", m.Hash)
		}
		out := make([]*message.Message, 0, len(msgs)-1)
		out = append(out, msgs[:i]...)
		out = append(out, msgs[i+1:]...)
		return out, m, nil
	}
	return msgs, nil, ErrNotFound
}

// From returns every message user composed and kept, sent or stored.
func From(msgs []*message.Message, user string) []*message.Message {
	var out []*message.Message
	for _, m := range msgs {
		if m.Sender == user {
			out = append(out, m)
		}
	}
	return out
}

// FullReportFor lists every message from user regardless of status.
func FullReportFor(msgs []*message.Message, user string) []ReportLine {
	var out []ReportLine
	for _, m := range From(msgs, user) {
		out = append(out, ReportLine{
			Hash:      m.Hash,
			Recipient: m.Recipient,
			Payload:   m.Payload,
			Status:    m.Status,
		})
	}
	return out
}

// FindByID returns the message with the given ID.
func FindByID(msgs []*message.Message, id string) (*message.Message, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	for _, m := range msgs {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, ErrNotFound
}

// SentTo returns every message addressed to recipient, any status.
func SentTo(msgs []*message.Message, recipient string) []*message.Message {
	var out []*message.Message
	for _, m := range msgs {
		if m.Recipient == recipient {
			out = append(out, m)
		}
	}
	return out
}

// FormatReport renders report lines the way the reports menu shows them.
func FormatReport(lines []ReportLine) string {
	if len(lines) == 0 {
		return "No messages to report."
	}
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "Message Hash: %s\n", l.Hash)
		fmt.Fprintf(&b, "Recipient: %s\n", l.Recipient)
		fmt.Fprintf(&b, "Message: %s\n", l.Payload)
		fmt.Fprintf(&b, "Status: %s\n", l.Status)
		b.WriteString("---------------------------------\n")
	}
	return b.String()
}

func payloadLen(m *message.Message) int {
	return len([]rune(strings.TrimSpace(m.Payload)))
}
