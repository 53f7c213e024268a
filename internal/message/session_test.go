package message

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// --- Helpers ---

// memPersister records every persisted message in memory.
type memPersister struct {
	saved map[string]Message
	calls int
	err   error
}

func newMemPersister() *memPersister {
	return &memPersister{saved: map[string]Message{}}
}

func (p *memPersister) Persist(m *Message) error {
	p.calls++
	if p.err != nil {
		return p.err
	}
	p.saved[m.ID] = *m
	return nil
}

// fixedIDs makes Compose hand out the given IDs in order.
func fixedIDs(t *testing.T, ids ...string) {
	t.Helper()
	orig := newID
	i := 0
	newID = func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
	t.Cleanup(func() { newID = orig })
}

const (
	sender    = "+27123456789"
	recipient = "+27987654321"
)

// --- Compose ---

func TestCompose_Defaults(t *testing.T) {
	m := Compose(sender, recipient, "Hello")

	require.Len(t, m.ID, 10)
	require.Equal(t, sender, m.Sender)
	require.Equal(t, recipient, m.Recipient)
	require.Equal(t, "Hello", m.Payload)
	require.Zero(t, m.Index)
	require.Empty(t, m.Hash)
	require.Equal(t, StatusStored, m.Status)
	require.False(t, m.Delivered)
	require.False(t, m.Read)
	require.False(t, m.IsSent())
}

func TestCompose_RandomIDsAreNumeric(t *testing.T) {
	for i := 0; i < 200; i++ {
		id := Compose(sender, recipient, "x").ID
		require.Len(t, id, 10)
		require.Equal(t, "", strings.Trim(id, "0123456789"), "id %q", id)
	}
}

// --- Send ---

func TestSend_Success(t *testing.T) {
	fixedIDs(t, "1234567890")
	p := newMemPersister()
	s := NewSession(p)

	m := Compose(sender, recipient, "Hello world")
	require.NoError(t, s.Send(m))

	require.Equal(t, 1, s.TotalSent())
	require.Equal(t, 1, m.Index)
	require.Equal(t, "12:1:HELLOWORLD", m.Hash)
	require.Equal(t, StatusSent, m.Status)
	require.True(t, m.IsSent())

	require.Equal(t, 1, p.calls)
	require.Equal(t, *m, p.saved["1234567890"])

	snap, ok := s.LastSent()
	require.True(t, ok)
	require.Equal(t, Snapshot{
		ID: "1234567890", Sender: sender, Recipient: recipient,
		Payload: "Hello world", Hash: "12:1:HELLOWORLD", Index: 1,
	}, snap)
	require.Equal(t,
		"ID: 1234567890, Sender: +27123456789, Recipient: +27987654321, Payload: Hello world, Hash: 12:1:HELLOWORLD, Index: 1",
		s.PrintLastSent())
}

func TestSend_CounterIsShared(t *testing.T) {
	s := NewSession(newMemPersister())

	first := Compose(sender, recipient, "First")
	second := Compose(sender, recipient, "Second")
	require.NoError(t, s.Send(first))
	require.NoError(t, s.Send(second))

	require.Equal(t, 1, first.Index)
	require.Equal(t, 2, second.Index)
	require.Equal(t, 2, s.TotalSent())

	snap, _ := s.LastSent()
	require.Equal(t, second.ID, snap.ID)
	require.Equal(t, 2, snap.Index)
}

func TestSend_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		msg    *Message
		want   *SendError
		reason string
	}{
		{
			name:   "invalid id",
			msg:    &Message{ID: "invalid", Sender: sender, Recipient: recipient, Payload: "Hello", Status: StatusStored},
			want:   ErrInvalidID,
			reason: "Failed to send message: Invalid message ID",
		},
		{
			name:   "invalid recipient",
			msg:    &Message{ID: "1234567890", Sender: sender, Recipient: "invalid", Payload: "Hello", Status: StatusStored},
			want:   ErrInvalidReceiver,
			reason: "Failed to send message: Invalid recipient",
		},
		{
			name:   "invalid sender",
			msg:    &Message{ID: "1234567890", Sender: "invalid", Recipient: recipient, Payload: "Hello", Status: StatusStored},
			want:   ErrInvalidSender,
			reason: "Failed to send message: Invalid sender",
		},
		{
			name:   "empty payload",
			msg:    &Message{ID: "1234567890", Sender: sender, Recipient: recipient, Payload: "   ", Status: StatusStored},
			want:   ErrEmptyPayload,
			reason: "Failed to send message: Message content cannot be empty",
		},
		{
			name:   "payload too long",
			msg:    &Message{ID: "1234567890", Sender: sender, Recipient: recipient, Payload: strings.Repeat("a", 251), Status: StatusStored},
			want:   ErrPayloadTooLong,
			reason: "Failed to send message: Payload too long",
		},
		{
			name:   "recipient checked before sender",
			msg:    &Message{ID: "1234567890", Sender: "bad", Recipient: "bad", Payload: "", Status: StatusStored},
			want:   ErrInvalidReceiver,
			reason: "Failed to send message: Invalid recipient",
		},
		{
			name:   "disregarded",
			msg:    &Message{ID: "1234567890", Sender: sender, Recipient: recipient, Payload: "Hello", Status: StatusDisregarded},
			want:   ErrDisregarded,
			reason: "Failed to send message: Message was disregarded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newMemPersister()
			s := NewSession(p)
			before := *tt.msg

			err := s.Send(tt.msg)
			require.ErrorIs(t, err, tt.want)
			require.EqualError(t, err, tt.reason)

			require.Equal(t, 0, s.TotalSent())
			require.Equal(t, before, *tt.msg, "message must not be mutated")
			require.Zero(t, p.calls)
			require.Equal(t, "No messages sent", s.PrintLastSent())
		})
	}
}

func TestSend_PayloadAtLimit(t *testing.T) {
	s := NewSession(newMemPersister())
	m := Compose(sender, recipient, strings.Repeat("a", 250))
	require.NoError(t, s.Send(m))
}

func TestSend_AlreadySentKeepsIndexAndHash(t *testing.T) {
	s := NewSession(newMemPersister())
	m := Compose(sender, recipient, "Hi Tonight")
	require.NoError(t, s.Send(m))
	idx, hash := m.Index, m.Hash

	require.ErrorIs(t, s.Send(m), ErrAlreadySent)
	require.Equal(t, idx, m.Index)
	require.Equal(t, hash, m.Hash)
	require.Equal(t, 1, s.TotalSent())
}

func TestSend_PersistFailureStillAdvancesCounter(t *testing.T) {
	p := newMemPersister()
	p.err = errors.New("disk full")
	s := NewSession(p)

	m := Compose(sender, recipient, "Hello")
	err := s.Send(m)
	require.Error(t, err)
	require.ErrorContains(t, err, "disk full")

	var sendErr *SendError
	require.False(t, errors.As(err, &sendErr), "storage failures are not validation failures")
	require.Equal(t, 1, s.TotalSent())
	require.Equal(t, StatusSent, m.Status)
}

// --- Store ---

func TestStore_PersistsWithoutSending(t *testing.T) {
	p := newMemPersister()
	s := NewSession(p)
	m := Compose(sender, recipient, "Later")

	require.NoError(t, s.Store(m))
	require.Equal(t, 1, p.calls)
	require.Equal(t, StatusStored, p.saved[m.ID].Status)
	require.Zero(t, s.TotalSent())
}

func TestStore_RejectsDisregarded(t *testing.T) {
	p := newMemPersister()
	s := NewSession(p)
	m := Compose(sender, recipient, "Nope")
	require.NoError(t, Disregard(m))

	require.Error(t, s.Store(m))
	require.Zero(t, p.calls)
}

func TestSend_RejectsStatusSentWithoutIndex(t *testing.T) {
	s := NewSession(newMemPersister())
	m := &Message{ID: "1234567890", Sender: sender, Recipient: recipient, Payload: "Hello", Status: StatusSent}

	require.Error(t, s.Send(m))
	require.Zero(t, m.Index)
	require.Empty(t, m.Hash)
	require.Zero(t, s.TotalSent())
}
