package message

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HendryAvila/quickchat/internal/rules"
)

// record is the on-disk shape of a message file. Optional fields are
// pointers so that absent keys can be told apart from zero values.
//
// Records written by older QuickChat builds use upper-case MESSAGE_* keys
// and IS_RECEIVED / IS_READ; those are read as a fallback.
type record struct {
	ID        string  `json:"id"`
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Payload   string  `json:"payload"`
	Index     *int    `json:"index"`
	Hash      string  `json:"hash"`
	Status    *string `json:"status"`
	Delivered *bool   `json:"delivered"`
	Read      *bool   `json:"read"`

	LegacyID        string  `json:"MESSAGE_ID"`
	LegacySender    string  `json:"MESSAGE_SENDER"`
	LegacyRecipient string  `json:"MESSAGE_RECIPIENT"`
	LegacyPayload   string  `json:"MESSAGE_PAYLOAD"`
	LegacyIndex     *int    `json:"MESSAGE_INDEX"`
	LegacyHash      string  `json:"MESSAGE_HASH"`
	LegacyStatus    *string `json:"MESSAGE_STATUS"`
	LegacyReceived  *bool   `json:"IS_RECEIVED"`
	LegacyRead      *bool   `json:"IS_READ"`
}

// Defaults applied when a record omits a field. An absent status is
// derived from the index instead: 0 is Stored, anything else is Sent.
const (
	defaultDelivered = false
	defaultRead      = false
)

var errMissingID = errors.New("record has no message id")

// encodeRecord marshals a message into its file contents. The output is
// stable for a given message state.
func encodeRecord(m *Message) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling message %s: %w", m.ID, err)
	}
	return append(data, '\n'), nil
}

// decodeRecord parses file contents into a Message, applying defaults for
// absent status and flags. A record whose id is not a message id, or whose
// index and hash disagree about whether it was sent, is malformed.
func decodeRecord(data []byte) (*Message, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing message record: %w", err)
	}

	m := &Message{
		ID:        firstNonEmpty(r.ID, r.LegacyID),
		Sender:    firstNonEmpty(r.Sender, r.LegacySender),
		Recipient: firstNonEmpty(r.Recipient, r.LegacyRecipient),
		Payload:   firstNonEmpty(r.Payload, r.LegacyPayload),
		Hash:      firstNonEmpty(r.Hash, r.LegacyHash),
		Delivered: defaultDelivered,
		Read:      defaultRead,
	}
	if m.ID == "" {
		return nil, errMissingID
	}
	if !rules.ValidMessageID(m.ID) {
		return nil, fmt.Errorf("invalid message id %q", m.ID)
	}

	if idx := firstNonNil(r.Index, r.LegacyIndex); idx != nil {
		if *idx < 0 {
			return nil, fmt.Errorf("message %s has negative index %d", m.ID, *idx)
		}
		m.Index = *idx
	}
	if (m.Index == 0) != (m.Hash == "") {
		return nil, fmt.Errorf("message %s has index %d but hash %q", m.ID, m.Index, m.Hash)
	}

	if s := firstNonNil(r.Status, r.LegacyStatus); s != nil {
		st, err := ParseStatus(*s)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", m.ID, err)
		}
		m.Status = st
	} else if m.IsSent() {
		m.Status = StatusSent
	} else {
		m.Status = StatusStored
	}

	if d := firstNonNil(r.Delivered, r.LegacyReceived); d != nil {
		m.Delivered = *d
	}
	if rd := firstNonNil(r.Read, r.LegacyRead); rd != nil {
		m.SetRead(*rd)
	}

	return m, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil[T any](vals ...*T) *T {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
