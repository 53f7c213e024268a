// Package app holds the logged-in QuickChat session: the current user, the
// message set hydrated at login, and the write-back of every mutation.
//
// The MCP server may dispatch tool calls concurrently, so every
// operation runs under the session mutex.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/HendryAvila/quickchat/internal/message"
	"github.com/HendryAvila/quickchat/internal/reports"
	"github.com/HendryAvila/quickchat/internal/users"
	"github.com/google/uuid"
)

// ErrNotLoggedIn is returned by operations that need a current user.
var ErrNotLoggedIn = errors.New("no user is logged in")

// newSessionID is a package-level var for testability.
var newSessionID = uuid.NewString

// MessageStore is the durable message storage the session writes through.
// message.FileStore is the production implementation.
type MessageStore interface {
	LoadAll() ([]*message.Message, error)
	Persist(m *message.Message) error
	DeleteByID(id string) (bool, error)
}

// Action is what to do with a freshly composed message.
type Action string

const (
	ActionSend      Action = "send"
	ActionStore     Action = "store"
	ActionDisregard Action = "disregard"
)

// validActions is the set of allowed compose actions.
var validActions = map[Action]bool{
	ActionSend:      true,
	ActionStore:     true,
	ActionDisregard: true,
}

// ParseAction validates a compose action name.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !validActions[a] {
		return "", fmt.Errorf("invalid action %q: must be one of: send, store, disregard", s)
	}
	return a, nil
}

// LoginResult is the outcome of a login attempt. A failed attempt is a
// value, not an error.
type LoginResult struct {
	OK        bool
	Greeting  string
	SessionID string
	Loaded    int
}

// Status is a snapshot of the session for display.
type Status struct {
	LoggedIn       bool   `json:"logged_in"`
	SessionID      string `json:"session_id,omitempty"`
	Username       string `json:"username,omitempty"`
	Cellphone      string `json:"cellphone,omitempty"`
	LoadedMessages int    `json:"loaded_messages"`
	TotalSent      int    `json:"total_sent"`
	LastSent       string `json:"last_sent"`
}

// Session is the single interactive session of the process.
type Session struct {
	mu sync.Mutex

	dir    *users.Directory
	store  MessageStore
	outbox *message.Session
	log    *slog.Logger

	current   *users.User
	sessionID string
	msgs      []*message.Message
}

// New creates a logged-out session. The send counter lives on the
// session and therefore spans logins within one process.
func New(dir *users.Directory, store MessageStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		dir:    dir,
		store:  store,
		outbox: message.NewSession(store),
		log:    logger,
	}
}

// Register adds a user to the directory. See users.Directory.Register.
func (s *Session) Register(username, password, cellphone, firstName, lastName string) (users.Feedback, error) {
	return s.dir.Register(username, password, cellphone, firstName, lastName)
}

// Login authenticates and, on success, replaces the current user and
// loads every stored message the user sent or received.
func (s *Session) Login(username, password string) (LoginResult, error) {
	if !s.dir.Authenticate(username, password) {
		s.log.Info("login rejected", "username", username)
		return LoginResult{Greeting: users.LoginStatus(users.User{}, false)}, nil
	}
	u, _ := s.dir.FindByUsername(username)

	all, err := s.store.LoadAll()
	if err != nil {
		return LoginResult{}, fmt.Errorf("loading messages: %w", err)
	}
	var mine []*message.Message
	for _, m := range all {
		if m.Sender == u.Cellphone || m.Recipient == u.Cellphone {
			mine = append(mine, m)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &u
	s.sessionID = newSessionID()
	s.msgs = mine

	s.log.Info("user logged in", "session_id", s.sessionID, "username", u.Username, "messages", len(mine))
	return LoginResult{
		OK:        true,
		Greeting:  users.LoginStatus(u, true),
		SessionID: s.sessionID,
		Loaded:    len(mine),
	}, nil
}

// Logout clears the current user and the loaded messages.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNotLoggedIn
	}
	s.log.Info("user logged out", "session_id", s.sessionID, "username", s.current.Username)
	s.current = nil
	s.sessionID = ""
	s.msgs = nil
	return nil
}

// CurrentUser returns the logged-in user.
func (s *Session) CurrentUser() (users.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return users.User{}, false
	}
	return *s.current, true
}

// Compose creates a message from the current user's cellphone and applies
// the action to it:
//   - send: validate, assign index and hash, persist, add to the set
//   - store: persist as Stored, add to the set
//   - disregard: mark Disregarded; nothing is written or kept
//
// A failed send returns the *message.SendError and leaves the set and the
// counter untouched.
func (s *Session) Compose(recipient, payload string, action Action) (*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}

	m := message.Compose(s.current.Cellphone, recipient, payload)
	logger := s.log.With("session_id", s.sessionID, "message_id", m.ID)

	switch action {
	case ActionSend:
		if err := s.outbox.Send(m); err != nil {
			var sendErr *message.SendError
			if errors.As(err, &sendErr) {
				logger.Debug("send rejected", "reason", sendErr.Reason)
			} else {
				logger.Error("send failed", "error", err)
			}
			return nil, err
		}
		s.msgs = append(s.msgs, m)
		logger.Info("message sent", "index", m.Index, "hash", m.Hash)
	case ActionStore:
		if err := s.outbox.Store(m); err != nil {
			logger.Error("store failed", "error", err)
			return nil, err
		}
		s.msgs = append(s.msgs, m)
		logger.Info("message stored")
	case ActionDisregard:
		if err := message.Disregard(m); err != nil {
			return nil, err
		}
		logger.Info("message disregarded")
	default:
		return nil, fmt.Errorf("invalid action %q", action)
	}
	return m, nil
}

// Inbox returns the messages addressed to the current user, marking the
// undelivered ones delivered.
func (s *Session) Inbox() ([]*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	inbox, err := reports.Inbox(s.msgs, s.current.Cellphone, s.store)
	if err != nil {
		s.log.Error("inbox write-back failed", "session_id", s.sessionID, "error", err)
	}
	return inbox, err
}

// Read opens a message addressed to the current user, marking it read.
func (s *Session) Read(id string) (*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	inbox := reports.SentTo(s.msgs, s.current.Cellphone)
	m, err := reports.MarkRead(inbox, id, s.store)
	if err != nil && !errors.Is(err, reports.ErrNotFound) {
		s.log.Error("read write-back failed", "session_id", s.sessionID, "message_id", id, "error", err)
	}
	return m, err
}

// Sent returns the messages the current user has sent.
func (s *Session) Sent() ([]*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	return reports.SentBy(s.msgs, s.current.Cellphone), nil
}

// Outgoing returns every kept message the current user composed.
func (s *Session) Outgoing() ([]*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	return reports.From(s.msgs, s.current.Cellphone), nil
}

// Longest returns the current user's longest sent message.
func (s *Session) Longest() (*message.Message, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false, ErrNotLoggedIn
	}
	m, ok := reports.LongestSentBy(s.msgs, s.current.Cellphone)
	return m, ok, nil
}

// DeleteByHash deletes the current user's message with the given hash
// from disk and from the loaded set.
func (s *Session) DeleteByHash(hash string) (*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	out, deleted, err := reports.DeleteSentByHash(s.msgs, s.current.Cellphone, hash, s.store)
	if err != nil {
		if !errors.Is(err, reports.ErrNotFound) {
			s.log.Error("delete failed", "session_id", s.sessionID, "hash", hash, "error", err)
		}
		return nil, err
	}
	s.msgs = out
	s.log.Info("message deleted", "session_id", s.sessionID, "message_id", deleted.ID)
	return deleted, nil
}

// Report lists every message the current user composed and kept.
func (s *Session) Report() ([]reports.ReportLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	return reports.FullReportFor(s.msgs, s.current.Cellphone), nil
}

// SearchByID finds a loaded message by its ID.
func (s *Session) SearchByID(id string) (*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	return reports.FindByID(s.msgs, id)
}

// SearchByRecipient returns the loaded messages addressed to recipient.
func (s *Session) SearchByRecipient(recipient string) ([]*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	return reports.SentTo(s.msgs, recipient), nil
}

// TotalSent returns how many messages this process has sent.
func (s *Session) TotalSent() int {
	return s.outbox.TotalSent()
}

// LastSent renders the most recently sent message.
func (s *Session) LastSent() string {
	return s.outbox.PrintLastSent()
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		TotalSent: s.outbox.TotalSent(),
		LastSent:  s.outbox.PrintLastSent(),
	}
	if s.current != nil {
		st.LoggedIn = true
		st.SessionID = s.sessionID
		st.Username = s.current.Username
		st.Cellphone = s.current.Cellphone
		st.LoadedMessages = len(s.msgs)
	}
	return st
}
