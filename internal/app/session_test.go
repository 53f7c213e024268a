package app

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/HendryAvila/quickchat/internal/message"
	"github.com/HendryAvila/quickchat/internal/reports"
	"github.com/HendryAvila/quickchat/internal/users"
	"github.com/stretchr/testify/require"
)

const (
	kylePhone = "+27838968976"
	annaPhone = "+27831234567"
)

type fixture struct {
	dataDir string
	store   *message.FileStore
	session *Session
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dataDir := t.TempDir()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	dir, err := users.NewDirectory(users.NewFileStore(dataDir), logger)
	require.NoError(t, err)
	for _, u := range []users.User{
		{Username: "kyl_1", Password: "Ch&&sec@ke99!", Cellphone: kylePhone, FirstName: "Kyle", LastName: "Smith"},
		{Username: "ann_2", Password: "Passw0rd!", Cellphone: annaPhone, FirstName: "Anna", LastName: "Jones"},
	} {
		fb, err := dir.Register(u.Username, u.Password, u.Cellphone, u.FirstName, u.LastName)
		require.NoError(t, err)
		require.True(t, fb.Registered, fb.String())
	}

	store := message.NewFileStore(dataDir, logger)
	return &fixture{
		dataDir: dataDir,
		store:   store,
		session: New(dir, store, logger),
		logs:    &logs,
	}
}

func (f *fixture) login(t *testing.T, username, password string) LoginResult {
	t.Helper()
	res, err := f.session.Login(username, password)
	require.NoError(t, err)
	require.True(t, res.OK, res.Greeting)
	return res
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"send", "store", "disregard"} {
		a, err := ParseAction(s)
		require.NoError(t, err)
		require.Equal(t, Action(s), a)
	}
	_, err := ParseAction("forward")
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	orig := newSessionID
	newSessionID = func() string { return "sess-1" }
	t.Cleanup(func() { newSessionID = orig })

	res, err := f.session.Login("kyl_1", "wrong")
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Equal(t, "Username & Password do not match our records, please try again.", res.Greeting)

	res = f.login(t, "kyl_1", "Ch&&sec@ke99!")
	require.Equal(t, "Welcome Kyle Smith,\nit is great to see you.", res.Greeting)
	require.Equal(t, "sess-1", res.SessionID)
	require.Contains(t, f.logs.String(), "session_id=sess-1")

	u, ok := f.session.CurrentUser()
	require.True(t, ok)
	require.Equal(t, kylePhone, u.Cellphone)
}

func TestOperationsRequireLogin(t *testing.T) {
	s := newFixture(t).session

	_, err := s.Compose(annaPhone, "hi", ActionSend)
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = s.Inbox()
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = s.Sent()
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, _, err = s.Longest()
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = s.Report()
	require.ErrorIs(t, err, ErrNotLoggedIn)
	_, err = s.DeleteByHash("AB:1:HI")
	require.ErrorIs(t, err, ErrNotLoggedIn)
	require.ErrorIs(t, s.Logout(), ErrNotLoggedIn)
	require.False(t, s.Status().LoggedIn)
}

func TestCompose_Actions(t *testing.T) {
	f := newFixture(t)
	f.login(t, "kyl_1", "Ch&&sec@ke99!")

	sent, err := f.session.Compose(annaPhone, "Hi Anna, did you get the cake?", ActionSend)
	require.NoError(t, err)
	require.Equal(t, message.StatusSent, sent.Status)
	require.Equal(t, 1, sent.Index)
	require.FileExists(t, f.store.RecordPath(sent.ID))

	stored, err := f.session.Compose(annaPhone, "Draft for later", ActionStore)
	require.NoError(t, err)
	require.Equal(t, message.StatusStored, stored.Status)
	require.Zero(t, stored.Index)
	require.FileExists(t, f.store.RecordPath(stored.ID))

	dropped, err := f.session.Compose(annaPhone, "Never mind", ActionDisregard)
	require.NoError(t, err)
	require.Equal(t, message.StatusDisregarded, dropped.Status)
	require.NoFileExists(t, f.store.RecordPath(dropped.ID))

	lines, err := f.session.Report()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, 1, f.session.TotalSent())
	require.Contains(t, f.session.LastSent(), "Hi Anna, did you get the cake?")
}

func TestCompose_RejectedSendIsNotKept(t *testing.T) {
	f := newFixture(t)
	f.login(t, "kyl_1", "Ch&&sec@ke99!")

	_, err := f.session.Compose("08575975889", "Hi", ActionSend)
	require.ErrorIs(t, err, message.ErrInvalidReceiver)
	require.Equal(t, "Failed to send message: Invalid recipient", err.Error())

	_, err = f.session.Compose(annaPhone, "   ", ActionSend)
	require.ErrorIs(t, err, message.ErrEmptyPayload)

	require.Zero(t, f.session.TotalSent())
	require.Equal(t, "No messages sent", f.session.LastSent())
	require.Zero(t, f.session.Status().LoadedMessages)

	all, err := f.store.LoadAll()
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestInboxAndRead_AcrossLogins(t *testing.T) {
	f := newFixture(t)
	f.login(t, "kyl_1", "Ch&&sec@ke99!")
	m, err := f.session.Compose(annaPhone, "Where are you?", ActionSend)
	require.NoError(t, err)
	require.NoError(t, f.session.Logout())

	res := f.login(t, "ann_2", "Passw0rd!")
	require.Equal(t, 1, res.Loaded)

	inbox, err := f.session.Inbox()
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.True(t, inbox[0].Delivered)
	require.False(t, inbox[0].Read)

	onDisk, err := f.store.Load(m.ID)
	require.NoError(t, err)
	require.True(t, onDisk.Delivered)

	read, err := f.session.Read(m.ID)
	require.NoError(t, err)
	require.True(t, read.Read)

	onDisk, err = f.store.Load(m.ID)
	require.NoError(t, err)
	require.True(t, onDisk.Read)

	_, err = f.session.Read("0000000000")
	require.ErrorIs(t, err, reports.ErrNotFound)
}

func TestRead_OnlyOwnInbox(t *testing.T) {
	f := newFixture(t)
	f.login(t, "kyl_1", "Ch&&sec@ke99!")
	m, err := f.session.Compose(annaPhone, "Not for Kyle to open", ActionSend)
	require.NoError(t, err)

	_, err = f.session.Read(m.ID)
	require.ErrorIs(t, err, reports.ErrNotFound)
}

func TestSentLongestAndSearch(t *testing.T) {
	f := newFixture(t)
	f.login(t, "kyl_1", "Ch&&sec@ke99!")

	_, err := f.session.Compose(annaPhone, "Short one", ActionSend)
	require.NoError(t, err)
	long, err := f.session.Compose(annaPhone, "This is the longest message of them all", ActionSend)
	require.NoError(t, err)
	_, err = f.session.Compose("+27111111111", "A stored draft that is even longer than the others", ActionStore)
	require.NoError(t, err)

	sent, err := f.session.Sent()
	require.NoError(t, err)
	require.Len(t, sent, 2)

	outgoing, err := f.session.Outgoing()
	require.NoError(t, err)
	require.Len(t, outgoing, 3)

	got, ok, err := f.session.Longest()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, long.ID, got.ID)

	byID, err := f.session.SearchByID(long.ID)
	require.NoError(t, err)
	require.Equal(t, long, byID)

	toAnna, err := f.session.SearchByRecipient(annaPhone)
	require.NoError(t, err)
	require.Len(t, toAnna, 2)
}

func TestDeleteByHash(t *testing.T) {
	f := newFixture(t)
	f.login(t, "kyl_1", "Ch&&sec@ke99!")

	m, err := f.session.Compose(annaPhone, "It is dinner time!", ActionSend)
	require.NoError(t, err)

	deleted, err := f.session.DeleteByHash(m.Hash)
	require.NoError(t, err)
	require.Equal(t, m.ID, deleted.ID)
	require.NoFileExists(t, f.store.RecordPath(m.ID))
	require.Zero(t, f.session.Status().LoadedMessages)

	_, err = f.session.DeleteByHash(m.Hash)
	require.ErrorIs(t, err, reports.ErrNotFound)
}

func TestCounterSpansLogins(t *testing.T) {
	f := newFixture(t)
	f.login(t, "kyl_1", "Ch&&sec@ke99!")
	_, err := f.session.Compose(annaPhone, "one", ActionSend)
	require.NoError(t, err)
	require.NoError(t, f.session.Logout())

	f.login(t, "ann_2", "Passw0rd!")
	m, err := f.session.Compose(kylePhone, "two", ActionSend)
	require.NoError(t, err)
	require.Equal(t, 2, m.Index)
	require.Equal(t, 2, f.session.TotalSent())
}

type failingStore struct {
	*message.FileStore
}

func (failingStore) Persist(*message.Message) error { return errors.New("disk full") }

func TestCompose_PersistFailure(t *testing.T) {
	f := newFixture(t)
	f.session = New(f.session.dir, failingStore{f.store}, nil)
	f.login(t, "kyl_1", "Ch&&sec@ke99!")

	_, err := f.session.Compose(annaPhone, "hello", ActionSend)
	require.ErrorContains(t, err, "disk full")
	var sendErr *message.SendError
	require.False(t, errors.As(err, &sendErr))
	require.Equal(t, 1, f.session.TotalSent(), "counter stays advanced")
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	orig := newSessionID
	newSessionID = func() string { return "sess-2" }
	t.Cleanup(func() { newSessionID = orig })

	f.login(t, "kyl_1", "Ch&&sec@ke99!")
	_, err := f.session.Compose(annaPhone, "hello", ActionSend)
	require.NoError(t, err)

	st := f.session.Status()
	require.True(t, st.LoggedIn)
	require.Equal(t, "sess-2", st.SessionID)
	require.Equal(t, "kyl_1", st.Username)
	require.Equal(t, kylePhone, st.Cellphone)
	require.Equal(t, 1, st.LoadedMessages)
	require.Equal(t, 1, st.TotalSent)
}
