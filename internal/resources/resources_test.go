package resources

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/HendryAvila/quickchat/internal/app"
	"github.com/HendryAvila/quickchat/internal/message"
	"github.com/HendryAvila/quickchat/internal/users"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*Handler, *app.Session) {
	t.Helper()
	dataDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir, err := users.NewDirectory(users.NewFileStore(dataDir), logger)
	require.NoError(t, err)
	fb, err := dir.Register("kyl_1", "Ch&&sec@ke99!", "+27838968976", "Kyle", "Smith")
	require.NoError(t, err)
	require.True(t, fb.Registered)

	s := app.New(dir, message.NewFileStore(dataDir, logger), logger)
	return NewHandler(s), s
}

func read(t *testing.T, fn func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error), uri string) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	contents, err := fn(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	return tc
}

func TestHandleStatus(t *testing.T) {
	h, s := newHandler(t)
	require.Equal(t, StatusURI, h.StatusResource().URI)

	tc := read(t, h.HandleStatus, StatusURI)
	require.Equal(t, "application/json", tc.MIMEType)

	var st app.Status
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &st))
	require.False(t, st.LoggedIn)
	require.Equal(t, "No messages sent", st.LastSent)

	res, err := s.Login("kyl_1", "Ch&&sec@ke99!")
	require.NoError(t, err)
	require.True(t, res.OK)
	_, err = s.Compose("+27831234567", "Hello", app.ActionSend)
	require.NoError(t, err)

	tc = read(t, h.HandleStatus, StatusURI)
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &st))
	require.True(t, st.LoggedIn)
	require.Equal(t, res.SessionID, st.SessionID)
	require.Equal(t, "kyl_1", st.Username)
	require.Equal(t, 1, st.TotalSent)
	require.Equal(t, 1, st.LoadedMessages)
}

func TestHandleReport(t *testing.T) {
	h, s := newHandler(t)
	require.Equal(t, ReportURI, h.ReportResource().URI)

	tc := read(t, h.HandleReport, ReportURI)
	require.Equal(t, "Error: no user is logged in", tc.Text)

	_, err := s.Login("kyl_1", "Ch&&sec@ke99!")
	require.NoError(t, err)
	_, err = s.Compose("+27831234567", "Stored for later", app.ActionStore)
	require.NoError(t, err)

	tc = read(t, h.HandleReport, ReportURI)
	require.Contains(t, tc.Text, "Message: Stored for later")
	require.Contains(t, tc.Text, "Status: Stored")
}
