package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/figscan/pkg/identity"
	"github.com/gnana997/figscan/pkg/scan"
	"github.com/gnana997/figscan/pkg/store"
	"github.com/gnana997/figscan/pkg/traverse"
)

// --- helpers ---

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.New(store.NewMemKV(), 0, nil)
	orch := scan.New(nil, scan.Config{})
	return NewServer(orch, st, nil)
}

func storedSession(id string, offset time.Duration) *scan.Session {
	return &scan.Session{
		ID:        id,
		Target:    identity.Target{ContentKey: "btn-key", DisplayName: "Button"},
		Scope:     scan.ScopeFileList,
		State:     scan.StateComplete,
		StartedAt: time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC).Add(offset),
		Records: []traverse.Occurrence{
			{FileName: "Design", FileKey: "f1", PageName: "Page 1", NodeID: "3:1", Kind: traverse.KindDirect},
		},
	}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

// --- start_scan ---

func TestHandleStartScan_RequiresIdentity(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleStartScan(context.Background(), callRequest(map[string]any{
		"scope": "files", "file_keys": "f1",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "target identity required")
}

func TestHandleStartScan_RequiresKnownScope(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleStartScan(context.Background(), callRequest(map[string]any{
		"content_key": "btn-key", "scope": "galaxy",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "scope must be")
}

func TestHandleStartScan_FilesScopeRequiresKeys(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleStartScan(context.Background(), callRequest(map[string]any{
		"content_key": "btn-key", "scope": "files",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "file_keys is required")
}

func TestHandleStartScan_ProjectScopeRequiresID(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleStartScan(context.Background(), callRequest(map[string]any{
		"content_key": "btn-key", "scope": "project",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "project_id is required")
}

func TestHandleStartScan_MissingTokenSurfacesAsToolError(t *testing.T) {
	// Orchestrator has no client, so any remote scope fails before fetching.
	s := newTestServer(t)
	res, err := s.handleStartScan(context.Background(), callRequest(map[string]any{
		"content_key": "btn-key", "scope": "files", "file_keys": "f1, f2",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), scan.ErrMissingToken.Error())
}

// --- cancel_scan ---

func TestHandleCancelScan(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleCancelScan(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "cancellation requested")
}

// --- list_sessions ---

func TestHandleListSessions_Empty(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleListSessions(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "No stored sessions.")
}

func TestHandleListSessions(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Put(storedSession("sess-a", 0)))
	require.NoError(t, s.store.Put(storedSession("sess-b", time.Minute)))

	res, err := s.handleListSessions(context.Background(), callRequest(nil))
	require.NoError(t, err)
	out := resultText(t, res)
	assert.Contains(t, out, "sess-a")
	assert.Contains(t, out, "sess-b")
	assert.Contains(t, out, "1 instances")
}

// --- get_session ---

func TestHandleGetSession_ByID(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Put(storedSession("sess-a", 0)))

	res, err := s.handleGetSession(context.Background(), callRequest(map[string]any{
		"session_id": "sess-a",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"sessionId": "sess-a"`)
}

func TestHandleGetSession_DefaultsToLatest(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Put(storedSession("sess-a", 0)))
	require.NoError(t, s.store.Put(storedSession("sess-b", time.Minute)))

	res, err := s.handleGetSession(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"sessionId": "sess-b"`)
}

func TestHandleGetSession_EmptyStore(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleGetSession(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no stored sessions")
}

// --- export_session ---

func TestHandleExportSession_CSV(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Put(storedSession("sess-a", 0)))

	res, err := s.handleExportSession(context.Background(), callRequest(map[string]any{
		"format": "csv",
	}))
	require.NoError(t, err)
	out := resultText(t, res)
	assert.Contains(t, out, `"File","File Key"`)
	assert.Contains(t, out, `"3:1"`)
}

func TestHandleExportSession_BadFormat(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Put(storedSession("sess-a", 0)))

	res, err := s.handleExportSession(context.Background(), callRequest(map[string]any{
		"format": "xml",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "unknown export format")
}

// --- helpers under test ---

func TestSplitKeys(t *testing.T) {
	assert.Equal(t, []string{"f1", "f2"}, splitKeys("f1, f2"))
	assert.Equal(t, []string{"f1"}, splitKeys("f1"))
	assert.Nil(t, splitKeys(""))
	assert.Nil(t, splitKeys(" , ,"))
}

func TestSummarize(t *testing.T) {
	sess := storedSession("sess-a", 0)
	sess.FilesScanned = 3
	sess.FilesSkipped = 1
	sess.DurationMs = 1200

	out := summarize(sess)
	assert.Contains(t, out, "Session sess-a: complete")
	assert.Contains(t, out, "Instances found: 1")
	assert.Contains(t, out, "Files scanned: 3 (1 skipped)")
	assert.Contains(t, out, "Duration: 1200ms")
}
