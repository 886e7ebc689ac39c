package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/figscan/pkg/export"
	"github.com/gnana997/figscan/pkg/identity"
	"github.com/gnana997/figscan/pkg/scan"
	"github.com/gnana997/figscan/pkg/store"
)

func (s *Server) handleStartScan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target := identity.Target{
		ContentKey:  req.GetString("content_key", ""),
		StableID:    req.GetString("stable_id", ""),
		DisplayName: req.GetString("name", ""),
	}
	if target.ContentKey == "" && target.StableID == "" && target.DisplayName == "" {
		return toolError(fmt.Errorf("target identity required: provide content_key, stable_id, or name"))
	}

	var (
		sess *scan.Session
		err  error
	)
	switch req.GetString("scope", "") {
	case string(scan.ScopeFileList):
		keys := splitKeys(req.GetString("file_keys", ""))
		if len(keys) == 0 {
			return toolError(fmt.Errorf("file_keys is required for scope 'files'"))
		}
		sess, err = s.orch.ScanFiles(ctx, target, keys)

	case string(scan.ScopeProject):
		projectID := req.GetString("project_id", "")
		if projectID == "" {
			return toolError(fmt.Errorf("project_id is required for scope 'project'"))
		}
		sess, err = s.orch.ScanProject(ctx, target, projectID)

	default:
		return toolError(fmt.Errorf("scope must be 'files' or 'project'"))
	}

	if err != nil {
		return toolError(err)
	}

	if sess.Persistable() {
		if putErr := s.store.Put(sess); putErr != nil {
			s.log.Warn("failed to persist session", "session", sess.ID, "error", putErr)
		}
	}

	return mcp.NewToolResultText(summarize(sess)), nil
}

func (s *Server) handleCancelScan(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.orch.Cancel()
	return mcp.NewToolResultText("cancellation requested"), nil
}

func (s *Server) handleListSessions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := s.store.ListAll()
	if err != nil {
		return toolError(err)
	}
	if len(sessions) == 0 {
		return mcp.NewToolResultText("No stored sessions."), nil
	}

	var sb strings.Builder
	for _, sess := range sessions {
		fmt.Fprintf(&sb, "%s  %s  %s  %q  %d instances\n",
			sess.ID,
			sess.StartedAt.Format("2006-01-02 15:04:05"),
			sess.State,
			sess.Target.DisplayName,
			sess.TotalInstances())
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetSession(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.lookup(req.GetString("session_id", ""))
	if err != nil {
		return toolError(err)
	}
	out, err := export.ToStructured(sess)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleExportSession(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := export.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return toolError(err)
	}
	sess, err := s.lookup(req.GetString("session_id", ""))
	if err != nil {
		return toolError(err)
	}
	out, err := export.Export(sess, format)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(out), nil
}

// lookup resolves a session id, defaulting to the most recent session.
func (s *Server) lookup(id string) (*scan.Session, error) {
	if id == "" {
		sess, err := s.store.Latest()
		if err == store.ErrNotFound {
			return nil, fmt.Errorf("no stored sessions")
		}
		return sess, err
	}
	return s.store.Get(id)
}

func summarize(sess *scan.Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Session %s: %s\n", sess.ID, sess.State)
	fmt.Fprintf(&sb, "Instances found: %d\n", sess.TotalInstances())
	fmt.Fprintf(&sb, "Files scanned: %d", sess.FilesScanned)
	if sess.FilesSkipped > 0 {
		fmt.Fprintf(&sb, " (%d skipped)", sess.FilesSkipped)
	}
	fmt.Fprintf(&sb, "\nDuration: %dms\n", sess.DurationMs)
	return sb.String()
}

func splitKeys(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
