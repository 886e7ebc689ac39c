package mcp

import "github.com/mark3labs/mcp-go/mcp"

func startScanTool() mcp.Tool {
	return mcp.NewTool("start_scan",
		mcp.WithDescription("Scan Figma files for usages of a component. Scope 'files' scans an explicit list of file keys; scope 'project' discovers and scans every file in a project. Returns a summary with the session id."),
		mcp.WithString("scope",
			mcp.Description("Scan scope: 'files' or 'project'"),
			mcp.Required(),
		),
		mcp.WithString("content_key",
			mcp.Description("The target component's cross-file content key (preferred identity)"),
		),
		mcp.WithString("stable_id",
			mcp.Description("The target component's node id within its defining file"),
		),
		mcp.WithString("name",
			mcp.Description("The target component's display name (low-confidence fallback identity)"),
		),
		mcp.WithString("file_keys",
			mcp.Description("Comma-separated file keys (scope 'files')"),
		),
		mcp.WithString("project_id",
			mcp.Description("Project id to discover files from (scope 'project')"),
		),
	)
}

func cancelScanTool() mcp.Tool {
	return mcp.NewTool("cancel_scan",
		mcp.WithDescription("Cancel the scan currently in progress. Records collected so far are kept as a valid partial result. No-op when no scan is running."),
	)
}

func listSessionsTool() mcp.Tool {
	return mcp.NewTool("list_sessions",
		mcp.WithDescription("List stored scan sessions, newest first."),
	)
}

func getSessionTool() mcp.Tool {
	return mcp.NewTool("get_session",
		mcp.WithDescription("Get one stored scan session as JSON."),
		mcp.WithString("session_id",
			mcp.Description("Session id. Omit for the most recent session."),
		),
	)
}

func exportSessionTool() mcp.Tool {
	return mcp.NewTool("export_session",
		mcp.WithDescription("Export a stored scan session as json, csv, or html."),
		mcp.WithString("format",
			mcp.Description("Export format: json, csv, or html"),
			mcp.Required(),
		),
		mcp.WithString("session_id",
			mcp.Description("Session id. Omit for the most recent session."),
		),
	)
}
