package mcp

import "github.com/mark3labs/mcp-go/mcp"

// openHomeTool defines the open_home MCP tool.
var openHomeTool = mcp.NewTool("open_home",
	mcp.WithDescription("Open the configured Pixlet home page in a new browser tab."),
)

// searchTool defines the search MCP tool.
var searchTool = mcp.NewTool("search",
	mcp.WithDescription("Open web search results for a query in a new browser tab."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Text to search for"),
	),
)

// recentHistoryTool defines the recent_history MCP tool.
var recentHistoryTool = mcp.NewTool("recent_history",
	mcp.WithDescription("List recently opened destinations, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of entries to return (default 10)"),
	),
	mcp.WithString("kind",
		mcp.Description("Only return entries of this kind"),
		mcp.Enum("home", "search"),
	),
)

// formatDateTool defines the format_date MCP tool.
var formatDateTool = mcp.NewTool("format_date",
	mcp.WithDescription("Format a date in long US English form, e.g. January 15, 2024."),
	mcp.WithString("date",
		mcp.Required(),
		mcp.Description("Date as YYYY-MM-DD, RFC 3339 or \"YYYY-MM-DD HH:MM:SS\""),
	),
)
