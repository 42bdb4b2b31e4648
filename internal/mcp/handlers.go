package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/pixlet/internal/history"
	"github.com/ziadkadry99/pixlet/internal/navigation"
	"github.com/ziadkadry99/pixlet/internal/util"
)

// handleOpenHome opens the home destination.
func (s *Server) handleOpenHome(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.nav.OpenHome(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not open home page: %v", err)), nil
	}
	return mcp.NewToolResultText("Opened " + s.nav.HomeURL()), nil
}

// handleSearch opens search results for the query.
func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	if err := s.nav.Search(ctx, query); err != nil {
		if errors.Is(err, navigation.ErrEmptyQuery) {
			return mcp.NewToolResultError("query must not be blank"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("could not open search: %v", err)), nil
	}

	dest, _ := s.nav.SearchURL(query)
	return mcp.NewToolResultText("Opened " + dest), nil
}

// handleRecentHistory lists recent visits.
func (s *Server) handleRecentHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.history == nil {
		return mcp.NewToolResultError("history is not available"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	filter := history.ListFilter{Limit: limit}
	if kind := request.GetString("kind", ""); kind != "" {
		filter.Kind = history.Kind(kind)
		if !filter.Kind.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("invalid kind %q: must be home or search", kind)), nil
		}
	}

	visits, err := s.history.List(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing history failed: %v", err)), nil
	}
	if len(visits) == 0 {
		return mcp.NewToolResultText("No history yet."), nil
	}

	return mcp.NewToolResultText(formatVisits(visits)), nil
}

// handleFormatDate formats a date string.
func (s *Server) handleFormatDate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := request.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: date"), nil
	}

	formatted, err := util.ParseAndFormatDate(date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatted), nil
}

// formatVisits renders visits as a readable list.
func formatVisits(visits []history.Visit) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d recent visit(s):\n", len(visits)))

	for _, v := range visits {
		day, err := util.FormatDate(v.VisitedAt)
		if err != nil {
			day = "unknown date"
		}
		sb.WriteString(fmt.Sprintf("\n- %s %s %s", day, v.VisitedAt.Format("15:04"), v.Kind))
		if v.Query != "" {
			sb.WriteString(fmt.Sprintf(" %q", v.Query))
		}
		sb.WriteString(fmt.Sprintf(" -> %s", v.URL))
		if v.Status == history.StatusFailed {
			sb.WriteString(fmt.Sprintf(" (failed: %s)", v.Error))
		}
	}
	sb.WriteString("\n")
	return sb.String()
}
