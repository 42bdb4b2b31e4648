package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/pixlet/internal/db"
	"github.com/ziadkadry99/pixlet/internal/history"
	"github.com/ziadkadry99/pixlet/internal/navigation"
)

// recordingOpener collects opened URLs instead of launching a browser.
type recordingOpener struct {
	opened []string
	err    error
}

func (o *recordingOpener) Open(_ context.Context, rawURL string) error {
	if o.err != nil {
		return o.err
	}
	o.opened = append(o.opened, rawURL)
	return nil
}

func setupServer(t *testing.T) (*Server, *recordingOpener, *history.Store) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := history.NewStore(database)

	opener := &recordingOpener{}
	nav, err := navigation.New(navigation.Config{
		HomeURL:      "https://pixlet.netlify.app",
		SearchURL:    "https://www.google.com/search?q={query}",
		AllowedHosts: []string{"pixlet.netlify.app", "*.google.com"},
	}, opener, navigation.WithRecorder(store))
	if err != nil {
		t.Fatalf("navigation.New: %v", err)
	}

	return NewServer(nav, store), opener, store
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"open_home", openHomeTool, "open_home"},
		{"search", searchTool, "search"},
		{"recent_history", recentHistoryTool, "recent_history"},
		{"format_date", formatDateTool, "format_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, _, store := setupServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.history != store {
		t.Error("history store not set correctly")
	}
}

func TestHandleOpenHome(t *testing.T) {
	srv, opener, store := setupServer(t)
	ctx := context.Background()

	result, err := srv.handleOpenHome(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}
	if len(opener.opened) != 1 || opener.opened[0] != "https://pixlet.netlify.app" {
		t.Errorf("opened = %v", opener.opened)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("expected 1 recorded visit, got %d", n)
	}

	t.Run("opener failure", func(t *testing.T) {
		opener.err = errors.New("no display")
		defer func() { opener.err = nil }()

		result, err := srv.handleOpenHome(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error when the browser cannot be opened")
		}
	})
}

func TestHandleSearch(t *testing.T) {
	srv, opener, _ := setupServer(t)
	ctx := context.Background()

	t.Run("query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "go tips"}

		result, err := srv.handleSearch(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		want := "https://www.google.com/search?q=go+tips"
		if !strings.Contains(resultText(t, result), want) {
			t.Errorf("result should mention %s", want)
		}
		if len(opener.opened) != 1 || opener.opened[0] != want {
			t.Errorf("opened = %v", opener.opened)
		}
	})

	t.Run("blank query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "   "}

		result, err := srv.handleSearch(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for blank query")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearch(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleRecentHistory(t *testing.T) {
	srv, _, _ := setupServer(t)
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		result, err := srv.handleRecentHistory(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if resultText(t, result) != "No history yet." {
			t.Errorf("unexpected text %q", resultText(t, result))
		}
	})

	_ = srv.nav.OpenHome(ctx)
	_ = srv.nav.Search(ctx, "gophers")

	t.Run("filtered", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"kind": "search", "limit": 5}

		result, err := srv.handleRecentHistory(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, "1 recent visit(s)") || !strings.Contains(text, `"gophers"`) {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("invalid kind", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"kind": "bookmark"}

		result, err := srv.handleRecentHistory(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for invalid kind")
		}
	})

	t.Run("no store", func(t *testing.T) {
		bare := NewServer(srv.nav, nil)
		result, err := bare.handleRecentHistory(ctx, mcp.CallToolRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error without a history store")
		}
	})
}

func TestHandleFormatDate(t *testing.T) {
	srv, _, _ := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2024-01-15", "January 15, 2024", false},
		{"2023-12-25T08:30:00Z", "December 25, 2023", false},
		{"15/01/2024", "", true},
	}
	for _, tt := range tests {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"date": tt.input}

		result, err := srv.handleFormatDate(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError != tt.wantErr {
			t.Errorf("format_date(%q) IsError = %v, want %v", tt.input, result.IsError, tt.wantErr)
			continue
		}
		if !tt.wantErr && resultText(t, result) != tt.want {
			t.Errorf("format_date(%q) = %q, want %q", tt.input, resultText(t, result), tt.want)
		}
	}
}
