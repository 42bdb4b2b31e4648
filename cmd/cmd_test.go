package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/pixlet/internal/config"
	"github.com/ziadkadry99/pixlet/internal/db"
	"github.com/ziadkadry99/pixlet/internal/history"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// writeConfig saves a config whose data dir lives in a temp directory.
func writeConfig(t *testing.T) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.LogLevel = "error"
	path := filepath.Join(dir, "pixlet.yml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path, cfg
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "pixlet dev\n" {
		t.Errorf("got %q, want %q", out, "pixlet dev\n")
	}
}

func TestHistoryCommands(t *testing.T) {
	path, cfg := writeConfig(t)

	out, err := execute(t, "--config", path, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No history yet") {
		t.Errorf("unexpected output for empty history: %q", out)
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store := history.NewStore(database)
	ctx := context.Background()
	store.Record(ctx, history.Visit{Kind: history.KindHome, URL: "https://pixlet.netlify.app"})
	store.Record(ctx, history.Visit{Kind: history.KindSearch, Query: "gophers", URL: "https://www.google.com/search?q=gophers"})
	database.Close()

	out, err = execute(t, "--config", path, "history", "--kind", "search")
	if err != nil {
		t.Fatalf("history --kind search: %v", err)
	}
	if !strings.Contains(out, "gophers") || strings.Contains(out, "pixlet.netlify.app") {
		t.Errorf("unexpected filtered output: %q", out)
	}

	if _, err := execute(t, "--config", path, "history", "--kind", "bookmark"); err == nil {
		t.Error("expected error for invalid --kind")
	}
	historyKind = ""

	out, err = execute(t, "--config", path, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	if !strings.Contains(out, "Deleted 2 visit(s)") {
		t.Errorf("unexpected clear output: %q", out)
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(path, []byte("search_url: https://www.google.com/search\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--config", path, "history"); err == nil {
		t.Fatal("expected error for a search_url without {query}")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.LogFormat = config.LogFormatJSON
	cfg.LogLevel = "warn"

	logger, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected JSON record, got %q", out)
	}
}
