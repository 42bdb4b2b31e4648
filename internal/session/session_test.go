package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pixlet/internal/bootstrap"
	"github.com/ziadkadry99/pixlet/internal/db"
	"github.com/ziadkadry99/pixlet/internal/history"
	"github.com/ziadkadry99/pixlet/internal/navigation"
)

const (
	homeURL   = "https://pixlet.netlify.app"
	searchURL = "https://www.google.com/search?q={query}"
)

type testEnv struct {
	manager *Manager
	store   *history.Store
	server  *httptest.Server
}

func setup(t *testing.T, cfg Config) *testEnv {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := history.NewStore(database)

	nav, err := navigation.New(navigation.Config{
		HomeURL:      homeURL,
		SearchURL:    searchURL,
		AllowedHosts: []string{"pixlet.netlify.app", "*.google.com"},
	}, nil, navigation.WithRecorder(store))
	if err != nil {
		t.Fatalf("navigation.New: %v", err)
	}

	if cfg.Page.Greeting == "" {
		cfg.Page = bootstrap.DefaultOptions()
	}
	m := NewManager(cfg, nav, WithSuggester(store))

	r := chi.NewRouter()
	m.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{manager: m, store: store, server: srv}
}

func (e *testEnv) dial(t *testing.T, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws/session/" + id
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial %s: %v (status %d)", id, err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) serverMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var msg serverMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, msg clientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
}

func TestClickOpensHome(t *testing.T) {
	env := setup(t, Config{})
	s, err := env.manager.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Bootstrap().State() != bootstrap.Interactive {
		t.Fatalf("page state = %s", s.Bootstrap().State())
	}

	conn := env.dial(t, s.ID())
	send(t, conn, clientMessage{Type: msgEvent, Event: "click", Target: s.Bootstrap().PrimaryAction().ID()})

	msg := read(t, conn)
	if msg.Type != msgOpen || msg.URL != homeURL {
		t.Fatalf("expected open %s, got %+v", homeURL, msg)
	}

	visits, _ := env.store.List(context.Background(), history.ListFilter{Kind: history.KindHome})
	if len(visits) != 1 {
		t.Errorf("expected one recorded home visit, got %d", len(visits))
	}
}

func TestSubmitSearch(t *testing.T) {
	env := setup(t, Config{})
	s, _ := env.manager.Create()
	conn := env.dial(t, s.ID())
	boot := s.Bootstrap()

	send(t, conn, clientMessage{
		Type:   msgEvent,
		Event:  "submit",
		Target: boot.SearchForm().ID(),
		Fields: map[string]string{boot.SearchField().ID(): "  go tips "},
	})
	msg := read(t, conn)
	if msg.Type != msgOpen || msg.URL != "https://www.google.com/search?q=go+tips" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestSubmitBlankSearch(t *testing.T) {
	env := setup(t, Config{})
	s, _ := env.manager.Create()
	conn := env.dial(t, s.ID())
	boot := s.Bootstrap()

	send(t, conn, clientMessage{
		Type:   msgEvent,
		Event:  "submit",
		Target: boot.SearchForm().ID(),
		Fields: map[string]string{boot.SearchField().ID(): " \t "},
	})
	msg := read(t, conn)
	if msg.Type != msgValidation || msg.Message != bootstrap.EmptyQueryMessage {
		t.Fatalf("unexpected message %+v", msg)
	}

	if n, _ := env.store.Count(context.Background()); n != 0 {
		t.Errorf("blank search recorded %d visits", n)
	}
}

func TestBadMessages(t *testing.T) {
	env := setup(t, Config{})
	s, _ := env.manager.Create()
	conn := env.dial(t, s.ID())

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := read(t, conn); msg.Type != msgError || msg.Message != "invalid message format" {
		t.Errorf("unexpected reply to bad JSON %+v", msg)
	}

	send(t, conn, clientMessage{Type: "ping"})
	if msg := read(t, conn); msg.Type != msgError || !strings.Contains(msg.Message, "unknown message type") {
		t.Errorf("unexpected reply to unknown type %+v", msg)
	}

	send(t, conn, clientMessage{Type: msgEvent, Event: "click", Target: "id-nothing"})
	if msg := read(t, conn); msg.Type != msgError || !strings.Contains(msg.Message, "unknown event target") {
		t.Errorf("unexpected reply to unknown target %+v", msg)
	}
}

func TestAutoOpenHomeOnConnect(t *testing.T) {
	env := setup(t, Config{AutoOpenHome: true})
	s, _ := env.manager.Create()

	conn := env.dial(t, s.ID())
	msg := read(t, conn)
	if msg.Type != msgOpen || msg.URL != homeURL {
		t.Fatalf("expected auto-open of home, got %+v", msg)
	}
}

func TestSuggestions(t *testing.T) {
	cfg := Config{Page: bootstrap.DefaultOptions()}
	cfg.Page.SuggestDelay = 10 * time.Millisecond
	env := setup(t, cfg)

	_, _ = env.store.Record(context.Background(), history.Visit{Kind: history.KindSearch, Query: "gophers", URL: "u"})

	s, _ := env.manager.Create()
	conn := env.dial(t, s.ID())
	field := s.Bootstrap().SearchField().ID()

	send(t, conn, clientMessage{Type: msgEvent, Event: "input", Target: field, Value: "g"})
	send(t, conn, clientMessage{Type: msgEvent, Event: "input", Target: field, Value: "goph"})

	msg := read(t, conn)
	if msg.Type != msgSuggestions || len(msg.Items) != 1 || msg.Items[0] != "gophers" {
		t.Fatalf("unexpected suggestions %+v", msg)
	}
}

func TestUnknownSessionSocket(t *testing.T) {
	env := setup(t, Config{})
	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/session/id-missing"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %v", resp)
	}
}

func TestSecondConnectionRejected(t *testing.T) {
	env := setup(t, Config{})
	s, _ := env.manager.Create()
	_ = env.dial(t, s.ID())

	// Wait for the first socket to be attached.
	deadline := time.Now().Add(2 * time.Second)
	for !s.Connected() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/session/" + s.ID()
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected second dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %v", resp)
	}
}

func waitConnected(t *testing.T, s *Session, want bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Connected() != want && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Connected() != want {
		t.Fatalf("Connected() = %v, want %v", !want, want)
	}
}

func TestReconnectAfterDisconnect(t *testing.T) {
	env := setup(t, Config{AutoOpenHome: true})
	s, _ := env.manager.Create()

	conn := env.dial(t, s.ID())
	if msg := read(t, conn); msg.Type != msgOpen || msg.URL != homeURL {
		t.Fatalf("expected auto-open of home, got %+v", msg)
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitConnected(t, s, false)

	if _, err := env.manager.Get(s.ID()); err != nil {
		t.Fatalf("session should survive a disconnect: %v", err)
	}

	// The first message after reconnecting answers the submit; home is
	// not opened a second time.
	conn = env.dial(t, s.ID())
	boot := s.Bootstrap()
	send(t, conn, clientMessage{
		Type:   msgEvent,
		Event:  "submit",
		Target: boot.SearchForm().ID(),
		Fields: map[string]string{boot.SearchField().ID(): "gophers"},
	})
	msg := read(t, conn)
	if msg.Type != msgOpen || msg.URL != "https://www.google.com/search?q=gophers" {
		t.Fatalf("unexpected message after reconnect %+v", msg)
	}
	if n, _ := env.store.Count(context.Background()); n != 2 {
		t.Errorf("expected 2 visits, got %d", n)
	}
}

func TestOpenWithoutConnection(t *testing.T) {
	env := setup(t, Config{})
	s, _ := env.manager.Create()

	if err := s.Open(context.Background(), homeURL); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	env := setup(t, Config{TTL: time.Minute, ConnectGrace: time.Hour})
	m := env.manager

	start := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	a, _ := m.Create()
	b, _ := m.Create()
	b.touch(start.Add(50 * time.Second))

	if n := m.Prune(start.Add(30 * time.Second)); n != 0 {
		t.Errorf("nothing should be pruned yet, pruned %d", n)
	}
	if n := m.Prune(start.Add(90 * time.Second)); n != 1 {
		t.Errorf("expected 1 pruned session, got %d", n)
	}
	if _, err := m.Get(a.ID()); !errors.Is(err, ErrNotFound) {
		t.Error("expected idle session to be gone")
	}
	if _, err := m.Get(b.ID()); err != nil {
		t.Errorf("recently active session should remain: %v", err)
	}
}

func TestPruneNeverConnected(t *testing.T) {
	env := setup(t, Config{TTL: time.Hour, ConnectGrace: 10 * time.Second})
	m := env.manager

	idle, _ := m.Create()
	used, _ := m.Create()
	conn := env.dial(t, used.ID())
	waitConnected(t, used, true)
	conn.Close()
	waitConnected(t, used, false)

	if n := m.Prune(time.Now().Add(30 * time.Second)); n != 1 {
		t.Errorf("expected 1 pruned session, got %d", n)
	}
	if _, err := m.Get(idle.ID()); !errors.Is(err, ErrNotFound) {
		t.Error("page that never connected should be gone")
	}
	if _, err := m.Get(used.ID()); err != nil {
		t.Errorf("disconnected page within TTL should remain: %v", err)
	}
}

func TestCreateAtCapacity(t *testing.T) {
	env := setup(t, Config{MaxSessions: 2})
	m := env.manager

	oldest, _ := m.Create()
	newer, _ := m.Create()
	oldest.touch(time.Now().Add(-time.Minute))

	if _, err := m.Create(); err != nil {
		t.Fatalf("Create at capacity should evict: %v", err)
	}
	if _, err := m.Get(oldest.ID()); !errors.Is(err, ErrNotFound) {
		t.Error("least recently seen page should be evicted")
	}
	if _, err := m.Get(newer.ID()); err != nil {
		t.Errorf("newer page should remain: %v", err)
	}

	for _, id := range m.ids() {
		s, _ := m.Get(id)
		_ = env.dial(t, id)
		waitConnected(t, s, true)
	}
	if _, err := m.Create(); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("expected ErrTooManySessions, got %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", m.Len())
	}
}

func TestRunClosesSessionsOnCancel(t *testing.T) {
	env := setup(t, Config{})
	_, _ = env.manager.Create()
	_, _ = env.manager.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.manager.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if env.manager.Len() != 0 {
		t.Errorf("expected all sessions closed, %d left", env.manager.Len())
	}
}

func TestUserMessage(t *testing.T) {
	notAllowed := &navigation.Error{Kind: history.KindHome, Err: navigation.ErrHostNotAllowed}
	if got := userMessage(notAllowed); got != "That destination is not allowed." {
		t.Errorf("userMessage(not allowed) = %q", got)
	}
	if got := userMessage(errors.New("boom")); !strings.Contains(got, "try again") {
		t.Errorf("userMessage(other) = %q", got)
	}
}
