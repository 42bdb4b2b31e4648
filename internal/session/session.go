package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pixlet/internal/bootstrap"
	"github.com/ziadkadry99/pixlet/internal/dom"
)

var (
	// ErrNotConnected means the page has no live socket to receive effects.
	ErrNotConnected = errors.New("page is not connected")
	// ErrAlreadyConnected rejects a second socket for the same page.
	ErrAlreadyConnected = errors.New("page already has a connection")
)

const writeTimeout = 10 * time.Second

// Session is one page load: its document, its bootstrap and, once the
// page's script connects, its socket.
type Session struct {
	id        string
	createdAt time.Time
	doc       *dom.Document
	boot      *bootstrap.Bootstrap
	logger    *slog.Logger

	mu       sync.Mutex
	conn     *websocket.Conn
	attached bool
	lastSeen time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Document returns the page's document.
func (s *Session) Document() *dom.Document { return s.doc }

// Bootstrap returns the page's bootstrap.
func (s *Session) Bootstrap() *bootstrap.Bootstrap { return s.boot }

// CreatedAt returns when the page was built.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastSeen returns the time of the last activity on the page.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Connected reports whether a socket is attached.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// attach binds conn to the session. It reports whether this was the first
// connection the page ever made.
func (s *Session) attach(conn *websocket.Conn, now time.Time) (first bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return false, ErrAlreadyConnected
	}
	first = !s.attached
	s.conn = conn
	s.attached = true
	s.lastSeen = now
	return first, nil
}

// detach releases the socket. The page stays registered and may
// reconnect until it is pruned.
func (s *Session) detach(now time.Time) {
	s.mu.Lock()
	s.conn = nil
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) everAttached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// send writes one message to the page. Writes are serialized.
func (s *Session) send(msg serverMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotConnected
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("writing %s message: %w", msg.Type, err)
	}
	return nil
}

// Open asks the page to open rawURL in a new tab.
func (s *Session) Open(ctx context.Context, rawURL string) error {
	return s.send(serverMessage{Type: msgOpen, URL: rawURL})
}

// ReportValidationError shows a validation message on the page.
func (s *Session) ReportValidationError(message string) {
	s.deliver(serverMessage{Type: msgValidation, Message: message})
}

// ReportNavigationFailure tells the page a destination could not be opened.
func (s *Session) ReportNavigationFailure(err error) {
	s.deliver(serverMessage{Type: msgError, Message: userMessage(err)})
}

// ShowSuggestions replaces the page's suggestion list.
func (s *Session) ShowSuggestions(items []string) {
	s.deliver(serverMessage{Type: msgSuggestions, Items: items})
}

func (s *Session) deliver(msg serverMessage) {
	if err := s.send(msg); err != nil {
		s.logger.Warn("delivering message", "session", s.id, "type", msg.Type, "error", err)
	}
}

// close stops background work owned by the page.
func (s *Session) close() {
	s.boot.Close()
	s.mu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.mu.Unlock()
}
