// Package shell serves the browser-facing pages: the start page, its
// client script, the no-script navigation fallbacks and the about page.
package shell

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/pixlet/internal/navigation"
	"github.com/ziadkadry99/pixlet/internal/session"
)

//go:embed client.js
var clientJS []byte

// Shell holds the page handlers.
type Shell struct {
	sessions *session.Manager
	nav      *navigation.Navigator
	logger   *slog.Logger
	title    string
	homeText string

	page  *template.Template
	about []byte
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithTitle sets the document title of the start page.
func WithTitle(title string) Option {
	return func(s *Shell) { s.title = title }
}

// New creates a Shell. The about page is rendered once here.
func New(sessions *session.Manager, nav *navigation.Navigator, opts ...Option) (*Shell, error) {
	s := &Shell{
		sessions: sessions,
		nav:      nav,
		logger:   slog.Default(),
		title:    "Pixlet",
		homeText: "Open the Pixlet home page",
	}
	for _, opt := range opts {
		opt(s)
	}

	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	s.page = page

	about, err := renderAbout(s.title)
	if err != nil {
		return nil, err
	}
	s.about = about
	return s, nil
}

// RegisterRoutes mounts the page routes and the session socket.
func (s *Shell) RegisterRoutes(r chi.Router) {
	r.Get("/", s.ServePage)
	r.Get("/static/client.js", s.serveClient)
	r.Get("/go/home", s.goHome)
	r.Get("/go/search", s.goSearch)
	r.Get("/about", s.serveAbout)
	s.sessions.RegisterRoutes(r)
}

type pageData struct {
	Title     string
	SessionID string
	HomeLabel string
	Content   template.HTML
}

// ServePage builds a new page session and renders its document.
func (s *Shell) ServePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if errors.Is(err, session.ErrTooManySessions) {
		s.logger.Warn("refusing page, session limit reached")
		http.Error(w, "too many open pages, try again later", http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		s.logger.Error("creating page session", "error", err)
		http.Error(w, "could not build page", http.StatusInternalServerError)
		return
	}

	content, err := sess.Document().RenderString()
	if err != nil {
		s.sessions.Remove(sess.ID())
		s.logger.Error("rendering page", "session", sess.ID(), "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = s.page.Execute(&buf, pageData{
		Title:     s.title,
		SessionID: sess.ID(),
		HomeLabel: s.homeText,
		Content:   template.HTML(content),
	})
	if err != nil {
		s.sessions.Remove(sess.ID())
		s.logger.Error("executing page template", "session", sess.ID(), "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (s *Shell) serveClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write(clientJS)
}

func (s *Shell) serveAbout(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.about)
}
