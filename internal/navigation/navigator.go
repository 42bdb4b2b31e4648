// Package navigation turns "open home" and "search for q" into concrete
// destinations and hands them to an Opener.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/pixlet/internal/history"
)

// QueryPlaceholder marks where the encoded query goes in a search URL template.
const QueryPlaceholder = "{query}"

var (
	ErrEmptyQuery      = errors.New("search query is empty")
	ErrHostNotAllowed  = errors.New("destination host is not allowed")
	ErrNoOpener        = errors.New("no opener configured")
	ErrInvalidTemplate = errors.New("search url must contain " + QueryPlaceholder)
)

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(ctx context.Context, rawURL string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, rawURL string) error

func (f OpenerFunc) Open(ctx context.Context, rawURL string) error { return f(ctx, rawURL) }

// Recorder persists navigation attempts.
type Recorder interface {
	Record(ctx context.Context, v history.Visit) (*history.Visit, error)
}

// Config holds the destinations the navigator owns.
type Config struct {
	HomeURL      string
	SearchURL    string
	AllowedHosts []string
}

// Error is a navigation failure.
type Error struct {
	Kind history.Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("opening %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("opening %s destination %s: %v", e.Kind, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Navigator implements the page's navigation collaborator.
type Navigator struct {
	cfg      Config
	opener   Opener
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithRecorder records every attempt.
func WithRecorder(r Recorder) Option {
	return func(n *Navigator) { n.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) { n.logger = l }
}

// New validates cfg and returns a Navigator that opens through opener.
func New(cfg Config, opener Opener, opts ...Option) (*Navigator, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	n := &Navigator{
		cfg:    cfg,
		opener: opener,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// ValidateConfig checks the destinations and allowlist patterns. Both
// destinations must pass the allowlist.
func ValidateConfig(cfg Config) error {
	if err := validateAbsURL(cfg.HomeURL); err != nil {
		return fmt.Errorf("home url: %w", err)
	}
	if !strings.Contains(cfg.SearchURL, QueryPlaceholder) {
		return fmt.Errorf("search url %q: %w", cfg.SearchURL, ErrInvalidTemplate)
	}
	sample := strings.ReplaceAll(cfg.SearchURL, QueryPlaceholder, "q")
	if err := validateAbsURL(sample); err != nil {
		return fmt.Errorf("search url: %w", err)
	}
	for _, p := range cfg.AllowedHosts {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("allowed host pattern %q is malformed", p)
		}
	}
	if !hostAllowed(cfg.AllowedHosts, cfg.HomeURL) {
		return fmt.Errorf("home url %q: %w by allowed_hosts", cfg.HomeURL, ErrHostNotAllowed)
	}
	if !hostAllowed(cfg.AllowedHosts, sample) {
		return fmt.Errorf("search url %q: %w by allowed_hosts", cfg.SearchURL, ErrHostNotAllowed)
	}
	return nil
}

func validateAbsURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// WithOpener returns a copy of n that opens through o.
func (n *Navigator) WithOpener(o Opener) *Navigator {
	c := *n
	c.opener = o
	return &c
}

// HomeURL returns the configured home destination.
func (n *Navigator) HomeURL() string { return n.cfg.HomeURL }

// SearchURL returns the destination for query, trimmed and URL-encoded.
func (n *Navigator) SearchURL(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return strings.ReplaceAll(n.cfg.SearchURL, QueryPlaceholder, url.QueryEscape(q)), nil
}

// OpenHome opens the home destination.
func (n *Navigator) OpenHome(ctx context.Context) error {
	return n.open(ctx, history.KindHome, "", n.cfg.HomeURL)
}

// Search opens the search results for query.
func (n *Navigator) Search(ctx context.Context, query string) error {
	dest, err := n.SearchURL(query)
	if err != nil {
		return &Error{Kind: history.KindSearch, Err: err}
	}
	return n.open(ctx, history.KindSearch, strings.TrimSpace(query), dest)
}

// Allowed reports whether rawURL's host matches the allowlist.
// An empty allowlist allows every host.
func (n *Navigator) Allowed(rawURL string) bool {
	return hostAllowed(n.cfg.AllowedHosts, rawURL)
}

func hostAllowed(patterns []string, rawURL string) bool {
	if len(patterns) == 0 {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.ToLower(p), host); ok {
			return true
		}
	}
	return false
}

func (n *Navigator) open(ctx context.Context, kind history.Kind, query, dest string) error {
	var err error
	switch {
	case !n.Allowed(dest):
		err = ErrHostNotAllowed
	case n.opener == nil:
		err = ErrNoOpener
	default:
		err = n.opener.Open(ctx, dest)
	}

	visit := history.Visit{Kind: kind, Query: query, URL: dest, Status: history.StatusOpened}
	if err != nil {
		visit.Status = history.StatusFailed
		visit.Error = err.Error()
	}
	n.record(ctx, visit)

	if err != nil {
		return &Error{Kind: kind, URL: dest, Err: err}
	}
	n.logger.Debug("opened destination", "kind", kind, "url", dest)
	return nil
}

func (n *Navigator) record(ctx context.Context, v history.Visit) {
	if n.recorder == nil {
		return
	}
	if _, err := n.recorder.Record(context.WithoutCancel(ctx), v); err != nil {
		n.logger.Warn("recording visit", "url", v.URL, "error", err)
	}
}
