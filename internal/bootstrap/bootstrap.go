// Package bootstrap builds the start page into a DOM-like environment and
// wires its interactions to injected collaborators.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ziadkadry99/pixlet/internal/dom"
	"github.com/ziadkadry99/pixlet/internal/util"
)

var (
	// ErrEmptyQuery is reported when a search is submitted with blank input.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("bootstrap already started")
)

// EmptyQueryMessage is shown to the user for a blank search.
const EmptyQueryMessage = "Please enter something to search for."

// Environment is the DOM capability the bootstrap builds into.
type Environment interface {
	Body() *dom.Element
	CreateElement(tag string) *dom.Element
	AppendChild(parent, child *dom.Element) error
	AddEventListener(el *dom.Element, eventType string, fn dom.Listener) error
	OnReady(fn func())
}

// Navigator opens destinations in a new browsing context.
type Navigator interface {
	OpenHome(ctx context.Context) error
	Search(ctx context.Context, query string) error
}

// UserNotifier surfaces messages to the person using the page.
type UserNotifier interface {
	ReportValidationError(message string)
	ReportNavigationFailure(err error)
	ShowSuggestions(items []string)
}

// Suggester proposes completions for a partial query.
type Suggester interface {
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}

// State is the page lifecycle position.
type State int

const (
	Uninitialized State = iota
	Built
	Interactive
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Built:
		return "built"
	case Interactive:
		return "interactive"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options holds the page's fixed text and tuning.
type Options struct {
	Greeting          string
	ButtonLabel       string
	SearchPlaceholder string
	SearchLabel       string
	SuggestDelay      time.Duration
	SuggestLimit      int
}

// DefaultOptions returns the stock Pixlet page text.
func DefaultOptions() Options {
	return Options{
		Greeting:          "Welcome to Pixlet!",
		ButtonLabel:       "Click me!",
		SearchPlaceholder: "Search the web",
		SearchLabel:       "Search",
		SuggestDelay:      250 * time.Millisecond,
		SuggestLimit:      5,
	}
}

// Bootstrap builds one page and owns its handlers.
type Bootstrap struct {
	env       Environment
	nav       Navigator
	notifier  UserNotifier
	suggester Suggester
	opts      Options
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	started bool
	suggest *util.Debouncer[suggestRequest]

	// showMu orders suggestion delivery against submits. epoch grows on
	// every submit; results requested under an older epoch are dropped.
	showMu sync.Mutex
	epoch  uint64

	greeting *dom.Element
	button   *dom.Element
	form     *dom.Element
	field    *dom.Element
}

// suggestRequest is the debounced unit of work for suggestions.
type suggestRequest struct {
	ctx    context.Context
	prefix string
	epoch  uint64
}

// Option configures a Bootstrap.
type Option func(*Bootstrap)

// WithSuggester enables debounced search suggestions.
func WithSuggester(s Suggester) Option {
	return func(b *Bootstrap) { b.suggester = s }
}

// WithLogger sets the logger used for navigation failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bootstrap) { b.logger = l }
}

// WithOptions replaces the page text and tuning.
func WithOptions(o Options) Option {
	return func(b *Bootstrap) { b.opts = o }
}

// New creates a Bootstrap in the Uninitialized state.
func New(env Environment, nav Navigator, notifier UserNotifier, opts ...Option) *Bootstrap {
	b := &Bootstrap{
		env:      env,
		nav:      nav,
		notifier: notifier,
		opts:     DefaultOptions(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.opts.SuggestLimit <= 0 {
		b.opts.SuggestLimit = DefaultOptions().SuggestLimit
	}
	if b.suggester != nil {
		b.suggest = util.NewDebouncer(b.runSuggest, b.opts.SuggestDelay)
	}
	return b
}

// Start arranges for the page to be built when the environment is ready.
func (b *Bootstrap) Start() error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return ErrAlreadyStarted
	}
	b.started = true
	b.mu.Unlock()

	b.env.OnReady(b.build)
	return nil
}

// State returns the current lifecycle state.
func (b *Bootstrap) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bootstrap) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// build inserts the page nodes, then attaches their handlers.
func (b *Bootstrap) build() {
	b.greeting = b.BuildGreeting()
	b.button = b.createPrimaryAction()
	b.form, b.field = b.createSearchForm()
	b.setState(Built)

	b.attachPrimaryAction(b.button)
	b.attachSearchForm(b.form, b.field)
	b.setState(Interactive)
}

// PrimaryAction returns the home button once the page is built.
func (b *Bootstrap) PrimaryAction() *dom.Element { return b.button }

// SearchForm returns the search form once the page is built.
func (b *Bootstrap) SearchForm() *dom.Element { return b.form }

// SearchField returns the search text field once the page is built.
func (b *Bootstrap) SearchField() *dom.Element { return b.field }

// BuildGreeting inserts the welcome heading.
func (b *Bootstrap) BuildGreeting() *dom.Element {
	h := b.env.CreateElement("h1")
	h.SetText(b.opts.Greeting)
	b.append(b.env.Body(), h)
	return h
}

// BuildPrimaryAction inserts the home button and binds its click handler.
func (b *Bootstrap) BuildPrimaryAction() *dom.Element {
	btn := b.createPrimaryAction()
	b.attachPrimaryAction(btn)
	return btn
}

// BuildSearchForm inserts the search form and binds its handlers.
// It returns the form element.
func (b *Bootstrap) BuildSearchForm() *dom.Element {
	form, field := b.createSearchForm()
	b.attachSearchForm(form, field)
	return form
}

func (b *Bootstrap) createPrimaryAction() *dom.Element {
	btn := b.env.CreateElement("button")
	btn.SetAttr("type", "button")
	btn.SetText(b.opts.ButtonLabel)
	b.append(b.env.Body(), btn)
	return btn
}

func (b *Bootstrap) attachPrimaryAction(btn *dom.Element) {
	b.listen(btn, dom.EventClick, func(ctx context.Context, ev *dom.Event) {
		b.openHome(ctx)
	})
}

func (b *Bootstrap) createSearchForm() (form, field *dom.Element) {
	form = b.env.CreateElement("form")
	form.SetAttr("role", "search")
	form.SetAttr("action", "/go/search")
	form.SetAttr("method", "get")
	form.SetAttr("target", "_blank")

	field = b.env.CreateElement("input")
	field.SetAttr("type", "search")
	field.SetAttr("name", "q")
	field.SetAttr("placeholder", b.opts.SearchPlaceholder)
	field.SetAttr("autocomplete", "off")

	submit := b.env.CreateElement("button")
	submit.SetAttr("type", "submit")
	submit.SetText(b.opts.SearchLabel)

	b.append(b.env.Body(), form)
	b.append(form, field)
	b.append(form, submit)
	return form, field
}

func (b *Bootstrap) attachSearchForm(form, field *dom.Element) {
	b.listen(form, dom.EventSubmit, func(ctx context.Context, ev *dom.Event) {
		ev.PreventDefault()
		b.submitSearch(ctx, field.Value())
	})
	if b.suggest != nil {
		b.listen(field, dom.EventInput, func(ctx context.Context, ev *dom.Event) {
			b.showMu.Lock()
			epoch := b.epoch
			b.showMu.Unlock()
			b.suggest.Call(suggestRequest{ctx: context.WithoutCancel(ctx), prefix: field.Value(), epoch: epoch})
		})
	}
}

// submitSearch validates raw input and dispatches it to the navigator.
func (b *Bootstrap) submitSearch(ctx context.Context, raw string) {
	query, err := ParseQuery(raw)
	if err != nil {
		b.notifier.ReportValidationError(EmptyQueryMessage)
		return
	}
	b.cancelSuggestions()
	if err := b.nav.Search(ctx, query); err != nil {
		b.navigationFailed("search", err)
	}
}

func (b *Bootstrap) openHome(ctx context.Context) {
	if err := b.nav.OpenHome(ctx); err != nil {
		b.navigationFailed("home", err)
	}
}

// OpenHomeOnLoad opens the home destination once. It is a separate startup
// action and never runs as part of building the page.
func (b *Bootstrap) OpenHomeOnLoad(ctx context.Context) {
	b.openHome(ctx)
}

// cancelSuggestions drops pending suggestion work. Once it returns, no
// suggestions requested before the call are shown.
func (b *Bootstrap) cancelSuggestions() {
	if b.suggest == nil {
		return
	}
	b.showMu.Lock()
	b.epoch++
	b.showMu.Unlock()
	b.suggest.Cancel()
}

func (b *Bootstrap) runSuggest(req suggestRequest) {
	var items []string
	if prefix := strings.TrimSpace(req.prefix); prefix != "" {
		var err error
		items, err = b.suggester.Suggest(req.ctx, prefix, b.opts.SuggestLimit)
		if err != nil {
			b.logger.Warn("suggestions failed", "prefix", prefix, "error", err)
			return
		}
	}

	b.showMu.Lock()
	defer b.showMu.Unlock()
	if req.epoch != b.epoch {
		b.logger.Debug("dropping stale suggestions", "prefix", req.prefix)
		return
	}
	b.notifier.ShowSuggestions(items)
}

func (b *Bootstrap) navigationFailed(action string, err error) {
	b.logger.Error("navigation failed", "action", action, "error", err)
	b.notifier.ReportNavigationFailure(err)
}

// Close stops pending suggestion work.
func (b *Bootstrap) Close() {
	if b.suggest != nil {
		b.suggest.Stop()
	}
}

func (b *Bootstrap) append(parent, child *dom.Element) {
	if err := b.env.AppendChild(parent, child); err != nil {
		b.logger.Error("append element", "tag", child.Tag(), "error", err)
	}
}

func (b *Bootstrap) listen(el *dom.Element, eventType string, fn dom.Listener) {
	if err := b.env.AddEventListener(el, eventType, fn); err != nil {
		b.logger.Error("add listener", "tag", el.Tag(), "event", eventType, "error", err)
	}
}

// ParseQuery trims raw search input. Blank input yields ErrEmptyQuery.
func ParseQuery(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}
