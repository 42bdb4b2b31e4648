// Package dom is a small server-side element tree with event dispatch.
//
// A Document plays the role of a browser page: elements are created and
// attached during the ready signal, listeners are registered per element
// and event type, and events relayed from the real page are dispatched one
// at a time. The tree is rendered to HTML for the initial response.
package dom

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ziadkadry99/pixlet/internal/util"
)

var (
	ErrNilElement       = errors.New("dom: nil element")
	ErrForeignElement   = errors.New("dom: element belongs to another document")
	ErrAlreadyAttached  = errors.New("dom: element already has a parent")
	ErrUnknownTarget    = errors.New("dom: unknown event target")
	ErrNotReady         = errors.New("dom: document is not ready")
	ErrAlreadyReady     = errors.New("dom: ready signal already fired")
	ErrEmptyEventType   = errors.New("dom: empty event type")
	ErrNilListener      = errors.New("dom: nil listener")
	ErrCyclicAttachment = errors.New("dom: element cannot contain itself")
)

// Common event types relayed from the page.
const (
	EventClick  = "click"
	EventInput  = "input"
	EventSubmit = "submit"
)

// Listener handles one dispatched event.
type Listener func(ctx context.Context, ev *Event)

// Event is a user event addressed to one element.
type Event struct {
	Type     string
	TargetID string
	// Value is the current value of the target for input events.
	Value string
	// Fields carries form control values keyed by element ID for submit events.
	Fields map[string]string

	target           *Element
	defaultPrevented bool
}

// Target returns the element the event was dispatched to.
func (e *Event) Target() *Element { return e.target }

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Document owns an element tree rooted at a body element.
//
// Tree mutation is not synchronized on its own; it is expected to happen
// inside ready handlers or listeners, which the document runs one at a time.
type Document struct {
	mu       sync.Mutex
	body     *Element
	byID     map[string]*Element
	onReady  []func()
	ready    bool
	newID    func() string
	maxIDTry int
}

// Option configures a Document.
type Option func(*Document)

// WithIDGenerator replaces the element ID source.
func WithIDGenerator(fn func() string) Option {
	return func(d *Document) { d.newID = fn }
}

// NewDocument creates an empty document with a body element.
func NewDocument(opts ...Option) *Document {
	d := &Document{
		byID:     make(map[string]*Element),
		newID:    util.GenerateUniqueID,
		maxIDTry: 8,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the root element.
func (d *Document) Body() *Element { return d.body }

// CreateElement returns a detached element owned by d with a fresh ID.
func (d *Document) CreateElement(tag string) *Element {
	id := d.newID()
	for i := 0; i < d.maxIDTry; i++ {
		if _, taken := d.byID[id]; !taken {
			break
		}
		id = d.newID()
	}
	if _, taken := d.byID[id]; taken {
		id = fmt.Sprintf("%s-%d", id, len(d.byID))
	}

	el := &Element{
		id:        id,
		tag:       tag,
		doc:       d,
		listeners: make(map[string][]Listener),
	}
	d.byID[id] = el
	return el
}

// AppendChild attaches child as the last child of parent.
func (d *Document) AppendChild(parent, child *Element) error {
	if parent == nil || child == nil {
		return ErrNilElement
	}
	if parent.doc != d || child.doc != d {
		return ErrForeignElement
	}
	if child.parent != nil || child == d.body {
		return ErrAlreadyAttached
	}
	for p := parent; p != nil; p = p.parent {
		if p == child {
			return ErrCyclicAttachment
		}
	}
	child.parent = parent
	parent.children = append(parent.children, child)
	return nil
}

// AddEventListener registers fn for events of type eventType on el.
func (d *Document) AddEventListener(el *Element, eventType string, fn Listener) error {
	if el == nil {
		return ErrNilElement
	}
	if el.doc != d {
		return ErrForeignElement
	}
	if eventType == "" {
		return ErrEmptyEventType
	}
	if fn == nil {
		return ErrNilListener
	}
	el.listeners[eventType] = append(el.listeners[eventType], fn)
	return nil
}

// ElementByID finds an element created by d, attached or not.
func (d *Document) ElementByID(id string) (*Element, bool) {
	el, ok := d.byID[id]
	return el, ok
}

// OnReady registers fn to run when the ready signal fires.
// Registering after the signal runs fn immediately.
func (d *Document) OnReady(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ready {
		fn()
		return
	}
	d.onReady = append(d.onReady, fn)
}

// Ready fires the ready signal. It can fire only once.
func (d *Document) Ready() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ready {
		return ErrAlreadyReady
	}
	d.ready = true
	fns := d.onReady
	d.onReady = nil
	for _, fn := range fns {
		fn()
	}
	return nil
}

// IsReady reports whether the ready signal has fired.
func (d *Document) IsReady() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

// Dispatch delivers ev to its target's listeners in registration order.
// Control values in ev are applied to the tree before listeners run.
// Dispatches on the same document never overlap.
func (d *Document) Dispatch(ctx context.Context, ev Event) (*Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return nil, ErrNotReady
	}
	if ev.Type == "" {
		return nil, ErrEmptyEventType
	}
	target, ok := d.byID[ev.TargetID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, ev.TargetID)
	}

	if ev.Type == EventInput && target.isControl() {
		target.value = ev.Value
	}
	for id, v := range ev.Fields {
		if el, ok := d.byID[id]; ok && el.isControl() {
			el.value = v
		}
	}

	ev.target = target
	for _, fn := range target.listeners[ev.Type] {
		fn(ctx, &ev)
	}
	return &ev, nil
}
