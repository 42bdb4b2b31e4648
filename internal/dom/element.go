package dom

import "sort"

// Element is one node of a Document's tree.
type Element struct {
	id        string
	tag       string
	doc       *Document
	parent    *Element
	children  []*Element
	attrs     []attr
	text      string
	value     string
	listeners map[string][]Listener
}

type attr struct {
	key, val string
}

// ID returns the element's document-unique identifier.
func (e *Element) ID() string { return e.id }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// Parent returns the containing element, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element's children in order.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// SetAttr sets an attribute, replacing any previous value.
func (e *Element) SetAttr(key, val string) {
	for i := range e.attrs {
		if e.attrs[i].key == key {
			e.attrs[i].val = val
			return
		}
	}
	e.attrs = append(e.attrs, attr{key: key, val: val})
}

// Attr returns an attribute value.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.attrs {
		if a.key == key {
			return a.val, true
		}
	}
	return "", false
}

// SetText replaces the element's text content.
func (e *Element) SetText(s string) { e.text = s }

// Text returns the element's own text content.
func (e *Element) Text() string { return e.text }

// SetValue sets the current value of a form control.
func (e *Element) SetValue(v string) { e.value = v }

// Value returns the current value of a form control.
func (e *Element) Value() string { return e.value }

// EventTypes lists the event types that have listeners, sorted.
func (e *Element) EventTypes() []string {
	types := make([]string, 0, len(e.listeners))
	for t, fns := range e.listeners {
		if len(fns) > 0 {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

func (e *Element) isControl() bool {
	switch e.tag {
	case "input", "textarea", "select":
		return true
	}
	return false
}
