package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ListenAttr is the attribute naming the events a page must relay for an element.
const ListenAttr = "data-listen"

// Render writes the body's children as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, child := range d.body.children {
		if err := html.Render(w, child.node()); err != nil {
			return fmt.Errorf("rendering %s#%s: %w", child.tag, child.id, err)
		}
	}
	return nil
}

// RenderString is Render into a string.
func (d *Document) RenderString() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// node converts e and its subtree into an html.Node tree.
func (e *Element) node() *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.tag,
		DataAtom: atom.Lookup([]byte(e.tag)),
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: e.id})
	for _, a := range e.attrs {
		if a.key == "id" || a.key == ListenAttr {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: a.key, Val: a.val})
	}
	if e.isControl() && e.value != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "value", Val: e.value})
	}
	if types := e.EventTypes(); len(types) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: ListenAttr, Val: strings.Join(types, " ")})
	}

	if e.text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.text})
	}
	for _, child := range e.children {
		n.AppendChild(child.node())
	}
	return n
}
