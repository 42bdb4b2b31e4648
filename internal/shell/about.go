package shell

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed about.md
var aboutMarkdown []byte

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// renderAbout converts the embedded about page to a full HTML document.
func renderAbout(title string) ([]byte, error) {
	var content bytes.Buffer
	if err := newMarkdown().Convert(aboutMarkdown, &content); err != nil {
		return nil, fmt.Errorf("converting about page: %w", err)
	}

	tmpl, err := template.New("about").Parse(aboutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing about template: %w", err)
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, struct {
		Title   string
		Content template.HTML
	}{Title: title, Content: template.HTML(content.String())})
	if err != nil {
		return nil, fmt.Errorf("executing about template: %w", err)
	}
	return out.Bytes(), nil
}
