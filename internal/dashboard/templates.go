package dashboard

import (
	"bytes"
	_ "embed"
	stdhtml "html"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed index.html
var indexHTML []byte

// ServeIndex serves the embedded chat page.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// newMarkdown renders answers. Raw HTML in generated text is dropped.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
}

// renderHTML turns an answer into HTML. Bullet characters become list items.
func (d *Dashboard) renderHTML(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "• "); ok {
			lines[i] = "- " + rest
		}
	}

	var buf bytes.Buffer
	if err := d.md.Convert([]byte(strings.Join(lines, "\n")), &buf); err != nil {
		return "<p>" + stdhtml.EscapeString(text) + "</p>"
	}
	return buf.String()
}
