package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"

	"wealthway/internal/insights"
	appweb "wealthway/web"
)

// Renderer executes the embedded page and partial templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every template under web/templates.
func NewRenderer() (*Renderer, error) {
	return newRenderer(appweb.TemplatesFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	t, err := template.New("").ParseFS(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes template name into a buffer so a failing template never
// produces a half-written response.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// RenderInsight renders the insights partial for st.
func (r *Renderer) RenderInsight(st insights.State) ([]byte, error) {
	return r.Render("insights", newInsightView(st))
}
