package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	PageHome     = "home"
	PageAtlas    = "atlas"
	PageGenus    = "genus"
	PageSub      = "sub"
	PageTaxonomy = "taxonomy"
	PageNotFound = "notfound"
)

var pageNames = []string{PageHome, PageAtlas, PageGenus, PageSub, PageTaxonomy, PageNotFound}

// document is the data passed to the shared layout.
type document struct {
	Title  string
	Nav    string
	Footer string
	Page   any
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with data to w. The page is rendered to a buffer
// first so a template error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name, title string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	nav := name
	switch name {
	case PageGenus, PageSub, PageTaxonomy, PageNotFound:
		nav = PageAtlas
	}
	doc := document{
		Title:  title,
		Nav:    nav,
		Footer: "© 2026 하늘결 (HaneulGyeol) — Cloud Atlas",
		Page:   data,
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, doc); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
