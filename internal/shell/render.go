package shell

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/lightgame/panel/internal/apiclient"
	"github.com/lightgame/panel/internal/form"
	"github.com/lightgame/panel/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

type Crumb struct {
	Title string
	URL   string
}

// PageData is what the layout receives.
type PageData struct {
	Title       string
	Path        string
	Nav         []NavSection
	Identity    *apiclient.Identity
	Crumbs      []Crumb
	Notes       []notify.Notification
	Workspace   string
	Content     any
	ContentName string
}

// LoginView is the content of the login page.
type LoginView struct {
	Controls   []form.Control
	General    []string
	Submitting bool
	Already    bool
}

// FaultView is the content of error pages.
type FaultView struct {
	Code    string
	Message string
}

// Renderer renders full pages: the layout around one content template.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	// partials are files starting with "_"; every other file is one page
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "templates/layout.html", "templates/_*.html")
	if err != nil {
		return nil, fmt.Errorf("shell: parse layout: %w", err)
	}
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, n := range names {
		name := strings.TrimSuffix(strings.TrimPrefix(n, "templates/"), ".html")
		if name == "layout" || strings.HasPrefix(name, "_") {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(fsys, n); err != nil {
			return nil, fmt.Errorf("shell: parse %s: %w", n, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name wrapped in the layout. Output is buffered so a
// template error never leaves half a page behind.
func (r *Renderer) Render(w io.Writer, name string, data PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("shell: unknown template %q", name)
	}
	data.ContentName = name
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("shell: render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
