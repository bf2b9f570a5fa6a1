package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page template names accepted by Renderer.Render.
const (
	PageLogin         = "login"
	PageHome          = "home"
	PageSites         = "sites"
	PageClients       = "clients"
	PageAdmin         = "admin"
	PageResetPassword = "reset_password"
	PageLoading       = "loading"
	PageDenied        = "denied"
	PageError         = "error"
)

// Renderer is an echo.Renderer over the embedded page templates. Each page is
// parsed together with the layout into its own template set.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every embedded page. It fails on the first broken one.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		tmpl, err := template.New(path.Base(layoutFile)).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render executes the named page inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
