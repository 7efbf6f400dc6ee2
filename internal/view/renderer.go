package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"

	"csemotors/web/internal/validation"
)

var (
	//go:embed templates
	templateFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// Static serves one directory of the embedded assets referenced by the
// layout, such as "css".
func Static(dir string) http.FileSystem {
	sub, err := fs.Sub(staticFS, path.Join("static", dir))
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Renderer implements gin's HTMLRender with one template set per page, each
// sharing the layout and the partials.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs()).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := map[string]*template.Template{}
	err = fs.WalkDir(templateFS, "templates/pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		set, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := set.ParseFS(templateFS, p); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/pages/"), ".html")
		pages[name] = set
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		panic(fmt.Sprintf("view: unknown page %q", name))
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"fieldError": func(errs validation.Errors, field string) bool {
			return errs.Has(field)
		},
		"selected": func(current, value string) bool {
			return current == value
		},
		"ratings": func() []string {
			return []string{"5", "4", "3", "2", "1"}
		},
	}
}
