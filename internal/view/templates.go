package view

import (
	"embed"
	"html/template"
	"strings"

	"github.com/blogdesk/internal/form"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap lists the helpers available inside every page template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown": func(content string) template.HTML {
			rendered, err := RenderContent(content)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(content))
			}
			return rendered
		},
		"excerpt": Excerpt,
		"date":    FormatDate,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"join": strings.Join,
		"fieldError": func(errs form.Errors, field string) string {
			return errs.Get(field)
		},
		"hasError": func(errs form.Errors, field string) bool {
			return errs.Has(field)
		},
	}
}

// Templates parses the embedded page templates. Each page is addressed by
// its file name, e.g. "index.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
