package http

import (
	"fmt"
	"html/template"
	"path/filepath"
)

// Pages lists the page templates served by the handler. Each page is parsed
// together with _nav.html.
var Pages = []string{"index.html"}

// LoadTemplates parses every page in Pages from dir.
func LoadTemplates(dir string) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		tmpl, err := template.ParseFiles(filepath.Join(dir, "_nav.html"), filepath.Join(dir, page))
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}
