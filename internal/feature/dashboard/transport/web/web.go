// Package web embeds the dashboard HTML templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded templates. Each file is named by its base name, e.g. "panel.html".
func Templates() (*template.Template, error) {
	return template.New("dashboard").ParseFS(files, "templates/*.html")
}

// MustTemplates is like Templates but panics on a parse error.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
