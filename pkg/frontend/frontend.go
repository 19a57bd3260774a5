package frontend

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Templates holds the parsed chat UI pages
var Templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))
