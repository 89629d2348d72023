package email

import (
	"embed"
	"html/template"
)

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateCatCreated corresponds to templates/cat_created.html
	TemplateCatCreated Template = "cat_created"
)

//go:embed templates/*.html
var templateFS embed.FS

// templates holds every embedded file, looked up by its base name.
var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
