package api

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	loginPage    = template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/login.html"))
	indexPage    = template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/index.html"))
	uploadedView = template.Must(template.ParseFS(templatesFS, "templates/uploaded.html"))
)

type loginView struct {
	Error string
}

type uploadedData struct {
	URL       string
	Key       string
	ExpiresAt string
}
