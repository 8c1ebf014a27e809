package api

import (
	"embed"
	"html/template"
	"slices"

	"github.com/okian/marquee/internal/adapters/export"
)

//go:embed static/*.tmpl
var apiStaticFS embed.FS

var templateFuncs = template.FuncMap{
	"contains": func(list []string, s string) bool { return slices.Contains(list, s) },
	"xlsx":     func(name string) string { return export.FormatXLSX.Filename(name) },
}

var (
	dashboardTmpl   = template.Must(template.New("dashboard.html.tmpl").Funcs(templateFuncs).ParseFS(apiStaticFS, "static/dashboard.html.tmpl"))
	unavailableTmpl = template.Must(template.ParseFS(apiStaticFS, "static/unavailable.html.tmpl"))
)
