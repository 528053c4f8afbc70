package diagnostics

import (
	"embed"
	"html/template"
	"io"

	"keydoctor/internal/pkg/render"
	"keydoctor/internal/ui"
)

//go:embed templates/page.html.tmpl
var templatesFS embed.FS

var pageTmpl = template.Must(
	template.New("page.html.tmpl").
		Funcs(template.FuncMap{
			"markdown": render.Markdown,
			"icon":     icon,
		}).
		ParseFS(templatesFS, "templates/page.html.tmpl"),
)

type pageData struct {
	Title       string
	Findings    []ui.Finding
	ShowButton  bool
	ButtonLabel string
	SecretsPath string
}

func renderPage(w io.Writer, data pageData) error {
	return pageTmpl.Execute(w, data)
}

func icon(k ui.Kind) string {
	switch k {
	case ui.KindSuccess:
		return "✅"
	case ui.KindInfo:
		return "ℹ️"
	case ui.KindWarning:
		return "⚠️"
	case ui.KindError:
		return "❌"
	default:
		return ""
	}
}
