package generator

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Local helpers take precedence over sprig functions of the same name.
var templates = template.Must(template.New("gqlflux").Funcs(sprig.TxtFuncMap()).Funcs(template.FuncMap{
	"join":  strings.Join,
	"goStr": goString,
}).ParseFS(templateFS, "templates/*.tmpl"))

// executeTemplate renders one of the embedded templates by file name.
func executeTemplate(name string, data any) (string, error) {
	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}
