package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded HTML pages.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		"statusClass": func(s models.Status) string {
			return "status-" + strings.ToLower(string(s))
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}
