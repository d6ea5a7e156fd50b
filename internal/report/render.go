package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/i474232898/fuel-price-page/internal/fuel"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Renderer turns a report into a publishable document.
type Renderer interface {
	ContentType() string
	Render(r Report) ([]byte, error)
}

// HTMLRenderer renders the public price page.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded page template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("index.html.tmpl").Funcs(template.FuncMap{
		"price":    fuel.FormatPrice,
		"nonAvgas": nonAvgasLabel,
		"stamp":    func(r Report) string { return r.RetrievedAt.Format("2006-01-02 15:04:05") },
	}).ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

func (h *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the page template for r.
func (h *HTMLRenderer) Render(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

func nonAvgasLabel(row Row) string {
	if row.NonAvgas == nil {
		return fuel.FormatPrice(nil)
	}
	return fmt.Sprintf("%s (%s)", fuel.FormatPrice(row.NonAvgas), row.NonAvgasType)
}
