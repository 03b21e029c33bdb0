// Package view renders the console page: the transaction form, the result
// panel and the prediction history.
package view

import (
	"bytes"
	"embed"
	"html/template"

	"fraudconsole/internal/console"
	"fraudconsole/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"inc":              func(i int) int { return i + 1 },
	"featureName":      models.FeatureName,
	"percent":          Percent,
	"fixed4":           Fixed4,
	"timestamp":        Timestamp,
	"badgeClass":       BadgeClass,
	"badgeText":        BadgeText,
	"historyBadgeText": HistoryBadgeText,
}

// HealthBadge is the scoring API status shown in the page header.
type HealthBadge struct {
	Label string
	Class string
}

// HealthBadgeFor builds the badge from a probe result.
func HealthBadgeFor(status *models.HealthStatus, err error) HealthBadge {
	switch {
	case err != nil || status == nil:
		return HealthBadge{Label: "unavailable", Class: "down"}
	case status.Healthy():
		return HealthBadge{Label: status.Status + " (v" + status.Version + ")", Class: "up"}
	default:
		return HealthBadge{Label: status.Status, Class: "degraded"}
	}
}

// PageData is everything the full page needs.
type PageData struct {
	Form    FormState
	Panel   console.Panel
	History []models.PredictionResult
	Health  HealthBadge
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("console").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page renders the whole document.
func (r *Renderer) Page(data PageData) ([]byte, error) {
	return r.execute("page", data)
}

// Panel renders only the result panel.
func (r *Renderer) Panel(p console.Panel) ([]byte, error) {
	return r.execute("panel", p)
}

// History renders only the history list.
func (r *Renderer) History(entries []models.PredictionResult) ([]byte, error) {
	return r.execute("history", entries)
}

func (r *Renderer) execute(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
