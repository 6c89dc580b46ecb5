package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/Dosada05/swiss-tournament-ui/models"
	"github.com/Dosada05/swiss-tournament-ui/page"
	"github.com/Dosada05/swiss-tournament-ui/views"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is what page.html is executed with.
type PageData struct {
	BackendURL    string
	View          page.View
	ResultOptions []models.ResultOption
}

// StandingsData is what the standings fragment is executed with.
type StandingsData struct {
	Standings views.StandingsView
}

type Renderer struct {
	tmpl       *template.Template
	backendURL string
}

func NewRenderer(backendURL string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"score": FormatScore,
		"inc":   func(i int) int { return i + 1 },
		"standingsData": func(v views.StandingsView) StandingsData {
			return StandingsData{Standings: v}
		},
		"busyLabel": func(busy bool, idle, working string) string {
			if busy {
				return working
			}
			return idle
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, backendURL: backendURL}, nil
}

// Page writes the whole document.
func (r *Renderer) Page(w http.ResponseWriter, status int, v page.View) error {
	return r.execute(w, status, "page.html", PageData{
		BackendURL:    r.backendURL,
		View:          v,
		ResultOptions: models.ResultOptions,
	})
}

// Standings writes only the standings section, used by the live reload.
func (r *Renderer) Standings(w http.ResponseWriter, status int, v views.StandingsView) error {
	return r.execute(w, status, "standings", StandingsData{Standings: v})
}

func (r *Renderer) execute(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet and script.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// FormatScore prints scores without trailing zeros: 1, 1.5, 0.
func FormatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
