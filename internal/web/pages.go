// Package web renders the server-side HTML views over the same services
// the JSON API uses.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	appruns "balatro-viewer/internal/app/runs"
	appstrategies "balatro-viewer/internal/app/strategies"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

type Pages struct {
	runSvc      *appruns.Service
	strategySvc *appstrategies.Service
	tmpl        *template.Template
}

func NewPages(runSvc *appruns.Service, strategySvc *appstrategies.Service) (*Pages, error) {
	funcs := template.FuncMap{
		"pct": func(v *float64) string {
			if v == nil {
				return ""
			}
			return fmt.Sprintf("%.1f%%", *v*100)
		},
		"num": func(v *int64) string {
			if v == nil {
				return "-"
			}
			return fmt.Sprintf("%d", *v)
		},
		"mul100": func(v float64) float64 { return v * 100 },
		"inc":    func(v int) int { return v + 1 },
		"dec":    func(v int) int { return v - 1 },
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{runSvc: runSvc, strategySvc: strategySvc, tmpl: tmpl}, nil
}

func (p *Pages) Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := appruns.ListParams{
			Deck:  q.Get("deck"),
			Stake: q.Get("stake"),
			Sort:  q.Get("sort"),
			Order: q.Get("order"),
		}
		if v := q.Get("page"); v != "" {
			fmt.Sscanf(v, "%d", &params.Page)
		}
		resp, err := p.runSvc.List(r.Context(), params)
		if err != nil {
			if errors.Is(err, appruns.ErrInvalidRequest) {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			p.renderError(w, err)
			return
		}
		p.render(w, "index.html", resp)
	}
}

func (p *Pages) Game() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := p.runSvc.GetByCode(r.Context(), chi.URLParam(r, "run_code"))
		if err != nil {
			if errors.Is(err, appruns.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			p.renderError(w, err)
			return
		}
		p.render(w, "run.html", detail)
	}
}

func (p *Pages) Strategy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "strategy_id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		detail, err := p.strategySvc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, appstrategies.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			p.renderError(w, err)
			return
		}
		p.render(w, "strategy.html", detail)
	}
}

func (p *Pages) Seed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := p.runSvc.Seed(r.Context(), chi.URLParam(r, "seed"))
		if err != nil {
			if errors.Is(err, appruns.ErrNotFound) || errors.Is(err, appruns.ErrInvalidRequest) {
				http.NotFound(w, r)
				return
			}
			p.renderError(w, err)
			return
		}
		p.render(w, "seed.html", detail)
	}
}

func (p *Pages) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

func (p *Pages) renderError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("page query failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func parseID(s string) (int64, bool) {
	var id int64
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
