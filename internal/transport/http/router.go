package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appruns "balatro-viewer/internal/app/runs"
	appstrategies "balatro-viewer/internal/app/strategies"
	"balatro-viewer/internal/catalog"
	"balatro-viewer/internal/media"
	"balatro-viewer/internal/store"
	"balatro-viewer/internal/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st *store.Store, files *media.FileStore, cat *catalog.Catalog) (*chi.Mux, error) {
	runSvc := appruns.NewService(st, files, cat)
	strategySvc := appstrategies.NewService(st)

	runHandlers := NewRunHandlers(runSvc)
	strategyHandlers := NewStrategyHandlers(strategySvc)
	catalogHandlers := NewCatalogHandlers(cat)
	adminHandlers := NewAdminHandlers(st, runSvc)

	pages, err := web.NewPages(runSvc, strategySvc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/runs", runHandlers.List())
		r.Post("/runs", runHandlers.Create())
		r.Get("/runs/by-code/{run_code}", runHandlers.GetByCode())
		r.Get("/runs/{run_id}", runHandlers.Get())
		r.Patch("/runs/{run_id}", runHandlers.Patch())
		r.Delete("/runs/{run_id}", runHandlers.Delete())

		r.Post("/runs/{run_id}/jokers", runHandlers.AddJokers())
		r.Post("/runs/{run_id}/jokers/batch", runHandlers.AddJokers())
		r.Post("/runs/{run_id}/rounds", runHandlers.AddRounds())
		r.Post("/runs/{run_id}/rounds/batch", runHandlers.AddRounds())
		r.Post("/runs/{run_id}/tags", runHandlers.AddTag())
		r.Post("/runs/{run_id}/screenshots", runHandlers.UploadScreenshot(files.MaxBytes()))
		r.Delete("/screenshots/{screenshot_id}", runHandlers.DeleteScreenshot())

		r.Get("/stats", adminHandlers.Stats())
		r.Get("/seeds", runHandlers.Seeds())
		r.Get("/seeds/{seed}", runHandlers.Seed())

		r.Get("/jokers/catalog", catalogHandlers.List())
		r.Get("/jokers/lookup/{name}", catalogHandlers.Lookup())

		r.Get("/strategies", strategyHandlers.List())
		r.Get("/strategies/{strategy_id}", strategyHandlers.Get())
		r.Get("/strategies/{strategy_id}/lineage", strategyHandlers.Lineage())

		r.Route("/debug", func(r chi.Router) {
			r.Use(BodyCaptureMiddleware(4096))
			r.Get("/vars", expvar.Handler().ServeHTTP)
		})
	})

	r.Handle("/screenshots/*", http.StripPrefix("/screenshots/",
		http.FileServer(http.Dir(files.Root()))))

	r.Get("/", pages.Index())
	r.Get("/game/{run_code}", pages.Game())
	r.Get("/strategy/{strategy_id}", pages.Strategy())
	r.Get("/seed/{seed}", pages.Seed())

	return r, nil
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
