package httptransport

import (
	"encoding/json"
	"net/http"

	appruns "balatro-viewer/internal/app/runs"
	"balatro-viewer/internal/store"
)

type AdminHandlers struct {
	store  *store.Store
	runSvc *appruns.Service
}

func NewAdminHandlers(st *store.Store, runSvc *appruns.Service) *AdminHandlers {
	return &AdminHandlers{store: st, runSvc: runSvc}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.runSvc.Stats(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(stats)
	}
}
