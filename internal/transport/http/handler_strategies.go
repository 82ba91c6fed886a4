package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	appstrategies "balatro-viewer/internal/app/strategies"
)

type StrategyHandlers struct {
	svc *appstrategies.Service
}

func NewStrategyHandlers(svc *appstrategies.Service) *StrategyHandlers {
	return &StrategyHandlers{svc: svc}
}

func (h *StrategyHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.List(r.Context())
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"strategies": items})
	}
}

func (h *StrategyHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "strategy_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		detail, err := h.svc.Get(r.Context(), id)
		if err != nil {
			writeStrategyError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(detail)
	}
}

func (h *StrategyHandlers) Lineage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "strategy_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		lin, err := h.svc.Lineage(r.Context(), id)
		if err != nil {
			writeStrategyError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(lin)
	}
}

func writeStrategyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appstrategies.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "strategy_not_found")
	case errors.Is(err, appstrategies.ErrCycleDetected):
		WriteHTTPError(w, http.StatusUnprocessableEntity, "strategy_cycle_detected")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
