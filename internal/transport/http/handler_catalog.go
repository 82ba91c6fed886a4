package httptransport

import (
	"encoding/json"
	"net/http"

	"balatro-viewer/internal/catalog"

	"github.com/go-chi/chi/v5"
)

type CatalogHandlers struct {
	cat *catalog.Catalog
}

func NewCatalogHandlers(cat *catalog.Catalog) *CatalogHandlers {
	return &CatalogHandlers{cat: cat}
}

func (h *CatalogHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":  h.cat.Len(),
			"jokers": h.cat.Entries(),
		})
	}
}

func (h *CatalogHandlers) Lookup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		entry, ok := h.cat.Lookup(name)
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "joker_not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(entry)
	}
}
