package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	appruns "balatro-viewer/internal/app/runs"
	"balatro-viewer/internal/store"

	"github.com/go-chi/chi/v5"
)

type RunHandlers struct {
	svc *appruns.Service
}

func NewRunHandlers(svc *appruns.Service) *RunHandlers {
	return &RunHandlers{svc: svc}
}

func (h *RunHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		resp, err := h.svc.List(r.Context(), appruns.ListParams{
			Deck:    q.Get("deck"),
			Stake:   q.Get("stake"),
			Won:     QueryBool(r, "won"),
			Sort:    q.Get("sort"),
			Order:   q.Get("order"),
			Page:    QueryInt(r, "page"),
			PerPage: QueryInt(r, "per_page"),
		})
		if err != nil {
			writeRunError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *RunHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "run_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.Get(r.Context(), id)
		if err != nil {
			writeRunError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *RunHandlers) GetByCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "run_code")
		if code == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.svc.GetByCode(r.Context(), code)
		if err != nil {
			writeRunError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *RunHandlers) Create() http.HandlerFunc {
	type request struct {
		Seed        *string `json:"seed"`
		Deck        string  `json:"deck"`
		Stake       string  `json:"stake"`
		FinalAnte   int     `json:"final_ante"`
		FinalScore  *int64  `json:"final_score"`
		Won         bool    `json:"won"`
		EndlessAnte *int    `json:"endless_ante"`
		Notes       *string `json:"notes"`
		LLMModel    *string `json:"llm_model"`
		StrategyID  *int64  `json:"strategy_id"`
		PlayedAt    *string `json:"played_at"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		run, err := h.svc.Create(r.Context(), appruns.CreateParams{
			Seed:        body.Seed,
			Deck:        body.Deck,
			Stake:       body.Stake,
			FinalAnte:   body.FinalAnte,
			FinalScore:  body.FinalScore,
			Won:         body.Won,
			EndlessAnte: body.EndlessAnte,
			Notes:       body.Notes,
			LLMModel:    body.LLMModel,
			StrategyID:  body.StrategyID,
			PlayedAtRaw: body.PlayedAt,
		})
		if err != nil {
			writeRunError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(run)
	}
}

func (h *RunHandlers) Patch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "run_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var patch store.RunPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		run, err := h.svc.Patch(r.Context(), id, patch)
		if err != nil {
			writeRunError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(run)
	}
}

func (h *RunHandlers) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "run_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.svc.Delete(r.Context(), id); err != nil {
			writeRunError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

// AddJokers serves both the single-object and the batch route: the body
// may be one joker or an array of them.
func (h *RunHandlers) AddJokers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "run_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		params, err := decodeOneOrMany[store.CreateJokerParams](r.Body)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		jokers, err := h.svc.AddJokers(r.Context(), id, params)
		if err != nil {
			writeRunError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"jokers": jokers})
	}
}

func (h *RunHandlers) AddRounds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "run_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		params, err := decodeOneOrMany[store.CreateRoundParams](r.Body)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		rounds, err := h.svc.AddRounds(r.Context(), id, params)
		if err != nil {
			writeRunError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"rounds": rounds})
	}
}

func (h *RunHandlers) AddTag() http.HandlerFunc {
	type request struct {
		Ante int    `json:"ante"`
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "run_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var body request
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		tag, err := h.svc.AddTag(r.Context(), id, body.Ante, body.Name)
		if err != nil {
			writeRunError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(tag)
	}
}

func (h *RunHandlers) UploadScreenshot(maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "run_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		// Leave headroom for the multipart framing and text fields.
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_multipart")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "missing_file")
			return
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "unreadable_file")
			return
		}

		p := appruns.AddScreenshotParams{
			RunID:        id,
			OriginalName: header.Filename,
			Content:      content,
		}
		if v := r.FormValue("caption"); v != "" {
			p.Caption = &v
		}
		if v := r.FormValue("event_type"); v != "" {
			p.EventType = &v
		}
		p.RoundID = formInt64(r, "round_id")
		p.EstimatedScore = formInt64(r, "estimated_score")
		p.ActualScore = formInt64(r, "actual_score")

		shot, err := h.svc.AddScreenshot(r.Context(), p)
		if err != nil {
			writeRunError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(shot)
	}
}

func (h *RunHandlers) DeleteScreenshot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := URLParamInt64(r, "screenshot_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.svc.DeleteScreenshot(r.Context(), id); err != nil {
			writeRunError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}

func (h *RunHandlers) Seeds() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Seeds(r.Context())
		if err != nil {
			writeRunError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"seeds": resp})
	}
}

func (h *RunHandlers) Seed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.svc.Seed(r.Context(), chi.URLParam(r, "seed"))
		if err != nil {
			writeRunError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appruns.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, appruns.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "run_not_found")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

// decodeOneOrMany accepts either a single JSON object or an array of
// them, normalizing to a slice.
func decodeOneOrMany[T any](body io.Reader) ([]T, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	var many []T
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func formInt64(r *http.Request, name string) *int64 {
	v := r.FormValue(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
