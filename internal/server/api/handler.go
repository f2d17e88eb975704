// Package api exposes the journal store over HTTP JSON:
//
//	GET    /health        liveness, 200 with an empty JSON object
//	GET    /entries       200, every entry in insertion order
//	POST   /entries       201, the stored entry with its issued id
//	DELETE /entries/{id}  204, or 404 for an unknown id
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/geojournal/internal/common"
	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/dmitrijs2005/geojournal/internal/models"
)

// maxBodyBytes bounds POST bodies. Inline data: photos make entries large.
const maxBodyBytes = 16 << 20

type EntryService interface {
	List(ctx context.Context) ([]models.JournalEntry, error)
	Create(ctx context.Context, in models.NewEntry) (models.JournalEntry, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	entries EntryService
	logger  logging.Logger
}

func NewHandler(entries EntryService, logger logging.Logger) *Handler {
	return &Handler{entries: entries, logger: logger.With("module", "http_api")}
}

// Routes returns the API mux. /health and /metrics are mounted by the server.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /entries", h.list)
	mux.HandleFunc("POST /entries", h.create)
	mux.HandleFunc("DELETE /entries/{id}", h.delete)
	return mux
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.entries.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	var in models.NewEntry
	if err := json.Unmarshal(body, &in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed entry: "+err.Error())
		return
	}

	e, err := h.entries.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.entries.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps service errors to statuses. Unexpected errors are logged and
// reported without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "entry not found")
	case errors.Is(err, common.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "entry already exists")
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrInternal.Error())
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
