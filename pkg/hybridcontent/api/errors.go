package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/operational"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg, RequestID: RequestIDFrom(r.Context())})
}

// handleError maps a service error to a status code.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, hybridcontent.ErrInvalidRecord), errors.Is(err, contentstore.ErrMissingField):
		status = http.StatusBadRequest
	case errors.Is(err, contentstore.ErrDuplicate), errors.Is(err, hybridcontent.ErrUsageLimitReached):
		status = http.StatusConflict
	case operational.IsAdapterError(err):
		status = http.StatusBadGateway
	case errors.Is(err, contentstore.ErrPoolTimeout):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeError(w, r, status, err.Error())
}

func notFound(w http.ResponseWriter, r *http.Request, what string) {
	writeError(w, r, http.StatusNotFound, what+" not found")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid id %q", raw))
		return 0, false
	}
	return id, true
}

// queryInt reads a non-negative integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, raw))
		return 0, false
	}
	return n, true
}
