package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
)

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// respond writes data and logs, rather than returns, a failed write: the
// status line is already gone by then.
func respond(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to write response")
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, ErrorResponse{Error: message})
}

// respondFormError answers 400 for a *FormError and for unreadable bodies.
func respondFormError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *FormError
	if errors.As(err, &fe) {
		respond(w, r, http.StatusBadRequest, ErrorResponse{Error: fe.Error(), Fields: fe.Fields})
		return
	}
	respondError(w, r, http.StatusBadRequest, "invalid form body")
}

// respondInternal logs err against the request and answers a generic 500.
func respondInternal(w http.ResponseWriter, r *http.Request, err error, message string) {
	hlog.FromRequest(r).Error().Err(err).Msg(message)
	respondError(w, r, http.StatusInternalServerError, message)
}

// pathID reads the {id} URL parameter. Routes constrain it to digits, so the
// only failure left is overflow, which cannot match any row.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, false
	}
	return id, true
}
