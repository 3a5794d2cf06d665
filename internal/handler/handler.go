// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Shivanand-hulikatti/eventhub/internal/capacity"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// responder writes JSON bodies. With exposeErrors set, internal error text is
// included in 5xx responses.
type responder struct {
	exposeErrors bool
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: msg})
}

// writeError writes the error envelope and logs 5xx at error level, 4xx at warn.
func writeError(w http.ResponseWriter, r *http.Request, status int, body model.ErrorResponse, err error) {
	logger := zerolog.Ctx(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(body.Message)

	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// badBody reports a request body that could not be decoded.
func (rs responder) badBody(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge,
			model.ErrorResponse{Message: "Request body too large"}, err)
		return
	}
	writeError(w, r, http.StatusBadRequest,
		model.ErrorResponse{Message: "Invalid request body", Error: err.Error()}, err)
}

// fail maps a service error onto a status code and message.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		writeError(w, r, http.StatusBadRequest,
			model.ErrorResponse{Message: "Validation failed", Errors: ve.Fields}, err)
		return
	}

	status, msg := http.StatusInternalServerError, "Database error"
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		status, msg = http.StatusNotFound, "Event not found"
	case errors.Is(err, service.ErrParticipantNotFound):
		status, msg = http.StatusNotFound, "Participant not found"
	case errors.Is(err, service.ErrLocationNotFound):
		status, msg = http.StatusNotFound, "Location not found"
	case errors.Is(err, capacity.ErrLocationNotFound):
		status, msg = http.StatusBadRequest, "Location not found"
	case errors.Is(err, capacity.ErrCapacityExceeded):
		status, msg = http.StatusBadRequest, "Venue capacity exceeded"
	case errors.Is(err, service.ErrLocationInUse):
		status, msg = http.StatusBadRequest, "Cannot delete location with active events."
	case errors.Is(err, service.ErrEventExists):
		status, msg = http.StatusBadRequest, "Event already exists"
	}

	body := model.ErrorResponse{Message: msg}
	if status >= http.StatusInternalServerError && rs.exposeErrors {
		body.Error = err.Error()
	}
	writeError(w, r, status, body, err)
}

// idParam parses a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Fields: []model.FieldError{{
			Field:   name,
			Message: fmt.Sprintf("%s must be a positive integer.", name),
		}}}
	}
	return id, nil
}

// orEmpty keeps list responses as JSON arrays rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
