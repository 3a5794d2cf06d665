package handler

import (
	"errors"
	"net/http"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
)

// QueryHandler serves the filtered read-only lookups.
type QueryHandler struct {
	responder
	svc *service.QueryService
}

// NewQueryHandler constructs a QueryHandler.
func NewQueryHandler(svc *service.QueryService, exposeErrors bool) *QueryHandler {
	return &QueryHandler{responder: responder{exposeErrors: exposeErrors}, svc: svc}
}

// respond writes rows, or a 404 carrying notFound when the lookup matched nothing.
func respond[T any](h *QueryHandler, w http.ResponseWriter, r *http.Request, rows []T, err error, notFound string) {
	if errors.Is(err, service.ErrNoResults) {
		writeError(w, r, http.StatusNotFound, model.ErrorResponse{Message: notFound}, err)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// EventsByDate handles GET /api/events/date?date=YYYY-MM-DD
func (h *QueryHandler) EventsByDate(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.EventsByDate(r.Context(), r.URL.Query().Get("date"))
	respond(h, w, r, events, err, "No events found for this date")
}

// ParticipantsByStatus handles GET /api/participants/status?status=...
func (h *QueryHandler) ParticipantsByStatus(w http.ResponseWriter, r *http.Request) {
	participants, err := h.svc.ParticipantsByStatus(r.Context(), r.URL.Query().Get("status"))
	respond(h, w, r, participants, err, "No participants found with this status")
}

// FeedbackByEvent handles GET /api/events/{id}/feedback
func (h *QueryHandler) FeedbackByEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	feedback, err := h.svc.FeedbackByEvent(r.Context(), id)
	respond(h, w, r, feedback, err, "No feedback found for this event")
}

// SponsorsByEvent handles GET /api/events/{id}/sponsors
func (h *QueryHandler) SponsorsByEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sponsors, err := h.svc.SponsorsByEvent(r.Context(), id)
	respond(h, w, r, sponsors, err, "No sponsors found for this event")
}
