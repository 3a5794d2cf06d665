package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
)

// EventHandler serves /api/events.
type EventHandler struct {
	responder
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService, exposeErrors bool) *EventHandler {
	return &EventHandler{responder: responder{exposeErrors: exposeErrors}, svc: svc}
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(events))
}

// CreateEvent handles POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	id, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Event created", "eventId": id})
}

// UpdateEvent handles PUT /api/events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req model.UpdateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	if err := h.svc.UpdateEvent(r.Context(), id, req); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Event updated")
}

// DeleteEvent handles DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.DeleteEvent(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Event deleted")
}
