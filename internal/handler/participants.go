package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
)

// ParticipantHandler serves /api/participants.
type ParticipantHandler struct {
	responder
	svc *service.ParticipantService
}

// NewParticipantHandler constructs a ParticipantHandler.
func NewParticipantHandler(svc *service.ParticipantService, exposeErrors bool) *ParticipantHandler {
	return &ParticipantHandler{responder: responder{exposeErrors: exposeErrors}, svc: svc}
}

// ListParticipants handles GET /api/participants
func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.svc.ListParticipants(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(participants))
}

// CreateParticipant handles POST /api/participants
// Registers the participant for body.event_id if the venue has room.
func (h *ParticipantHandler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req model.CreateParticipantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	id, err := h.svc.CreateParticipant(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Participant registered", "participantId": id})
}

// UpdateParticipant handles PUT /api/participants/{id}
func (h *ParticipantHandler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req model.UpdateParticipantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	if err := h.svc.UpdateParticipant(r.Context(), id, req); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Participant updated")
}

// DeleteParticipant handles DELETE /api/participants/{id}
func (h *ParticipantHandler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	remaining, err := h.svc.DeleteParticipant(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Participant deleted", "totalParticipants": remaining})
}
