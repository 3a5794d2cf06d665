package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
)

// LocationHandler serves /api/locations.
type LocationHandler struct {
	responder
	svc *service.LocationService
}

// NewLocationHandler constructs a LocationHandler.
func NewLocationHandler(svc *service.LocationService, exposeErrors bool) *LocationHandler {
	return &LocationHandler{responder: responder{exposeErrors: exposeErrors}, svc: svc}
}

// ListLocations handles GET /api/locations
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.svc.ListLocations(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(locations))
}

// CreateLocation handles POST /api/locations
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	id, err := h.svc.CreateLocation(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Location created", "locationId": id})
}

// UpdateLocation handles PUT /api/locations/{id}
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req model.UpdateLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	if err := h.svc.UpdateLocation(r.Context(), id, req); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Location updated")
}

// DeleteLocation handles DELETE /api/locations/{id}. A location that still
// hosts events is refused with 400.
func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.DeleteLocation(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Location deleted")
}
