package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
)

// AccessListHandler serves the blacklist and whitelist admin routes.
type AccessListHandler struct {
	responder
	svc *service.AccessService
}

// NewAccessListHandler constructs an AccessListHandler.
func NewAccessListHandler(svc *service.AccessService, exposeErrors bool) *AccessListHandler {
	return &AccessListHandler{responder: responder{exposeErrors: exposeErrors}, svc: svc}
}

type listOp func(ctx context.Context, list model.AccessList, req model.AccessListRequest) (string, error)

func (h *AccessListHandler) handle(op listOp, list model.AccessList, format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.AccessListRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.badBody(w, r, err)
			return
		}

		ip, err := op(r.Context(), list, req)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeMessage(w, fmt.Sprintf(format, ip))
	}
}

// AddToBlacklist handles POST /api/blacklist
func (h *AccessListHandler) AddToBlacklist(w http.ResponseWriter, r *http.Request) {
	h.handle(h.svc.Add, model.Blacklist, "IP %s has been blacklisted.")(w, r)
}

// RemoveFromBlacklist handles DELETE /api/blacklist
func (h *AccessListHandler) RemoveFromBlacklist(w http.ResponseWriter, r *http.Request) {
	h.handle(h.svc.Remove, model.Blacklist, "IP %s has been removed from the blacklist.")(w, r)
}

// AddToWhitelist handles POST /api/whitelist
func (h *AccessListHandler) AddToWhitelist(w http.ResponseWriter, r *http.Request) {
	h.handle(h.svc.Add, model.Whitelist, "IP %s has been whitelisted.")(w, r)
}

// RemoveFromWhitelist handles DELETE /api/whitelist
func (h *AccessListHandler) RemoveFromWhitelist(w http.ResponseWriter, r *http.Request) {
	h.handle(h.svc.Remove, model.Whitelist, "IP %s has been removed from the whitelist.")(w, r)
}
