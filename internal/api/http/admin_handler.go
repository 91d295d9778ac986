package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/service"
)

// AdminHandler exposes the validation screen: listing profiles per status and
// driving the moderation transitions.
type AdminHandler struct {
	moderation service.ModerationService
}

func NewAdminHandler(moderation service.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

func (h *AdminHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	raw := r.URL.Query().Get("status")
	if raw == "" {
		raw = string(domain.ProfileStatusPending)
	}
	status, err := domain.ParseProfileStatus(raw)
	if err != nil {
		writeError(w, domain.NewValidationError("status", "unknown status value"))
		return
	}
	profiles, err := h.moderation.ListByStatus(r.Context(), caller, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	uid := mux.Vars(r)["uid"]
	profile, err := h.moderation.Approve(r.Context(), caller, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	uid := mux.Vars(r)["uid"]
	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	profile, err := h.moderation.Reject(r.Context(), caller, uid, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	uid := mux.Vars(r)["uid"]
	if err := h.moderation.Delete(r.Context(), caller, uid); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
