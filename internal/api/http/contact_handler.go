package http

import (
	"net/http"

	"passerelle-backend/internal/service"
)

type ContactHandler struct {
	contact service.ContactService
}

func NewContactHandler(contact service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

type sendContactRequest struct {
	ToUID   string `json:"to_uid"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	var req sendContactRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.contact.SendContactRequest(r.Context(), caller, req.ToUID, req.Subject, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ContactHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	requests, err := h.contact.ListSent(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}
