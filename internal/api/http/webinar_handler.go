package http

import (
	"net/http"

	"passerelle-backend/internal/service"
)

type WebinarHandler struct {
	webinars service.WebinarService
}

func NewWebinarHandler(webinars service.WebinarService) *WebinarHandler {
	return &WebinarHandler{webinars: webinars}
}

func (h *WebinarHandler) List(w http.ResponseWriter, r *http.Request) {
	webinars, err := h.webinars.ListWebinars(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, webinars)
}
