package http

import (
	"net/http"
	"strconv"
	"strings"

	"passerelle-backend/internal/service"
)

// DirectoryHandler exposes the public read side: approved profiles only.
type DirectoryHandler struct {
	directory service.DirectoryService
}

func NewDirectoryHandler(directory service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	srt := service.DirectorySortNameAsc
	if r.URL.Query().Get("sort") == "newest" {
		srt = service.DirectorySortNewest
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}
	profiles, err := h.directory.ListApproved(r.Context(), srt, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (h *DirectoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := service.DirectoryFilters{
		Query:        q.Get("q"),
		Sectors:      splitParam(q.Get("sectors")),
		Expertise:    splitParam(q.Get("expertise")),
		Seeking:      splitParam(q.Get("seeking")),
		Offering:     splitParam(q.Get("offering")),
		SoftSkills:   splitParam(q.Get("soft_skills")),
		Languages:    splitParam(q.Get("languages")),
		City:         q.Get("city"),
		Country:      q.Get("country"),
		Availability: q.Get("availability"),
	}

	// Promos come either as an explicit list (promos=2021,2023) or as a
	// contiguous range (promo_from=2019&promo_to=2022).
	for _, raw := range splitParam(q.Get("promos")) {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid promos"})
			return
		}
		filters.YearPromos = append(filters.YearPromos, year)
	}
	if from, to := q.Get("promo_from"), q.Get("promo_to"); from != "" && to != "" {
		f, err1 := strconv.Atoi(from)
		t, err2 := strconv.Atoi(to)
		if err1 != nil || err2 != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid promo range"})
			return
		}
		filters.YearPromos = append(filters.YearPromos, service.YearRange(f, t)...)
	}

	profiles, err := h.directory.Search(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
