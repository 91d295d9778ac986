package http

import (
	"net/http"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/service"
)

// ProfileHandler exposes the owner-facing profile operations. Every route is
// scoped to the authenticated caller's own profile: the UID always comes from
// the verified token, never from the request body.
type ProfileHandler struct {
	lifecycle  service.ProfileLifecycleService
	moderation service.ModerationService
}

func NewProfileHandler(lifecycle service.ProfileLifecycleService, moderation service.ModerationService) *ProfileHandler {
	return &ProfileHandler{lifecycle: lifecycle, moderation: moderation}
}

type createProfileRequest struct {
	Name      string `json:"name"`
	YearPromo int    `json:"year_promo"`
	// Ensure makes creation idempotent for the signup flow.
	Ensure bool `json:"ensure,omitempty"`
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	var req createProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	input := service.CreateProfileInput{
		UID:       caller.UID,
		Email:     caller.Email,
		Name:      req.Name,
		YearPromo: req.YearPromo,
	}
	var (
		profile *domain.AlumniProfile
		err     error
	)
	if req.Ensure {
		profile, err = h.lifecycle.EnsureProfile(r.Context(), input)
	} else {
		profile, err = h.lifecycle.Create(r.Context(), input)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	profile, err := h.lifecycle.Get(r.Context(), caller.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	Name               string                   `json:"name,omitempty"`
	Email              string                   `json:"email,omitempty"`
	YearPromo          int                      `json:"year_promo,omitempty"`
	Headline           string                   `json:"headline,omitempty"`
	Bio                string                   `json:"bio,omitempty"`
	Position           string                   `json:"position,omitempty"`
	Company            string                   `json:"company,omitempty"`
	CompanyDescription string                   `json:"company_description,omitempty"`
	CompanyWebsite     string                   `json:"company_website,omitempty"`
	PersonalWebsite    string                   `json:"personal_website,omitempty"`
	City               string                   `json:"city,omitempty"`
	Country            string                   `json:"country,omitempty"`
	Availability       string                   `json:"availability,omitempty"`
	PhotoURL           string                   `json:"photo_url,omitempty"`
	Sectors            []string                 `json:"sectors,omitempty"`
	Expertise          []string                 `json:"expertise,omitempty"`
	Seeking            []string                 `json:"seeking,omitempty"`
	Offering           []string                 `json:"offering,omitempty"`
	SoftSkills         []string                 `json:"soft_skills,omitempty"`
	Services           []string                 `json:"services,omitempty"`
	Languages          []domain.Language        `json:"languages,omitempty"`
	Portfolio          []domain.PortfolioItem   `json:"portfolio,omitempty"`
	Education          []domain.EducationEntry  `json:"education,omitempty"`
	Experience         []domain.ExperienceEntry `json:"experience,omitempty"`
	Certifications     []domain.Certification   `json:"certifications,omitempty"`
	SocialLinks        *domain.SocialLinks      `json:"social_links,omitempty"`
	ShowEmail          *bool                    `json:"show_email,omitempty"`
	ShowLocation       *bool                    `json:"show_location,omitempty"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	profile, err := h.lifecycle.Update(r.Context(), caller.UID, service.ProfileUpdate{
		Name:               req.Name,
		Email:              req.Email,
		YearPromo:          req.YearPromo,
		Headline:           req.Headline,
		Bio:                req.Bio,
		Position:           req.Position,
		Company:            req.Company,
		CompanyDescription: req.CompanyDescription,
		CompanyWebsite:     req.CompanyWebsite,
		PersonalWebsite:    req.PersonalWebsite,
		City:               req.City,
		Country:            req.Country,
		Availability:       req.Availability,
		PhotoURL:           req.PhotoURL,
		Sectors:            req.Sectors,
		Expertise:          req.Expertise,
		Seeking:            req.Seeking,
		Offering:           req.Offering,
		SoftSkills:         req.SoftSkills,
		Services:           req.Services,
		Languages:          req.Languages,
		Portfolio:          req.Portfolio,
		Education:          req.Education,
		Experience:         req.Experience,
		Certifications:     req.Certifications,
		SocialLinks:        req.SocialLinks,
		ShowEmail:          req.ShowEmail,
		ShowLocation:       req.ShowLocation,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	profile, err := h.lifecycle.Submit(r.Context(), caller.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) DeleteMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrFail(w, r)
	if !ok {
		return
	}
	// Self-deletion runs through the moderation service too, which lets the
	// owner through without privilege.
	if err := h.moderation.Delete(r.Context(), caller, caller.UID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
