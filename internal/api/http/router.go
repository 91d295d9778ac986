package http

import (
	"github.com/gorilla/mux"

	"passerelle-backend/internal/auth"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Profile   *ProfileHandler
	Directory *DirectoryHandler
	Admin     *AdminHandler
	Contact   *ContactHandler
	Webinar   *WebinarHandler
}

// NewRouter mounts the API. The directory and webinar listings are public;
// everything else requires an authenticated caller.
func NewRouter(h Handlers, authenticator auth.Authenticator) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	// public read side
	api.HandleFunc("/directory", h.Directory.List).Methods("GET")
	api.HandleFunc("/directory/search", h.Directory.Search).Methods("GET")
	api.HandleFunc("/webinars", h.Webinar.List).Methods("GET")

	// owner-scoped profile operations
	private := api.NewRoute().Subrouter()
	private.Use(RequireAuth(authenticator))
	private.HandleFunc("/profile", h.Profile.Create).Methods("POST")
	private.HandleFunc("/profile", h.Profile.GetMine).Methods("GET")
	private.HandleFunc("/profile", h.Profile.Update).Methods("PATCH")
	private.HandleFunc("/profile", h.Profile.DeleteMine).Methods("DELETE")
	private.HandleFunc("/profile/submit", h.Profile.Submit).Methods("POST")

	// contact mediation
	private.HandleFunc("/contact-requests", h.Contact.Send).Methods("POST")
	private.HandleFunc("/contact-requests", h.Contact.ListSent).Methods("GET")

	// validation screen
	private.HandleFunc("/admin/profiles", h.Admin.ListByStatus).Methods("GET")
	private.HandleFunc("/admin/profiles/{uid}/approve", h.Admin.Approve).Methods("POST")
	private.HandleFunc("/admin/profiles/{uid}/reject", h.Admin.Reject).Methods("POST")
	private.HandleFunc("/admin/profiles/{uid}", h.Admin.Delete).Methods("DELETE")

	return router
}
