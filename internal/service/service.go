package service

import (
	"context"

	"passerelle-backend/internal/domain"
)

// CreateProfileInput carries the mandatory fields for a new profile. All
// other profile content arrives later through Update.
type CreateProfileInput struct {
	UID       string
	Email     string
	Name      string
	YearPromo int
}

// ProfileUpdate carries the owner-editable content fields. Zero values mean
// "not provided" and are stripped before the store write; the store never
// sees null-like sentinels. Lifecycle and moderation fields are absent on
// purpose: only the lifecycle engine writes those.
type ProfileUpdate struct {
	Name               string
	Email              string
	YearPromo          int
	Headline           string
	Bio                string
	Position           string
	Company            string
	CompanyDescription string
	CompanyWebsite     string
	PersonalWebsite    string
	City               string
	Country            string
	Availability       string
	PhotoURL           string
	Sectors            []string
	Expertise          []string
	Seeking            []string
	Offering           []string
	SoftSkills         []string
	Services           []string
	Languages          []domain.Language
	Portfolio          []domain.PortfolioItem
	Education          []domain.EducationEntry
	Experience         []domain.ExperienceEntry
	Certifications     []domain.Certification
	SocialLinks        *domain.SocialLinks
	ShowEmail          *bool
	ShowLocation       *bool
}

type ProfileLifecycleService interface {
	Create(ctx context.Context, input CreateProfileInput) (*domain.AlumniProfile, error)
	// EnsureProfile is the signup path: create if absent, return the existing
	// profile otherwise.
	EnsureProfile(ctx context.Context, input CreateProfileInput) (*domain.AlumniProfile, error)
	Get(ctx context.Context, uid string) (*domain.AlumniProfile, error)
	Submit(ctx context.Context, uid string) (*domain.AlumniProfile, error)
	Approve(ctx context.Context, uid, moderatorID string) (*domain.AlumniProfile, error)
	Reject(ctx context.Context, uid, moderatorID, reason string) (*domain.AlumniProfile, error)
	Update(ctx context.Context, uid string, update ProfileUpdate) (*domain.AlumniProfile, error)
	Delete(ctx context.Context, uid string) error
}

// DirectorySort selects the ordering of the approved-profile fetch.
type DirectorySort string

const (
	DirectorySortNameAsc DirectorySort = "name"
	DirectorySortNewest  DirectorySort = "newest"
)

// DirectoryFilters are AND-combined; within each filter, membership is an OR.
type DirectoryFilters struct {
	Query        string
	Sectors      []string
	Expertise    []string
	Seeking      []string
	Offering     []string
	SoftSkills   []string
	Languages    []string
	YearPromos   []int
	City         string
	Country      string
	Availability string
}

type DirectoryService interface {
	ListApproved(ctx context.Context, sort DirectorySort, limit int) ([]domain.AlumniProfile, error)
	Search(ctx context.Context, filters DirectoryFilters) ([]domain.AlumniProfile, error)
}

type ModerationService interface {
	ListByStatus(ctx context.Context, caller domain.Caller, status domain.ProfileStatus) ([]domain.AlumniProfile, error)
	Approve(ctx context.Context, caller domain.Caller, uid string) (*domain.AlumniProfile, error)
	Reject(ctx context.Context, caller domain.Caller, uid, reason string) (*domain.AlumniProfile, error)
	Delete(ctx context.Context, caller domain.Caller, uid string) error
}

type ContactService interface {
	SendContactRequest(ctx context.Context, from domain.Caller, toUID, subject, message string) (*domain.ContactRequest, error)
	ListSent(ctx context.Context, caller domain.Caller) ([]domain.ContactRequest, error)
}

type WebinarService interface {
	ListWebinars(ctx context.Context) ([]domain.Webinar, error)
	// RefreshStatuses flips isLive/isCompleted against the wall clock and
	// returns the number of webinars touched.
	RefreshStatuses(ctx context.Context) (int, error)
}

// EmailSender is the outbound notification port. HTML content may be empty.
type EmailSender interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error
}
