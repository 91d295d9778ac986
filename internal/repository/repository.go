package repository

import (
	"context"

	"passerelle-backend/internal/domain"
)

// ProfileSort selects the single-field ordering supported by the store.
type ProfileSort string

const (
	ProfileSortNameAsc     ProfileSort = "name_asc"
	ProfileSortCreatedDesc ProfileSort = "created_desc"
)

type ProfileRepository interface {
	// Create fails with domain.ErrAlreadyExists if a profile for the UID exists.
	Create(ctx context.Context, profile *domain.AlumniProfile) error
	GetByUID(ctx context.Context, uid string) (*domain.AlumniProfile, error)
	// Merge performs a field-level merge of the given fields into the stored
	// document. Values of domain type FieldDelete remove the field entirely.
	Merge(ctx context.Context, uid string, fields map[string]interface{}) error
	Delete(ctx context.Context, uid string) error
	ListByStatus(ctx context.Context, status domain.ProfileStatus, sort ProfileSort, limit int) ([]domain.AlumniProfile, error)

	// Transition atomically re-reads the profile, verifies its status is one
	// of allowed, applies mutate and persists the result. It fails with
	// domain.ErrConflict when the status precondition does not hold, making
	// concurrent moderation a first-writer-wins race instead of last-write-wins.
	Transition(ctx context.Context, uid string, allowed []domain.ProfileStatus, mutate func(*domain.AlumniProfile) error) (*domain.AlumniProfile, error)
}

// FieldDelete is the sentinel accepted by Merge to remove a stored field.
type FieldDelete struct{}

type ContactRequestRepository interface {
	Create(ctx context.Context, req *domain.ContactRequest) error
	GetByID(ctx context.Context, id string) (*domain.ContactRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error
	ListByFromUID(ctx context.Context, fromUID string) ([]domain.ContactRequest, error)
}

type WebinarRepository interface {
	List(ctx context.Context) ([]domain.Webinar, error)
	// ListUncompleted returns webinars whose flags may still need flipping.
	ListUncompleted(ctx context.Context) ([]domain.Webinar, error)
	Merge(ctx context.Context, id string, fields map[string]interface{}) error
}
