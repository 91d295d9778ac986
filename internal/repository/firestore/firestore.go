package firestore

import (
	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/repository"
)

const (
	profilesCollection = "alumni"
	contactsCollection = "contactRequests"
	webinarsCollection = "webinars"
)

// Store bundles the Firestore-backed repositories behind one client.
type Store struct {
	ProfileRepository repository.ProfileRepository
	ContactRepository repository.ContactRequestRepository
	WebinarRepository repository.WebinarRepository
}

// NewStore creates Firestore repositories sharing the given client.
func NewStore(client *firestore.Client) *Store {
	return &Store{
		ProfileRepository: NewProfileRepository(client),
		ContactRepository: NewContactRequestRepository(client),
		WebinarRepository: NewWebinarRepository(client),
	}
}

// mapError translates Firestore status codes into the domain error taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return domain.ErrNotFound
	case codes.AlreadyExists:
		return domain.ErrAlreadyExists
	case codes.Aborted, codes.FailedPrecondition:
		return domain.ErrConflict
	default:
		return &domain.StoreError{Op: op, Err: err}
	}
}

// mergeFields rewrites the repository's delete sentinel into Firestore's.
func mergeFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := v.(repository.FieldDelete); ok {
			out[k] = firestore.Delete
			continue
		}
		out[k] = v
	}
	return out
}
