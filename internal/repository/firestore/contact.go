package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/logger"
	"passerelle-backend/internal/repository"
)

type contactRequestRepository struct {
	client *firestore.Client
}

// NewContactRequestRepository creates a Firestore-backed contact request repository.
func NewContactRequestRepository(client *firestore.Client) repository.ContactRequestRepository {
	return &contactRequestRepository{client: client}
}

func (r *contactRequestRepository) Create(ctx context.Context, req *domain.ContactRequest) error {
	logger.StoreCall("create", contactsCollection, "id", req.ID)
	_, err := r.client.Collection(contactsCollection).Doc(req.ID).Create(ctx, req)
	logger.StoreResult("create", err, "id", req.ID)
	return mapError("create contact request", err)
}

func (r *contactRequestRepository) GetByID(ctx context.Context, id string) (*domain.ContactRequest, error) {
	snap, err := r.client.Collection(contactsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError("get contact request", err)
	}
	var req domain.ContactRequest
	if err := snap.DataTo(&req); err != nil {
		return nil, &domain.StoreError{Op: "decode contact request", Err: err}
	}
	return &req, nil
}

func (r *contactRequestRepository) UpdateStatus(ctx context.Context, id string, st domain.ContactStatus) error {
	logger.StoreCall("update", contactsCollection, "id", id, "status", string(st))
	_, err := r.client.Collection(contactsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
	})
	logger.StoreResult("update", err, "id", id)
	return mapError("update contact request", err)
}

func (r *contactRequestRepository) ListByFromUID(ctx context.Context, fromUID string) ([]domain.ContactRequest, error) {
	iter := r.client.Collection(contactsCollection).
		Where("fromUid", "==", fromUID).
		OrderBy("dateCreated", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []domain.ContactRequest
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError("list contact requests", err)
		}
		var req domain.ContactRequest
		if err := snap.DataTo(&req); err != nil {
			return nil, &domain.StoreError{Op: "decode contact request", Err: err}
		}
		out = append(out, req)
	}
	return out, nil
}
