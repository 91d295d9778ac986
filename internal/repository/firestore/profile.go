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

type profileRepository struct {
	client *firestore.Client
}

// NewProfileRepository creates a Firestore-backed profile repository.
func NewProfileRepository(client *firestore.Client) repository.ProfileRepository {
	return &profileRepository{client: client}
}

func (r *profileRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(profilesCollection).Doc(uid)
}

func (r *profileRepository) Create(ctx context.Context, profile *domain.AlumniProfile) error {
	logger.StoreCall("create", profilesCollection, "uid", profile.UID)
	// Create (not Set) so a second signup for the same UID surfaces as
	// AlreadyExists instead of silently overwriting the first profile.
	_, err := r.doc(profile.UID).Create(ctx, profile)
	logger.StoreResult("create", err, "uid", profile.UID)
	return mapError("create profile", err)
}

func (r *profileRepository) GetByUID(ctx context.Context, uid string) (*domain.AlumniProfile, error) {
	logger.StoreCall("get", profilesCollection, "uid", uid)
	snap, err := r.doc(uid).Get(ctx)
	if err != nil {
		logger.StoreResult("get", err, "uid", uid)
		return nil, mapError("get profile", err)
	}
	var p domain.AlumniProfile
	if err := snap.DataTo(&p); err != nil {
		return nil, &domain.StoreError{Op: "decode profile", Err: err}
	}
	return &p, nil
}

func (r *profileRepository) Merge(ctx context.Context, uid string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	logger.StoreCall("merge", profilesCollection, "uid", uid)
	// Guard against resurrecting a deleted profile through a late update.
	if _, err := r.doc(uid).Get(ctx); err != nil {
		return mapError("merge profile", err)
	}
	_, err := r.doc(uid).Set(ctx, mergeFields(fields), firestore.MergeAll)
	logger.StoreResult("merge", err, "uid", uid)
	return mapError("merge profile", err)
}

func (r *profileRepository) Delete(ctx context.Context, uid string) error {
	logger.StoreCall("delete", profilesCollection, "uid", uid)
	_, err := r.doc(uid).Delete(ctx, firestore.Exists)
	logger.StoreResult("delete", err, "uid", uid)
	return mapError("delete profile", err)
}

func (r *profileRepository) ListByStatus(ctx context.Context, st domain.ProfileStatus, sort repository.ProfileSort, limit int) ([]domain.AlumniProfile, error) {
	logger.StoreCall("query", profilesCollection, "status", string(st), "limit", limit)
	q := r.client.Collection(profilesCollection).Where("status", "==", string(st))
	switch sort {
	case repository.ProfileSortCreatedDesc:
		q = q.OrderBy("dateCreated", firestore.Desc)
	default:
		q = q.OrderBy("name", firestore.Asc)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []domain.AlumniProfile
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			logger.StoreResult("query", err)
			return nil, mapError("list profiles", err)
		}
		var p domain.AlumniProfile
		if err := snap.DataTo(&p); err != nil {
			return nil, &domain.StoreError{Op: "decode profile", Err: err}
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *profileRepository) Transition(ctx context.Context, uid string, allowed []domain.ProfileStatus, mutate func(*domain.AlumniProfile) error) (*domain.AlumniProfile, error) {
	ref := r.doc(uid)
	var updated domain.AlumniProfile

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var p domain.AlumniProfile
		if err := snap.DataTo(&p); err != nil {
			return err
		}

		permitted := false
		for _, st := range allowed {
			if p.Status == st {
				permitted = true
				break
			}
		}
		if !permitted {
			return domain.ErrConflict
		}

		if err := mutate(&p); err != nil {
			return err
		}
		updated = p
		return tx.Set(ref, &p)
	})
	if err != nil {
		// Domain errors raised inside the transaction pass through untouched.
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, mapError("transition profile", err)
	}
	return &updated, nil
}
