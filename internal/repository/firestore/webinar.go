package firestore

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/repository"
)

type webinarRepository struct {
	client *firestore.Client
}

// NewWebinarRepository creates a Firestore-backed webinar repository.
func NewWebinarRepository(client *firestore.Client) repository.WebinarRepository {
	return &webinarRepository{client: client}
}

func (r *webinarRepository) List(ctx context.Context) ([]domain.Webinar, error) {
	iter := r.client.Collection(webinarsCollection).OrderBy("startTime", firestore.Asc).Documents(ctx)
	return collectWebinars(iter)
}

func (r *webinarRepository) ListUncompleted(ctx context.Context) ([]domain.Webinar, error) {
	iter := r.client.Collection(webinarsCollection).Where("isCompleted", "==", false).Documents(ctx)
	return collectWebinars(iter)
}

func (r *webinarRepository) Merge(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	_, err := r.client.Collection(webinarsCollection).Doc(id).Set(ctx, mergeFields(fields), firestore.MergeAll)
	return mapError("merge webinar", err)
}

func collectWebinars(iter *firestore.DocumentIterator) ([]domain.Webinar, error) {
	defer iter.Stop()
	var out []domain.Webinar
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapError("list webinars", err)
		}
		var w domain.Webinar
		if err := snap.DataTo(&w); err != nil {
			return nil, &domain.StoreError{Op: "decode webinar", Err: err}
		}
		out = append(out, w)
	}
	return out, nil
}
