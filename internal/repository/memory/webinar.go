package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"passerelle-backend/internal/domain"
)

type WebinarRepository struct {
	mu       sync.RWMutex
	webinars map[string]*domain.Webinar
}

func NewWebinarRepository() *WebinarRepository {
	return &WebinarRepository{webinars: make(map[string]*domain.Webinar)}
}

// Put seeds or replaces a webinar. Used by tests and the dev fixtures.
func (r *WebinarRepository) Put(w domain.Webinar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := w
	r.webinars[w.ID] = &cp
}

func (r *WebinarRepository) List(ctx context.Context) ([]domain.Webinar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Webinar, 0, len(r.webinars))
	for _, w := range r.webinars {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *WebinarRepository) ListUncompleted(ctx context.Context) ([]domain.Webinar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Webinar
	for _, w := range r.webinars {
		if !w.IsCompleted {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *WebinarRepository) Merge(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.webinars[id]
	if !ok {
		return domain.ErrNotFound
	}
	for name, v := range fields {
		switch name {
		case "isLive":
			if b, ok := v.(bool); ok {
				w.IsLive = b
			}
		case "isCompleted":
			if b, ok := v.(bool); ok {
				w.IsCompleted = b
			}
		case "startTime":
			if t, ok := v.(time.Time); ok {
				w.StartTime = t
			}
		case "endTime":
			if t, ok := v.(time.Time); ok {
				w.EndTime = t
			}
		}
	}
	return nil
}
