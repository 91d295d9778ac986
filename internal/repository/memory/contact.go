package memory

import (
	"context"
	"sort"
	"sync"

	"passerelle-backend/internal/domain"
)

type ContactRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.ContactRequest
}

func NewContactRequestRepository() *ContactRequestRepository {
	return &ContactRequestRepository{requests: make(map[string]*domain.ContactRequest)}
}

func (r *ContactRequestRepository) Create(ctx context.Context, req *domain.ContactRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *ContactRequestRepository) GetByID(ctx context.Context, id string) (*domain.ContactRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *ContactRequestRepository) UpdateStatus(ctx context.Context, id string, st domain.ContactStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return domain.ErrNotFound
	}
	req.Status = st
	return nil
}

func (r *ContactRequestRepository) ListByFromUID(ctx context.Context, fromUID string) ([]domain.ContactRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ContactRequest
	for _, req := range r.requests {
		if req.FromUID == fromUID {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateCreated.After(out[j].DateCreated) })
	return out, nil
}
