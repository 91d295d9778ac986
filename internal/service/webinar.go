package service

import (
	"context"
	"time"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/logger"
	"passerelle-backend/internal/repository"
)

type webinarService struct {
	webinarRepo repository.WebinarRepository
	nowFunc     func() time.Time
}

// WebinarOption configures the webinar service.
type WebinarOption func(*webinarService)

// WithWebinarNowFunc overrides the clock. Useful for testing.
func WithWebinarNowFunc(nowFunc func() time.Time) WebinarOption {
	return func(s *webinarService) {
		s.nowFunc = nowFunc
	}
}

// NewWebinarService maintains the derived isLive/isCompleted flags so the
// frontend can query them with plain equality filters.
func NewWebinarService(webinarRepo repository.WebinarRepository, opts ...WebinarOption) WebinarService {
	s := &webinarService{
		webinarRepo: webinarRepo,
		nowFunc:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *webinarService) ListWebinars(ctx context.Context) ([]domain.Webinar, error) {
	return s.webinarRepo.List(ctx)
}

func (s *webinarService) RefreshStatuses(ctx context.Context) (int, error) {
	webinars, err := s.webinarRepo.ListUncompleted(ctx)
	if err != nil {
		return 0, err
	}

	now := s.nowFunc()
	touched := 0
	for _, w := range webinars {
		live := !now.Before(w.StartTime) && now.Before(w.EndTime)
		completed := !now.Before(w.EndTime)
		if live == w.IsLive && completed == w.IsCompleted {
			continue
		}
		fields := map[string]interface{}{
			"isLive":      live,
			"isCompleted": completed,
		}
		if err := s.webinarRepo.Merge(ctx, w.ID, fields); err != nil {
			logger.ErrorContext(ctx, "Failed to update webinar status", "id", w.ID, "error", err)
			continue
		}
		touched++
	}
	return touched, nil
}
