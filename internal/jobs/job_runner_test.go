package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"passerelle-backend/internal/config"
	"passerelle-backend/internal/domain"
)

type stubWebinarService struct {
	touched int
	err     error
	calls   int
	panics  bool
}

func (s *stubWebinarService) ListWebinars(ctx context.Context) ([]domain.Webinar, error) {
	return nil, nil
}

func (s *stubWebinarService) RefreshStatuses(ctx context.Context) (int, error) {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.touched, s.err
}

func TestJobRunner_UpdateWebinarStatuses(t *testing.T) {
	t.Run("Runs The Sweep", func(t *testing.T) {
		svc := &stubWebinarService{touched: 3}
		jr := NewJobRunner(svc, &config.Config{})
		jr.UpdateWebinarStatuses()
		assert.Equal(t, 1, svc.calls)
	})

	t.Run("Sweep Errors Do Not Propagate", func(t *testing.T) {
		svc := &stubWebinarService{err: errors.New("store down")}
		jr := NewJobRunner(svc, &config.Config{})
		assert.NotPanics(t, jr.UpdateWebinarStatuses)
		assert.Equal(t, 1, svc.calls)
	})

	t.Run("Panics Are Recovered", func(t *testing.T) {
		svc := &stubWebinarService{panics: true}
		jr := NewJobRunner(svc, &config.Config{})
		assert.NotPanics(t, jr.UpdateWebinarStatuses)
	})
}
