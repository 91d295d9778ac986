package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/repository"
	"passerelle-backend/internal/service"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	args := m.Called(ctx, toEmail, toName, subject, plainText, htmlContent)
	return args.Error(0)
}

// recorderListener captures emitted transition events in order.
type recorderListener struct {
	events []service.TransitionEvent
}

func (r *recorderListener) OnTransition(ctx context.Context, event service.TransitionEvent) {
	r.events = append(r.events, event)
}

// interceptRepo wraps a ProfileRepository and runs afterGet once, right after
// the next GetByUID. Tests use it to sneak a concurrent write between the
// service's read and its transactional transition.
type interceptRepo struct {
	repository.ProfileRepository
	afterGet func()
}

func (r *interceptRepo) GetByUID(ctx context.Context, uid string) (*domain.AlumniProfile, error) {
	p, err := r.ProfileRepository.GetByUID(ctx, uid)
	if r.afterGet != nil {
		fn := r.afterGet
		r.afterGet = nil
		fn()
	}
	return p, err
}
