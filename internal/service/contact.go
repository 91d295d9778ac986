package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/logger"
	"passerelle-backend/internal/repository"
)

type contactService struct {
	contactRepo repository.ContactRequestRepository
	profileRepo repository.ProfileRepository
	sender      EmailSender
	nowFunc     func() time.Time
}

// ContactOption configures the contact service.
type ContactOption func(*contactService)

// WithContactNowFunc overrides the clock. Useful for testing.
func WithContactNowFunc(nowFunc func() time.Time) ContactOption {
	return func(s *contactService) {
		s.nowFunc = nowFunc
	}
}

// NewContactService creates the mediated outreach channel between directory
// readers and profile owners. Unlike lifecycle notifications, a failed
// delivery here fails the whole operation: a contact request nobody received
// has no value of its own.
func NewContactService(contactRepo repository.ContactRequestRepository, profileRepo repository.ProfileRepository, sender EmailSender, opts ...ContactOption) ContactService {
	s := &contactService{
		contactRepo: contactRepo,
		profileRepo: profileRepo,
		sender:      sender,
		nowFunc:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *contactService) SendContactRequest(ctx context.Context, from domain.Caller, toUID, subject, message string) (*domain.ContactRequest, error) {
	if from.UID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if toUID == "" {
		return nil, domain.NewValidationError("to_uid", "is required")
	}
	if from.UID == toUID {
		return nil, domain.NewValidationError("to_uid", "cannot contact yourself")
	}
	if subject == "" {
		return nil, domain.NewValidationError("subject", "is required")
	}
	if message == "" {
		return nil, domain.NewValidationError("message", "is required")
	}

	recipient, err := s.profileRepo.GetByUID(ctx, toUID)
	if err != nil {
		return nil, err
	}
	// Only approved profiles are reachable through the directory.
	if recipient.Status != domain.ProfileStatusApproved {
		return nil, domain.ErrNotFound
	}

	req := &domain.ContactRequest{
		ID:          uuid.NewString(),
		FromUID:     from.UID,
		FromName:    from.Name,
		FromEmail:   from.Email,
		ToUID:       recipient.UID,
		ToName:      recipient.Name,
		ToEmail:     recipient.Email,
		Subject:     subject,
		Message:     message,
		Status:      domain.ContactStatusPending,
		DateCreated: s.nowFunc(),
	}
	if err := s.contactRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	body := fmt.Sprintf(
		"Bonjour %s,\n\n%s (%s) souhaite vous contacter via l'annuaire des alumni.\n\nObjet : %s\n\n%s\n\nVous pouvez lui répondre directement à %s.\n\nL'équipe Passerelle",
		recipient.Name, from.Name, from.Email, subject, message, from.Email,
	)
	sendErr := s.sender.SendEmail(ctx, recipient.Email, recipient.Name, fmt.Sprintf("[Annuaire] %s", subject), body, "")

	if sendErr != nil {
		if err := s.contactRepo.UpdateStatus(ctx, req.ID, domain.ContactStatusFailed); err != nil {
			logger.ErrorContext(ctx, "Failed to mark contact request as failed", "id", req.ID, "error", err)
		}
		req.Status = domain.ContactStatusFailed
		// No retry: a failed send is terminal for this request.
		return req, &domain.DeliveryError{Recipient: recipient.Email, Err: sendErr}
	}

	if err := s.contactRepo.UpdateStatus(ctx, req.ID, domain.ContactStatusSent); err != nil {
		logger.ErrorContext(ctx, "Failed to mark contact request as sent", "id", req.ID, "error", err)
	}
	req.Status = domain.ContactStatusSent
	return req, nil
}

func (s *contactService) ListSent(ctx context.Context, caller domain.Caller) ([]domain.ContactRequest, error) {
	if caller.UID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.contactRepo.ListByFromUID(ctx, caller.UID)
}
