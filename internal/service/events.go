package service

import (
	"context"

	"passerelle-backend/internal/domain"
)

// TransitionEvent describes one committed lifecycle transition. It is emitted
// strictly after the store write succeeds, so listeners act on durable state.
type TransitionEvent struct {
	UID         string
	Email       string
	Name        string
	From        domain.ProfileStatus
	To          domain.ProfileStatus
	ModeratorID string
	Reason      string
	// StatusChanged is false for idempotent re-approvals and re-rejections,
	// where only the stamps or the reason moved.
	StatusChanged bool
}

// TransitionListener receives committed transitions. Implementations own
// their failure policy; the lifecycle engine neither waits on retries nor
// sees listener errors.
type TransitionListener interface {
	OnTransition(ctx context.Context, event TransitionEvent)
}
