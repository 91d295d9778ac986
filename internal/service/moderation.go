package service

import (
	"context"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/logger"
	"passerelle-backend/internal/repository"
)

type moderationService struct {
	lifecycle   ProfileLifecycleService
	profileRepo repository.ProfileRepository
}

// NewModerationService wraps the lifecycle engine with the two-tier privilege
// model: admins approve and reject, superadmins additionally delete other
// people's profiles. Owners always operate on their own profile through the
// unprivileged path.
func NewModerationService(lifecycle ProfileLifecycleService, profileRepo repository.ProfileRepository) ModerationService {
	return &moderationService{
		lifecycle:   lifecycle,
		profileRepo: profileRepo,
	}
}

func (s *moderationService) ListByStatus(ctx context.Context, caller domain.Caller, status domain.ProfileStatus) ([]domain.AlumniProfile, error) {
	if !caller.IsAdmin && !caller.IsSuperAdmin {
		return nil, domain.ErrPermissionDenied
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "unknown status value")
	}
	return s.profileRepo.ListByStatus(ctx, status, repository.ProfileSortCreatedDesc, 0)
}

func (s *moderationService) Approve(ctx context.Context, caller domain.Caller, uid string) (*domain.AlumniProfile, error) {
	if !caller.IsAdmin && !caller.IsSuperAdmin {
		return nil, domain.ErrPermissionDenied
	}
	profile, err := s.lifecycle.Approve(ctx, uid, caller.UID)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Profile approved", "uid", uid, "moderator", caller.UID)
	return profile, nil
}

func (s *moderationService) Reject(ctx context.Context, caller domain.Caller, uid, reason string) (*domain.AlumniProfile, error) {
	if !caller.IsAdmin && !caller.IsSuperAdmin {
		return nil, domain.ErrPermissionDenied
	}
	// Block the empty reason here as well: the engine must never see a
	// rejection without one.
	if reason == "" {
		return nil, domain.NewValidationError("reason", "a rejection reason is required")
	}
	profile, err := s.lifecycle.Reject(ctx, uid, caller.UID, reason)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Profile rejected", "uid", uid, "moderator", caller.UID)
	return profile, nil
}

func (s *moderationService) Delete(ctx context.Context, caller domain.Caller, uid string) error {
	// Self-deletion bypasses the privilege check entirely; deleting someone
	// else's profile requires superadmin, and plain admin is refused loudly.
	if !caller.Owns(uid) && !caller.IsSuperAdmin {
		return domain.ErrPermissionDenied
	}
	if err := s.lifecycle.Delete(ctx, uid); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Profile deleted", "uid", uid, "caller", caller.UID)
	return nil
}
