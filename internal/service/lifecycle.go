package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/repository"
)

type lifecycleService struct {
	profileRepo repository.ProfileRepository
	listeners   []TransitionListener
	nowFunc     func() time.Time
}

// LifecycleOption configures the lifecycle service.
type LifecycleOption func(*lifecycleService)

// WithNowFunc overrides the clock. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) LifecycleOption {
	return func(s *lifecycleService) {
		s.nowFunc = nowFunc
	}
}

// WithTransitionListener subscribes a listener to committed transitions.
func WithTransitionListener(l TransitionListener) LifecycleOption {
	return func(s *lifecycleService) {
		s.listeners = append(s.listeners, l)
	}
}

// NewProfileLifecycleService creates the state machine owning every change of
// a profile's status and the consistency of its moderation fields.
func NewProfileLifecycleService(profileRepo repository.ProfileRepository, opts ...LifecycleOption) ProfileLifecycleService {
	s := &lifecycleService{
		profileRepo: profileRepo,
		nowFunc:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *lifecycleService) Create(ctx context.Context, input CreateProfileInput) (*domain.AlumniProfile, error) {
	if input.UID == "" {
		return nil, domain.NewValidationError("uid", "is required")
	}
	if input.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if input.Email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if input.YearPromo == 0 {
		return nil, domain.NewValidationError("year_promo", "is required")
	}

	now := s.nowFunc()
	profile := &domain.AlumniProfile{
		UID:         input.UID,
		Email:       input.Email,
		Name:        input.Name,
		YearPromo:   input.YearPromo,
		Status:      domain.ProfileStatusDraft,
		DateCreated: now,
		DateUpdated: now,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *lifecycleService) EnsureProfile(ctx context.Context, input CreateProfileInput) (*domain.AlumniProfile, error) {
	profile, err := s.Create(ctx, input)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return s.profileRepo.GetByUID(ctx, input.UID)
	}
	return profile, err
}

func (s *lifecycleService) Get(ctx context.Context, uid string) (*domain.AlumniProfile, error) {
	if uid == "" {
		return nil, domain.NewValidationError("uid", "is required")
	}
	return s.profileRepo.GetByUID(ctx, uid)
}

func (s *lifecycleService) Submit(ctx context.Context, uid string) (*domain.AlumniProfile, error) {
	if uid == "" {
		return nil, domain.NewValidationError("uid", "is required")
	}
	current, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case domain.ProfileStatusDraft:
		// the only legal origin
	case domain.ProfileStatusPending, domain.ProfileStatusApproved, domain.ProfileStatusRejected:
		return nil, &domain.InvalidTransitionError{Op: "submit", From: current.Status}
	default:
		return nil, fmt.Errorf("profile %s has unknown status %q", uid, current.Status)
	}

	updated, err := s.profileRepo.Transition(ctx, uid, []domain.ProfileStatus{domain.ProfileStatusDraft}, func(p *domain.AlumniProfile) error {
		p.Status = domain.ProfileStatusPending
		p.DateUpdated = s.nowFunc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, TransitionEvent{
		UID:           updated.UID,
		Email:         updated.Email,
		Name:          updated.Name,
		From:          domain.ProfileStatusDraft,
		To:            domain.ProfileStatusPending,
		StatusChanged: true,
	})
	return updated, nil
}

// approveOrigins also contains APPROVED: re-confirming an approved profile is
// legal and refreshes its validation stamps.
var approveOrigins = []domain.ProfileStatus{
	domain.ProfileStatusPending,
	domain.ProfileStatusRejected,
	domain.ProfileStatusApproved,
}

func (s *lifecycleService) Approve(ctx context.Context, uid, moderatorID string) (*domain.AlumniProfile, error) {
	if uid == "" {
		return nil, domain.NewValidationError("uid", "is required")
	}
	if moderatorID == "" {
		return nil, domain.NewValidationError("moderator_id", "is required")
	}
	current, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := checkOrigin("approve", current.Status, approveOrigins); err != nil {
		return nil, err
	}
	from := current.Status

	updated, err := s.profileRepo.Transition(ctx, uid, approveOrigins, func(p *domain.AlumniProfile) error {
		now := s.nowFunc()
		p.Status = domain.ProfileStatusApproved
		p.DateValidation = &now
		p.ValidatedBy = moderatorID
		p.RejectionReason = ""
		p.DateUpdated = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, TransitionEvent{
		UID:           updated.UID,
		Email:         updated.Email,
		Name:          updated.Name,
		From:          from,
		To:            domain.ProfileStatusApproved,
		ModeratorID:   moderatorID,
		StatusChanged: from != domain.ProfileStatusApproved,
	})
	return updated, nil
}

var rejectOrigins = []domain.ProfileStatus{
	domain.ProfileStatusPending,
	domain.ProfileStatusApproved,
	domain.ProfileStatusRejected,
}

func (s *lifecycleService) Reject(ctx context.Context, uid, moderatorID, reason string) (*domain.AlumniProfile, error) {
	if uid == "" {
		return nil, domain.NewValidationError("uid", "is required")
	}
	if moderatorID == "" {
		return nil, domain.NewValidationError("moderator_id", "is required")
	}
	if reason == "" {
		return nil, domain.NewValidationError("reason", "a rejection reason is required")
	}
	current, err := s.profileRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := checkOrigin("reject", current.Status, rejectOrigins); err != nil {
		return nil, err
	}
	from := current.Status

	updated, err := s.profileRepo.Transition(ctx, uid, rejectOrigins, func(p *domain.AlumniProfile) error {
		p.Status = domain.ProfileStatusRejected
		p.RejectionReason = reason
		p.DateValidation = nil
		p.ValidatedBy = ""
		p.DateUpdated = s.nowFunc()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(ctx, TransitionEvent{
		UID:           updated.UID,
		Email:         updated.Email,
		Name:          updated.Name,
		From:          from,
		To:            domain.ProfileStatusRejected,
		ModeratorID:   moderatorID,
		Reason:        reason,
		StatusChanged: from != domain.ProfileStatusRejected,
	})
	return updated, nil
}

func (s *lifecycleService) Update(ctx context.Context, uid string, update ProfileUpdate) (*domain.AlumniProfile, error) {
	if uid == "" {
		return nil, domain.NewValidationError("uid", "is required")
	}
	fields := update.fields()
	fields["dateUpdated"] = s.nowFunc()
	if err := s.profileRepo.Merge(ctx, uid, fields); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUID(ctx, uid)
}

func (s *lifecycleService) Delete(ctx context.Context, uid string) error {
	if uid == "" {
		return domain.NewValidationError("uid", "is required")
	}
	return s.profileRepo.Delete(ctx, uid)
}

func (s *lifecycleService) emit(ctx context.Context, event TransitionEvent) {
	for _, l := range s.listeners {
		l.OnTransition(ctx, event)
	}
}

func checkOrigin(op string, current domain.ProfileStatus, allowed []domain.ProfileStatus) error {
	for _, st := range allowed {
		if current == st {
			return nil
		}
	}
	switch current {
	case domain.ProfileStatusDraft, domain.ProfileStatusPending, domain.ProfileStatusApproved, domain.ProfileStatusRejected:
		return &domain.InvalidTransitionError{Op: op, From: current}
	default:
		return fmt.Errorf("unknown profile status %q", current)
	}
}

// fields converts the update into a store merge map, stripping everything the
// caller did not provide.
func (u ProfileUpdate) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	setString := func(name, v string) {
		if v != "" {
			fields[name] = v
		}
	}
	setStrings := func(name string, v []string) {
		if len(v) > 0 {
			fields[name] = v
		}
	}

	setString("name", u.Name)
	setString("email", u.Email)
	if u.YearPromo != 0 {
		fields["yearPromo"] = u.YearPromo
	}
	setString("headline", u.Headline)
	setString("bio", u.Bio)
	setString("position", u.Position)
	setString("company", u.Company)
	setString("companyDescription", u.CompanyDescription)
	setString("companyWebsite", u.CompanyWebsite)
	setString("personalWebsite", u.PersonalWebsite)
	setString("city", u.City)
	setString("country", u.Country)
	setString("availability", u.Availability)
	setString("photoURL", u.PhotoURL)
	setStrings("sectors", u.Sectors)
	setStrings("expertise", u.Expertise)
	setStrings("seeking", u.Seeking)
	setStrings("offering", u.Offering)
	setStrings("softSkills", u.SoftSkills)
	setStrings("services", u.Services)
	if len(u.Languages) > 0 {
		fields["languages"] = u.Languages
	}
	if len(u.Portfolio) > 0 {
		fields["portfolio"] = u.Portfolio
	}
	if len(u.Education) > 0 {
		fields["education"] = u.Education
	}
	if len(u.Experience) > 0 {
		fields["experience"] = u.Experience
	}
	if len(u.Certifications) > 0 {
		fields["certifications"] = u.Certifications
	}
	if u.SocialLinks != nil {
		fields["socialLinks"] = *u.SocialLinks
	}
	if u.ShowEmail != nil {
		fields["showEmail"] = *u.ShowEmail
	}
	if u.ShowLocation != nil {
		fields["showLocation"] = *u.ShowLocation
	}
	return fields
}
