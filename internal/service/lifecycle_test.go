package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/repository/memory"
	"passerelle-backend/internal/service"
)

var testNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func newLifecycle(t *testing.T, opts ...service.LifecycleOption) (service.ProfileLifecycleService, *memory.ProfileRepository) {
	t.Helper()
	repo := memory.NewProfileRepository()
	opts = append([]service.LifecycleOption{service.WithNowFunc(func() time.Time { return testNow })}, opts...)
	return service.NewProfileLifecycleService(repo, opts...), repo
}

func createDraft(t *testing.T, svc service.ProfileLifecycleService, uid string) *domain.AlumniProfile {
	t.Helper()
	profile, err := svc.Create(context.Background(), service.CreateProfileInput{
		UID:       uid,
		Email:     uid + "@alumni.test",
		Name:      "Claire Dupont",
		YearPromo: 2019,
	})
	require.NoError(t, err)
	return profile
}

func TestLifecycle_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLifecycle(t)

	t.Run("Success", func(t *testing.T) {
		profile := createDraft(t, svc, "u1")
		assert.Equal(t, domain.ProfileStatusDraft, profile.Status)
		assert.Equal(t, testNow, profile.DateCreated)
		assert.Equal(t, testNow, profile.DateUpdated)
		assert.Nil(t, profile.DateValidation)
		assert.NoError(t, profile.CheckModerationInvariants())
	})

	t.Run("Duplicate UID", func(t *testing.T) {
		_, err := svc.Create(ctx, service.CreateProfileInput{
			UID: "u1", Email: "other@alumni.test", Name: "Other", YearPromo: 2020,
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("Missing Required Fields", func(t *testing.T) {
		var ve *domain.ValidationError
		_, err := svc.Create(ctx, service.CreateProfileInput{UID: "u2", Email: "u2@alumni.test", YearPromo: 2020})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)

		_, err = svc.Create(ctx, service.CreateProfileInput{UID: "u2", Email: "u2@alumni.test", Name: "N"})
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "year_promo", ve.Field)
	})
}

func TestLifecycle_EnsureProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLifecycle(t)
	first := createDraft(t, svc, "u1")

	// A second signup with the same UID must return the existing profile
	// untouched instead of failing.
	again, err := svc.EnsureProfile(ctx, service.CreateProfileInput{
		UID: "u1", Email: "changed@alumni.test", Name: "Changed", YearPromo: 2022,
	})
	require.NoError(t, err)
	assert.Equal(t, first.Name, again.Name)
	assert.Equal(t, first.Email, again.Email)
	assert.Equal(t, first.YearPromo, again.YearPromo)
}

func TestLifecycle_Submit(t *testing.T) {
	ctx := context.Background()
	recorder := &recorderListener{}
	svc, _ := newLifecycle(t, service.WithTransitionListener(recorder))
	createDraft(t, svc, "u1")

	t.Run("Draft To Pending", func(t *testing.T) {
		profile, err := svc.Submit(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusPending, profile.Status)
		require.Len(t, recorder.events, 1)
		assert.Equal(t, domain.ProfileStatusDraft, recorder.events[0].From)
		assert.Equal(t, domain.ProfileStatusPending, recorder.events[0].To)
		assert.True(t, recorder.events[0].StatusChanged)
	})

	t.Run("Resubmit Refused", func(t *testing.T) {
		var te *domain.InvalidTransitionError
		_, err := svc.Submit(ctx, "u1")
		require.ErrorAs(t, err, &te)
		assert.Equal(t, domain.ProfileStatusPending, te.From)
		assert.Len(t, recorder.events, 1)
	})

	t.Run("Unknown UID", func(t *testing.T) {
		_, err := svc.Submit(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLifecycle_Approve(t *testing.T) {
	ctx := context.Background()
	recorder := &recorderListener{}
	svc, _ := newLifecycle(t, service.WithTransitionListener(recorder))
	createDraft(t, svc, "u1")

	t.Run("From Draft Refused", func(t *testing.T) {
		var te *domain.InvalidTransitionError
		_, err := svc.Approve(ctx, "u1", "admin-1")
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "approve", te.Op)
	})

	_, err := svc.Submit(ctx, "u1")
	require.NoError(t, err)
	recorder.events = nil

	t.Run("From Pending", func(t *testing.T) {
		profile, err := svc.Approve(ctx, "u1", "admin-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusApproved, profile.Status)
		require.NotNil(t, profile.DateValidation)
		assert.Equal(t, testNow, *profile.DateValidation)
		assert.Equal(t, "admin-1", profile.ValidatedBy)
		assert.Empty(t, profile.RejectionReason)
		assert.NoError(t, profile.CheckModerationInvariants())

		require.Len(t, recorder.events, 1)
		assert.Equal(t, domain.ProfileStatusApproved, recorder.events[0].To)
		assert.Equal(t, "admin-1", recorder.events[0].ModeratorID)
		assert.True(t, recorder.events[0].StatusChanged)
	})

	t.Run("Re-Approval Refreshes Stamps", func(t *testing.T) {
		profile, err := svc.Approve(ctx, "u1", "admin-2")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusApproved, profile.Status)
		assert.Equal(t, "admin-2", profile.ValidatedBy)
		assert.NoError(t, profile.CheckModerationInvariants())

		require.Len(t, recorder.events, 2)
		assert.False(t, recorder.events[1].StatusChanged)
	})

	t.Run("Missing Moderator", func(t *testing.T) {
		var ve *domain.ValidationError
		_, err := svc.Approve(ctx, "u1", "")
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "moderator_id", ve.Field)
	})
}

func TestLifecycle_Reject(t *testing.T) {
	ctx := context.Background()
	recorder := &recorderListener{}
	svc, _ := newLifecycle(t, service.WithTransitionListener(recorder))
	createDraft(t, svc, "u1")
	_, err := svc.Submit(ctx, "u1")
	require.NoError(t, err)

	t.Run("Empty Reason Refused", func(t *testing.T) {
		var ve *domain.ValidationError
		_, err := svc.Reject(ctx, "u1", "admin-1", "")
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "reason", ve.Field)

		// The refused rejection must leave the profile untouched.
		profile, err := svc.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusPending, profile.Status)
	})

	recorder.events = nil

	t.Run("From Pending", func(t *testing.T) {
		profile, err := svc.Reject(ctx, "u1", "admin-1", "photo manquante")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusRejected, profile.Status)
		assert.Equal(t, "photo manquante", profile.RejectionReason)
		assert.Nil(t, profile.DateValidation)
		assert.Empty(t, profile.ValidatedBy)
		assert.NoError(t, profile.CheckModerationInvariants())

		require.Len(t, recorder.events, 1)
		assert.Equal(t, "photo manquante", recorder.events[0].Reason)
		assert.True(t, recorder.events[0].StatusChanged)
	})

	t.Run("Re-Rejection Updates Reason", func(t *testing.T) {
		profile, err := svc.Reject(ctx, "u1", "admin-2", "profil incomplet")
		require.NoError(t, err)
		assert.Equal(t, "profil incomplet", profile.RejectionReason)
		require.Len(t, recorder.events, 2)
		assert.False(t, recorder.events[1].StatusChanged)
	})

	t.Run("Rejected Profile Can Be Approved", func(t *testing.T) {
		profile, err := svc.Approve(ctx, "u1", "admin-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusApproved, profile.Status)
		assert.Empty(t, profile.RejectionReason)
		assert.NoError(t, profile.CheckModerationInvariants())
	})

	t.Run("Revocation Clears Stamps", func(t *testing.T) {
		profile, err := svc.Reject(ctx, "u1", "admin-1", "signalement")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusRejected, profile.Status)
		assert.Nil(t, profile.DateValidation)
		assert.Empty(t, profile.ValidatedBy)
		assert.NoError(t, profile.CheckModerationInvariants())
	})
}

func TestLifecycle_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLifecycle(t)
	createDraft(t, svc, "u1")

	t.Run("Only Provided Fields Change", func(t *testing.T) {
		profile, err := svc.Update(ctx, "u1", service.ProfileUpdate{
			Headline: "Consultante indépendante",
			Sectors:  []string{"Conseil"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Consultante indépendante", profile.Headline)
		assert.Equal(t, []string{"Conseil"}, profile.Sectors)
		// Fields absent from the update keep their value.
		assert.Equal(t, "Claire Dupont", profile.Name)
		assert.Equal(t, 2019, profile.YearPromo)
		assert.Equal(t, testNow, profile.DateUpdated)
	})

	t.Run("Pointer Fields Carry False", func(t *testing.T) {
		hide := false
		profile, err := svc.Update(ctx, "u1", service.ProfileUpdate{ShowEmail: &hide})
		require.NoError(t, err)
		assert.False(t, profile.ShowEmail)
		assert.Equal(t, "Consultante indépendante", profile.Headline)
	})

	t.Run("Unknown UID", func(t *testing.T) {
		_, err := svc.Update(ctx, "ghost", service.ProfileUpdate{Bio: "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLifecycle_SubmitConflict(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	wrapped := &interceptRepo{ProfileRepository: repo}
	svc := service.NewProfileLifecycleService(wrapped, service.WithNowFunc(func() time.Time { return testNow }))
	createDraft(t, svc, "u1")

	// Between the service's read and its transition, a concurrent submit wins
	// the race. The second writer must get a conflict, not a double submit.
	wrapped.afterGet = func() {
		_, err := repo.Transition(ctx, "u1", []domain.ProfileStatus{domain.ProfileStatusDraft}, func(p *domain.AlumniProfile) error {
			p.Status = domain.ProfileStatusPending
			return nil
		})
		require.NoError(t, err)
	}

	_, err := svc.Submit(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	profile, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileStatusPending, profile.Status)
}

func TestLifecycle_NotificationFailureDoesNotFailTransition(t *testing.T) {
	ctx := context.Background()
	sender := new(MockEmailSender)
	sender.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("sendgrid is down"))

	svc, _ := newLifecycle(t, service.WithTransitionListener(service.NewEmailNotifier(sender)))
	createDraft(t, svc, "u1")
	_, err := svc.Submit(ctx, "u1")
	require.NoError(t, err)

	profile, err := svc.Approve(ctx, "u1", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileStatusApproved, profile.Status)

	// The approval email was attempted and failed, yet the transition stuck.
	sender.AssertNumberOfCalls(t, "SendEmail", 1)
	stored, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileStatusApproved, stored.Status)
}

func TestLifecycle_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLifecycle(t)
	createDraft(t, svc, "u1")

	require.NoError(t, svc.Delete(ctx, "u1"))
	_, err := svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u1"), domain.ErrNotFound)
}
