package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "passerelle-backend/internal/api/http"
	"passerelle-backend/internal/auth"
	"passerelle-backend/internal/domain"
	"passerelle-backend/internal/repository/memory"
	"passerelle-backend/internal/service"
)

const testSecret = "router-test-secret-0123456789abcdef"

type stubSender struct {
	err error
}

func (s *stubSender) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	return s.err
}

type fixture struct {
	server  *httptest.Server
	tokens  *auth.DevTokenManager
	sender  *stubSender
	webRepo *memory.WebinarRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	profiles := memory.NewProfileRepository()
	contacts := memory.NewContactRequestRepository()
	webinars := memory.NewWebinarRepository()
	sender := &stubSender{}

	directory := service.NewDirectoryService(profiles, time.Minute, time.Minute)
	lifecycle := service.NewProfileLifecycleService(profiles,
		service.WithTransitionListener(service.NewEmailNotifier(sender)),
		service.WithTransitionListener(directory),
	)
	moderation := service.NewModerationService(lifecycle, profiles)
	contact := service.NewContactService(contacts, profiles, sender)
	webinar := service.NewWebinarService(webinars)

	tokens := auth.NewDevTokenManager(testSecret)
	router := httpapi.NewRouter(httpapi.Handlers{
		Profile:   httpapi.NewProfileHandler(lifecycle, moderation),
		Directory: httpapi.NewDirectoryHandler(directory),
		Admin:     httpapi.NewAdminHandler(moderation),
		Contact:   httpapi.NewContactHandler(contact),
		Webinar:   httpapi.NewWebinarHandler(webinar),
	}, tokens)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &fixture{server: server, tokens: tokens, sender: sender, webRepo: webinars}
}

func (f *fixture) token(t *testing.T, caller domain.Caller) string {
	t.Helper()
	token, err := f.tokens.GenerateToken(caller, time.Hour)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeProfile(t *testing.T, resp *http.Response) domain.AlumniProfile {
	t.Helper()
	var p domain.AlumniProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func TestRouter_PublicAndPrivateRoutes(t *testing.T) {
	f := newFixture(t)

	t.Run("Directory Is Public", func(t *testing.T) {
		resp := f.do(t, "GET", "/api/v1/directory", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Webinars Are Public", func(t *testing.T) {
		resp := f.do(t, "GET", "/api/v1/webinars", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Profile Requires A Token", func(t *testing.T) {
		resp := f.do(t, "GET", "/api/v1/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Invalid Token Refused", func(t *testing.T) {
		resp := f.do(t, "GET", "/api/v1/profile", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRouter_ProfileLifecycleFlow(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, domain.Caller{UID: "u1", Email: "claire@alumni.test", Name: "Claire Dupont"})
	adminTok := f.token(t, domain.Caller{UID: "admin-1", Email: "admin@alumni.test", IsAdmin: true})

	resp := f.do(t, "POST", "/api/v1/profile", owner, map[string]interface{}{
		"name": "Claire Dupont", "year_promo": 2019,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeProfile(t, resp)
	assert.Equal(t, domain.ProfileStatusDraft, created.Status)

	// Duplicate create conflicts; the ensure flag makes it idempotent.
	resp = f.do(t, "POST", "/api/v1/profile", owner, map[string]interface{}{
		"name": "Claire Dupont", "year_promo": 2019,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp = f.do(t, "POST", "/api/v1/profile", owner, map[string]interface{}{
		"name": "Claire Dupont", "year_promo": 2019, "ensure": true,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, "PATCH", "/api/v1/profile", owner, map[string]interface{}{
		"headline": "Consultante", "sectors": []string{"Tech"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeProfile(t, resp)
	assert.Equal(t, "Consultante", updated.Headline)

	resp = f.do(t, "POST", "/api/v1/profile/submit", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.ProfileStatusPending, decodeProfile(t, resp).Status)

	// Submitting twice is an unprocessable transition.
	resp = f.do(t, "POST", "/api/v1/profile/submit", owner, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// The pending profile is invisible in the public directory.
	resp = f.do(t, "GET", "/api/v1/directory", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listing []domain.AlumniProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Empty(t, listing)

	// A non-admin cannot moderate.
	resp = f.do(t, "POST", "/api/v1/admin/profiles/u1/approve", owner, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, "GET", "/api/v1/admin/profiles", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var queue []domain.AlumniProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&queue))
	require.Len(t, queue, 1)

	resp = f.do(t, "POST", "/api/v1/admin/profiles/u1/approve", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	approvedProfile := decodeProfile(t, resp)
	assert.Equal(t, domain.ProfileStatusApproved, approvedProfile.Status)
	assert.Equal(t, "admin-1", approvedProfile.ValidatedBy)

	// Approval invalidated the directory cache.
	resp = f.do(t, "GET", "/api/v1/directory", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	require.Len(t, listing, 1)
	assert.Equal(t, "u1", listing[0].UID)

	resp = f.do(t, "GET", "/api/v1/directory/search?sectors=tech", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Len(t, listing, 1)
}

func TestRouter_RejectNeedsReason(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, domain.Caller{UID: "u1", Email: "u1@alumni.test", Name: "U"})
	adminTok := f.token(t, domain.Caller{UID: "admin-1", IsAdmin: true})

	resp := f.do(t, "POST", "/api/v1/profile", owner, map[string]interface{}{"name": "U", "year_promo": 2020})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = f.do(t, "POST", "/api/v1/profile/submit", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, "POST", "/api/v1/admin/profiles/u1/reject", adminTok, map[string]interface{}{"reason": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, "POST", "/api/v1/admin/profiles/u1/reject", adminTok, map[string]interface{}{"reason": "profil incomplet"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rejected := decodeProfile(t, resp)
	assert.Equal(t, domain.ProfileStatusRejected, rejected.Status)
	assert.Equal(t, "profil incomplet", rejected.RejectionReason)
}

func TestRouter_DeletePermissions(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, domain.Caller{UID: "u1", Email: "u1@alumni.test", Name: "U"})
	adminTok := f.token(t, domain.Caller{UID: "admin-1", IsAdmin: true})
	rootTok := f.token(t, domain.Caller{UID: "root-1", IsSuperAdmin: true})

	resp := f.do(t, "POST", "/api/v1/profile", owner, map[string]interface{}{"name": "U", "year_promo": 2020})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, "DELETE", "/api/v1/admin/profiles/u1", adminTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, "DELETE", "/api/v1/admin/profiles/u1", rootTok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The owner can delete their own account without privilege.
	resp = f.do(t, "POST", "/api/v1/profile", owner, map[string]interface{}{"name": "U", "year_promo": 2020})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = f.do(t, "DELETE", "/api/v1/profile", owner, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = f.do(t, "GET", "/api/v1/profile", owner, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ContactRequests(t *testing.T) {
	f := newFixture(t)
	owner := f.token(t, domain.Caller{UID: "dest-1", Email: "claire@alumni.test", Name: "Claire"})
	sender := f.token(t, domain.Caller{UID: "exp-1", Email: "karim@alumni.test", Name: "Karim"})
	adminTok := f.token(t, domain.Caller{UID: "admin-1", IsAdmin: true})

	resp := f.do(t, "POST", "/api/v1/profile", owner, map[string]interface{}{"name": "Claire", "year_promo": 2019})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = f.do(t, "POST", "/api/v1/profile/submit", owner, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Contacting an unapproved profile looks like a missing profile.
	resp = f.do(t, "POST", "/api/v1/contact-requests", sender, map[string]interface{}{
		"to_uid": "dest-1", "subject": "Bonjour", "message": "Un café ?",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, "POST", "/api/v1/admin/profiles/dest-1/approve", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, "POST", "/api/v1/contact-requests", sender, map[string]interface{}{
		"to_uid": "dest-1", "subject": "Bonjour", "message": "Un café ?",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created domain.ContactRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, domain.ContactStatusSent, created.Status)

	resp = f.do(t, "GET", "/api/v1/contact-requests", sender, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sent []domain.ContactRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sent))
	assert.Len(t, sent, 1)

	// A delivery failure surfaces as a bad gateway.
	f.sender.err = errors.New("smtp refused")
	resp = f.do(t, "POST", "/api/v1/contact-requests", sender, map[string]interface{}{
		"to_uid": "dest-1", "subject": "Relance", "message": "Toujours partant ?",
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestRouter_DirectorySearchParams(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, "GET", "/api/v1/directory/search?promos=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, "GET", "/api/v1/directory/search?promo_from=2019&promo_to=x", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, "GET", "/api/v1/directory?limit=-1", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, "GET", "/api/v1/directory/search?promo_from=2019&promo_to=2021&sectors=Tech,Conseil", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
