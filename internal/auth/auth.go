package auth

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"

	"passerelle-backend/internal/domain"
)

// Authenticator resolves a bearer token into the caller identity handed to
// the services. It performs no credential validation of its own beyond token
// verification; roles come from the identity provider's claims.
type Authenticator interface {
	VerifyToken(ctx context.Context, token string) (*domain.Caller, error)
}

type firebaseAuthenticator struct {
	client *fbauth.Client
}

// NewFirebaseAuthenticator verifies Firebase ID tokens. Admin tiers are read
// from the custom claims "admin" and "superadmin" set by the provisioning
// tooling.
func NewFirebaseAuthenticator(client *fbauth.Client) Authenticator {
	return &firebaseAuthenticator{client: client}
}

func (a *firebaseAuthenticator) VerifyToken(ctx context.Context, token string) (*domain.Caller, error) {
	decoded, err := a.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	caller := &domain.Caller{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		caller.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		caller.Name = name
	}
	if admin, ok := decoded.Claims["admin"].(bool); ok {
		caller.IsAdmin = admin
	}
	if superadmin, ok := decoded.Claims["superadmin"].(bool); ok {
		caller.IsSuperAdmin = superadmin
		// superadmin implies the admin tier
		if superadmin {
			caller.IsAdmin = true
		}
	}
	return caller, nil
}
