package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"passerelle-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// DevClaims are the claims carried by locally minted development tokens. The
// shape mirrors what the Firebase verifier extracts so handlers cannot tell
// the two modes apart.
type DevClaims struct {
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	IsAdmin      bool   `json:"admin,omitempty"`
	IsSuperAdmin bool   `json:"superadmin,omitempty"`
	jwt.RegisteredClaims
}

// DevTokenManager mints and verifies HS256 tokens for development and tests,
// where no Firebase project is reachable.
type DevTokenManager struct {
	secret []byte
}

func NewDevTokenManager(secret string) *DevTokenManager {
	return &DevTokenManager{secret: []byte(secret)}
}

// GenerateToken mints a token for the given caller, valid for ttl.
func (m *DevTokenManager) GenerateToken(caller domain.Caller, ttl time.Duration) (string, error) {
	claims := DevClaims{
		Email:        caller.Email,
		Name:         caller.Name,
		IsAdmin:      caller.IsAdmin,
		IsSuperAdmin: caller.IsSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.UID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "passerelle-dev",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyToken implements Authenticator.
func (m *DevTokenManager) VerifyToken(ctx context.Context, tokenString string) (*domain.Caller, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DevClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*DevClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	caller := &domain.Caller{
		UID:          claims.Subject,
		Email:        claims.Email,
		Name:         claims.Name,
		IsAdmin:      claims.IsAdmin || claims.IsSuperAdmin,
		IsSuperAdmin: claims.IsSuperAdmin,
	}
	if caller.UID == "" {
		return nil, ErrInvalidToken
	}
	return caller, nil
}
