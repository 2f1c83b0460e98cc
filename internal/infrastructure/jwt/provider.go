package jwtinfra

import (
	"errors"
	"time"

	"github.com/GioMjds/Printify-Mobile/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields. Subject carries the user ID.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a process-wide secret.
type Provider struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// ErrSecretMissing is a configuration error, not an auth failure: startup
// must abort when the signing secret is unset.
var ErrSecretMissing = errors.New("jwt: signing secret not configured")

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrSecretMissing
	}
	return &Provider{
		secret:        []byte(cfg.JWTSecret),
		accessExpiry:  cfg.JWTExpiry,
		refreshExpiry: cfg.RefreshExpiry,
	}, nil
}

// SignAccess issues a short-lived bearer token for API access.
func (p *Provider) SignAccess(userID, email, role string) (string, error) {
	return p.sign(userID, email, role, p.accessExpiry)
}

// SignRefresh issues a long-lived token the client exchanges for fresh
// access tokens.
func (p *Provider) SignRefresh(userID, email, role string) (string, error) {
	return p.sign(userID, email, role, p.refreshExpiry)
}

func (p *Provider) sign(userID, email, role string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify parses and validates a token. It fails on a bad signature, a
// malformed payload, expiry, and a payload without a subject.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token payload missing subject")
	}
	return claims, nil
}
