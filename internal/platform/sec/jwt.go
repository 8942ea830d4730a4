// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth service's TokenProvider interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dangtruong/mailcamp/pkg/uuid"
)

// # Decode Classification
//
// Callers must be able to special-case "parses fine but expired" from garbage
// input. These sentinels are for internal diagnostics only; the HTTP boundary
// collapses all of them into a uniform 401 response.
var (
	// ErrTokenMalformed indicates input that is not a three-segment JWT at all.
	ErrTokenMalformed = errors.New("sec: malformed token")

	// ErrTokenSignature indicates a structurally valid token whose signature
	// does not verify against the configured secret.
	ErrTokenSignature = errors.New("sec: invalid token signature")

	// ErrTokenExpired indicates a cryptographically valid token whose exp
	// claim is in the past.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenClaims indicates a verified token with unacceptable claims
	// (wrong issuer or audience).
	ErrTokenClaims = errors.New("sec: invalid token claims")
)

// ConfigurationError reports a missing required token-service setting.
//
// It is fatal at startup and never recoverable per-request.
type ConfigurationError struct {
	Setting string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "sec: missing required configuration: " + e.Setting
}

// AuthClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the UserID, Email, and Roles directly inside the JWT,
// the authentication middleware can reconstruct the active user context
// WITHOUT querying the database on every single API request. The session
// liveness check still runs against stored state, but identity and role
// resolution stay token-local.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string   `json:"uid"`
	Email  string   `json:"eml"`
	Roles  []string `json:"rls"`
}

// HasRole reports whether the claim's role set contains the target role.
// This is a flat set-membership test; there is no role hierarchy.
func (c *AuthClaims) HasRole(target UserRole) bool {
	for _, role := range c.Roles {
		if UserRole(role) == target {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the claim's role set intersects the given roles.
func (c *AuthClaims) HasAnyRole(targets ...UserRole) bool {
	for _, target := range targets {
		if c.HasRole(target) {
			return true
		}
	}
	return false
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// The signing key is symmetric, derived from a configured secret. Both sides
// of issuance and verification live server-side; clients only ever perform an
// unsigned expiry check (see pkg/authclient).
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// NewTokenService creates a new TokenService.
//
// It fails fast with a [*ConfigurationError] if the issuer, audience, or
// signing secret is empty, and rejects non-positive lifetimes.
func NewTokenService(secret, issuer, audience string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, &ConfigurationError{Setting: "signing secret"}
	}
	if issuer == "" {
		return nil, &ConfigurationError{Setting: "issuer"}
	}
	if audience == "" {
		return nil, &ConfigurationError{Setting: "audience"}
	}
	if ttl <= 0 {
		return nil, &ConfigurationError{Setting: "token ttl"}
	}

	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}, nil
}

// TTL returns the configured credential lifetime.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}

// Generate creates a new signed JWT access token for a user.
//
// # Claims
//   - sub/uid: the account ID
//   - eml: the account email
//   - rls: one entry per granted role
//   - jti: a freshly generated unique token ID (UUIDv7)
//   - iat: now; exp: now + configured TTL
func (service *TokenService) Generate(userID, email string, roles []string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			Audience:  jwt.ClaimStrings{service.audience},
			ID:        uuid.New(),
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID: userID,
		Email:  email,
		Roles:  roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature, issuer, audience, and expiry of a JWT string.
//
// Failures are classified into [ErrTokenMalformed], [ErrTokenSignature],
// [ErrTokenExpired], and [ErrTokenClaims] so that callers can log the precise
// cause without leaking it to clients.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithAudience(service.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenClaims
	}

	return claims, nil
}

// classifyParseError maps golang-jwt parse failures onto our decode taxonomy.
//
// Order matters: jwt wraps multiple validation errors together, and expiry is
// the most useful diagnostic when both expiry and another claim check fail.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return ErrTokenClaims
	default:
		return ErrTokenMalformed
	}
}
