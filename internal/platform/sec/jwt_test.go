// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangtruong/mailcamp/internal/platform/sec"
)

const (
	testSecret   = "unit-test-signing-secret"
	testIssuer   = "mailcamp.app"
	testAudience = "mailcamp-spa"
)

func newTestService(t *testing.T) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(testSecret, testIssuer, testAudience, 120*time.Minute)
	require.NoError(t, err)
	return service
}

// signRaw builds a token with arbitrary claims using the same algorithm the
// service uses, so failure paths can be exercised deterministically.
func signRaw(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

/*
TestNewTokenService_Configuration verifies that missing settings are rejected
at construction time with a descriptive configuration error.
*/
func TestNewTokenService_Configuration(t *testing.T) {
	testCases := []struct {
		name     string
		secret   string
		issuer   string
		audience string
		ttl      time.Duration
		wantErr  bool
	}{
		{"valid", testSecret, testIssuer, testAudience, time.Hour, false},
		{"missing_secret", "", testIssuer, testAudience, time.Hour, true},
		{"missing_issuer", testSecret, "", testAudience, time.Hour, true},
		{"missing_audience", testSecret, testIssuer, "", time.Hour, true},
		{"zero_ttl", testSecret, testIssuer, testAudience, 0, true},
		{"negative_ttl", testSecret, testIssuer, testAudience, -time.Minute, true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service, err := sec.NewTokenService(testCase.secret, testCase.issuer, testCase.audience, testCase.ttl)

			if testCase.wantErr {
				assert.Nil(t, service)

				var configErr *sec.ConfigurationError
				assert.ErrorAs(t, err, &configErr)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

/*
TestTokenService_GenerateVerify verifies the full issue-then-verify roundtrip
preserves identity claims and stamps the registered claims correctly.
*/
func TestTokenService_GenerateVerify(t *testing.T) {
	service := newTestService(t)

	tokenString, err := service.Generate("user-123", "dang@mailcamp.app", []string{"admin", "member"})
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := service.Verify(tokenString)
	require.NoError(t, err)

	// Identity claims survive the roundtrip
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "dang@mailcamp.app", claims.Email)
	assert.Equal(t, []string{"admin", "member"}, claims.Roles)

	// Registered claims are stamped
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Contains(t, claims.Audience, testAudience)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

/*
TestTokenService_GenerateUniqueIDs verifies that each issued token carries a
distinct jti, so two logins never produce interchangeable credentials.
*/
func TestTokenService_GenerateUniqueIDs(t *testing.T) {
	service := newTestService(t)

	first, err := service.Generate("user-123", "dang@mailcamp.app", nil)
	require.NoError(t, err)

	second, err := service.Generate("user-123", "dang@mailcamp.app", nil)
	require.NoError(t, err)

	firstClaims, err := service.Verify(first)
	require.NoError(t, err)
	secondClaims, err := service.Verify(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

/*
TestTokenService_Verify_Classification verifies that every failure mode maps
onto exactly one of the decode sentinels.
*/
func TestTokenService_Verify_Classification(t *testing.T) {
	service := newTestService(t)

	expiredClaims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-3 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
		UserID: "user-123",
	}

	freshClaims := func(issuer, audience string) sec.AuthClaims {
		return sec.AuthClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-123",
				Issuer:    issuer,
				Audience:  jwt.ClaimStrings{audience},
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: "user-123",
		}
	}

	testCases := []struct {
		name        string
		tokenString string
		wantErr     error
	}{
		{
			name:        "garbage_input",
			tokenString: "not-a-jwt-at-all",
			wantErr:     sec.ErrTokenMalformed,
		},
		{
			name:        "empty_input",
			tokenString: "",
			wantErr:     sec.ErrTokenMalformed,
		},
		{
			name:        "wrong_secret",
			tokenString: signRaw(t, "a-different-secret", freshClaims(testIssuer, testAudience)),
			wantErr:     sec.ErrTokenSignature,
		},
		{
			name:        "expired",
			tokenString: signRaw(t, testSecret, expiredClaims),
			wantErr:     sec.ErrTokenExpired,
		},
		{
			name:        "wrong_issuer",
			tokenString: signRaw(t, testSecret, freshClaims("evil.example.com", testAudience)),
			wantErr:     sec.ErrTokenClaims,
		},
		{
			name:        "wrong_audience",
			tokenString: signRaw(t, testSecret, freshClaims(testIssuer, "other-app")),
			wantErr:     sec.ErrTokenClaims,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			claims, err := service.Verify(testCase.tokenString)

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

/*
TestTokenService_Verify_ExpiredWrongIssuer verifies that an expired token is
reported as expired even when another claim check also fails, since expiry is
the more useful diagnostic.
*/
func TestTokenService_Verify_ExpiredWrongIssuer(t *testing.T) {
	service := newTestService(t)

	claims := sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "evil.example.com",
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: "user-123",
	}

	_, err := service.Verify(signRaw(t, testSecret, claims))
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestAuthClaims_Roles verifies the flat set-membership role model.
*/
func TestAuthClaims_Roles(t *testing.T) {
	claims := &sec.AuthClaims{Roles: []string{"manager"}}

	// Membership is exact; manager grants neither admin nor member.
	assert.True(t, claims.HasRole(sec.RoleManager))
	assert.False(t, claims.HasRole(sec.RoleAdmin))
	assert.False(t, claims.HasRole(sec.RoleMember))

	assert.True(t, claims.HasAnyRole(sec.RoleAdmin, sec.RoleManager))
	assert.False(t, claims.HasAnyRole(sec.RoleAdmin, sec.RoleMember))

	empty := &sec.AuthClaims{}
	assert.False(t, empty.HasAnyRole(sec.RoleAdmin, sec.RoleManager, sec.RoleMember))
}
