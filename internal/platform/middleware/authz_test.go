// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dangtruong/mailcamp/internal/platform/apperr"
	"github.com/dangtruong/mailcamp/internal/platform/ctxutil"
	"github.com/dangtruong/mailcamp/internal/platform/middleware"
	"github.com/dangtruong/mailcamp/internal/platform/sec"
	"github.com/dangtruong/mailcamp/internal/session"
)

// # Test Doubles

// stubVerifier returns a fixed verification outcome regardless of input.
type stubVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (v *stubVerifier) Verify(string) (*sec.AuthClaims, error) {
	return v.claims, v.err
}

// memoryStore is a map-backed session store for gate tests.
type memoryStore struct {
	states map[string]session.State
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: make(map[string]session.State)}
}

func (s *memoryStore) Load(_ context.Context, userID string) (session.State, error) {
	state, found := s.states[userID]
	if !found {
		return session.State{}, apperr.NotFound("Session")
	}
	return state, nil
}

func (s *memoryStore) Save(_ context.Context, userID string, state session.State) error {
	s.states[userID] = state
	return nil
}

// # Fixtures

var testBase = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func testPolicy() *session.Policy {
	policy := session.NewPolicy(2*time.Hour, 120*time.Minute)
	policy.Now = func() time.Time { return testBase }
	return policy
}

func testClaims() *sec.AuthClaims {
	return &sec.AuthClaims{
		UserID: "user-123",
		Email:  "dang@mailcamp.app",
		Roles:  []string{"member"},
	}
}

// echoHandler records whether it ran and what identity it observed.
func echoHandler(sawClaims **sec.AuthClaims) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*sawClaims = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func performRequest(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		request.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// assertUniformRejection checks the single 401 body every auth failure produces.
func assertUniformRejection(t *testing.T, recorder *httptest.ResponseRecorder) {
	t.Helper()

	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "UNAUTHORIZED", body["code"])
	assert.Equal(t, "Invalid or expired token", body["error"])

	// The internal diagnostic reason must never leak to the client.
	assert.NotContains(t, body, "reason")
}

// # Authenticate

/*
TestAuthenticate_Success verifies that a valid token with a live session
passes through, injects claims, and refreshes the activity window.
*/
func TestAuthenticate_Success(t *testing.T) {
	policy := testPolicy()
	store := newMemoryStore()
	store.states["user-123"] = session.State{
		LastActiveAt: testBase.Add(-30 * time.Minute),
		ExpiresAt:    testBase.Add(90 * time.Minute),
	}

	var sawClaims *sec.AuthClaims
	gate := middleware.Authenticate(&stubVerifier{claims: testClaims()}, store, policy)
	recorder := performRequest(gate(echoHandler(&sawClaims)), "Bearer some.valid.token")

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, sawClaims)
	assert.Equal(t, "user-123", sawClaims.UserID)

	// Activity was refreshed and persisted
	saved := store.states["user-123"]
	assert.Equal(t, testBase, saved.LastActiveAt)
	assert.Equal(t, testBase.Add(120*time.Minute), saved.ExpiresAt)
	assert.False(t, saved.Revoked)
}

/*
TestAuthenticate_AnonymousPassThrough verifies that requests without an
Authorization header reach the handler unauthenticated.
*/
func TestAuthenticate_AnonymousPassThrough(t *testing.T) {
	var sawClaims *sec.AuthClaims
	gate := middleware.Authenticate(&stubVerifier{claims: testClaims()}, newMemoryStore(), testPolicy())
	recorder := performRequest(gate(echoHandler(&sawClaims)), "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, sawClaims)
}

/*
TestAuthenticate_MalformedHeader verifies rejection of Authorization headers
that are not a well-formed bearer scheme.
*/
func TestAuthenticate_MalformedHeader(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{"wrong_scheme", "Basic dXNlcjpwYXNz"},
		{"missing_token", "Bearer "},
		{"no_space", "Bearertoken"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var sawClaims *sec.AuthClaims
			gate := middleware.Authenticate(&stubVerifier{claims: testClaims()}, newMemoryStore(), testPolicy())
			recorder := performRequest(gate(echoHandler(&sawClaims)), testCase.header)

			assertUniformRejection(t, recorder)
			assert.Nil(t, sawClaims)
		})
	}
}

/*
TestAuthenticate_TokenRejected verifies that every token verification failure
collapses into the same uniform 401 response.
*/
func TestAuthenticate_TokenRejected(t *testing.T) {
	verifyErrors := []error{
		sec.ErrTokenMalformed,
		sec.ErrTokenSignature,
		sec.ErrTokenExpired,
		sec.ErrTokenClaims,
	}

	for _, verifyErr := range verifyErrors {
		t.Run(verifyErr.Error(), func(t *testing.T) {
			var sawClaims *sec.AuthClaims
			gate := middleware.Authenticate(&stubVerifier{err: verifyErr}, newMemoryStore(), testPolicy())
			recorder := performRequest(gate(echoHandler(&sawClaims)), "Bearer whatever")

			assertUniformRejection(t, recorder)
			assert.Nil(t, sawClaims)
		})
	}
}

/*
TestAuthenticate_SessionMissing verifies that a cryptographically valid token
is still rejected when no session record exists, and that the response is
indistinguishable from a revoked session.
*/
func TestAuthenticate_SessionMissing(t *testing.T) {
	var sawClaims *sec.AuthClaims
	gate := middleware.Authenticate(&stubVerifier{claims: testClaims()}, newMemoryStore(), testPolicy())
	recorder := performRequest(gate(echoHandler(&sawClaims)), "Bearer some.valid.token")

	assertUniformRejection(t, recorder)
	assert.Nil(t, sawClaims)
}

/*
TestAuthenticate_SessionRevoked verifies that a revoked session rejects even
a perfectly valid token.
*/
func TestAuthenticate_SessionRevoked(t *testing.T) {
	policy := testPolicy()
	store := newMemoryStore()
	store.states["user-123"] = policy.Revoke(session.State{})

	var sawClaims *sec.AuthClaims
	gate := middleware.Authenticate(&stubVerifier{claims: testClaims()}, store, policy)
	recorder := performRequest(gate(echoHandler(&sawClaims)), "Bearer some.valid.token")

	assertUniformRejection(t, recorder)
	assert.Nil(t, sawClaims)
}

/*
TestAuthenticate_IdleSoftLogout verifies that a session past the idle window
is revoked on observation and that the revocation is persisted, so the store
reflects the logout even though the user never called it.
*/
func TestAuthenticate_IdleSoftLogout(t *testing.T) {
	policy := testPolicy()
	store := newMemoryStore()

	// Last activity 3h ago, beyond the 2h idle window, but the state itself
	// has not yet expired. This is the lazy-revocation case.
	store.states["user-123"] = session.State{
		LastActiveAt: testBase.Add(-3 * time.Hour),
		ExpiresAt:    testBase.Add(time.Hour),
	}

	var sawClaims *sec.AuthClaims
	gate := middleware.Authenticate(&stubVerifier{claims: testClaims()}, store, policy)
	recorder := performRequest(gate(echoHandler(&sawClaims)), "Bearer some.valid.token")

	assertUniformRejection(t, recorder)
	assert.Nil(t, sawClaims)

	// The soft logout must be durable: the next observer sees revoked=true.
	saved := store.states["user-123"]
	assert.True(t, saved.Revoked)
	assert.False(t, saved.Live(testBase))
}

/*
TestAuthenticate_IdleBoundary verifies that inactivity of exactly the idle
window rejects, while one second less passes.
*/
func TestAuthenticate_IdleBoundary(t *testing.T) {
	testCases := []struct {
		name       string
		inactivity time.Duration
		wantStatus int
	}{
		{"just_inside_window", 2*time.Hour - time.Second, http.StatusOK},
		{"exactly_at_window", 2 * time.Hour, http.StatusUnauthorized},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			policy := testPolicy()
			store := newMemoryStore()
			store.states["user-123"] = session.State{
				LastActiveAt: testBase.Add(-testCase.inactivity),
				ExpiresAt:    testBase.Add(time.Hour),
			}

			var sawClaims *sec.AuthClaims
			gate := middleware.Authenticate(&stubVerifier{claims: testClaims()}, store, policy)
			recorder := performRequest(gate(echoHandler(&sawClaims)), "Bearer some.valid.token")

			assert.Equal(t, testCase.wantStatus, recorder.Code)
		})
	}
}

// # Route Guards

/*
TestRequireAuth verifies that anonymous requests are blocked while
authenticated ones proceed.
*/
func TestRequireAuth(t *testing.T) {
	var sawClaims *sec.AuthClaims
	guard := middleware.RequireAuth()(echoHandler(&sawClaims))

	// 1. Anonymous request is rejected
	recorder := performRequest(guard, "")
	assertUniformRejection(t, recorder)

	// 2. Authenticated request passes
	request := httptest.NewRequest(http.MethodGet, "/protected", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), testClaims()))

	recorder = httptest.NewRecorder()
	guard.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequireRole verifies flat set-membership gating: a role grants access to
exactly itself, nothing more.
*/
func TestRequireRole(t *testing.T) {
	testCases := []struct {
		name       string
		userRoles  []string
		required   []sec.UserRole
		wantStatus int
	}{
		{"admin_allowed", []string{"admin"}, []sec.UserRole{sec.RoleAdmin}, http.StatusOK},
		{"member_blocked_from_admin", []string{"member"}, []sec.UserRole{sec.RoleAdmin}, http.StatusForbidden},
		{"manager_does_not_imply_member", []string{"manager"}, []sec.UserRole{sec.RoleMember}, http.StatusForbidden},
		{"any_of_matches", []string{"member"}, []sec.UserRole{sec.RoleAdmin, sec.RoleMember}, http.StatusOK},
		{"no_roles_blocked", nil, []sec.UserRole{sec.RoleMember}, http.StatusForbidden},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var sawClaims *sec.AuthClaims
			guard := middleware.RequireRole(testCase.required...)(echoHandler(&sawClaims))

			claims := &sec.AuthClaims{UserID: "user-123", Roles: testCase.userRoles}
			request := httptest.NewRequest(http.MethodGet, "/protected", nil)
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

			recorder := httptest.NewRecorder()
			guard.ServeHTTP(recorder, request)

			assert.Equal(t, testCase.wantStatus, recorder.Code)
		})
	}
}

/*
TestRequireRole_Anonymous verifies that the role guard rejects requests that
never authenticated, with the uniform 401 rather than a 403.
*/
func TestRequireRole_Anonymous(t *testing.T) {
	var sawClaims *sec.AuthClaims
	guard := middleware.RequireRole(sec.RoleAdmin)(echoHandler(&sawClaims))

	recorder := performRequest(guard, "")
	assertUniformRejection(t, recorder)
}
