// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package authclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBase is a fixed wall clock so expiry arithmetic is deterministic.
var testBase = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

// mintToken signs a token with an arbitrary secret. The client side never
// verifies signatures, so any secret works for these tests.
func mintToken(t *testing.T, userID, email string, roles []string, expiresAt time.Time) string {
	t.Helper()

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(testBase),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Email:  email,
		Roles:  roles,
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-server-secret"))
	require.NoError(t, err)
	return raw
}

func newTestCache(storage TokenStorage, opts ...Option) *Cache {
	cache := NewCache(storage, opts...)
	cache.now = func() time.Time { return testBase }
	return cache
}

func TestCache_State_ColdRebuildFromStorage(t *testing.T) {
	storage := NewMemoryStorage()
	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(2*time.Hour))
	require.NoError(t, storage.Set(raw))

	cache := newTestCache(storage)

	state := cache.State()
	assert.True(t, state.Authenticated)
	assert.Equal(t, "user-123", state.UserID)
	assert.Equal(t, "dang@mailcamp.app", state.Email)
	assert.Equal(t, []string{"member"}, state.Roles)
}

func TestCache_State_NoToken(t *testing.T) {
	cache := newTestCache(NewMemoryStorage())

	state := cache.State()
	assert.False(t, state.Authenticated)
	assert.Empty(t, state.UserID)
}

func TestCache_State_ExpiredTokenPurgesStorage(t *testing.T) {
	storage := NewMemoryStorage()
	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(-time.Second))
	require.NoError(t, storage.Set(raw))

	cache := newTestCache(storage)

	state := cache.State()
	assert.False(t, state.Authenticated)

	_, ok := storage.Get()
	assert.False(t, ok, "dead token must be removed from storage")
}

func TestCache_State_GarbageTokenPurgesStorage(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set("not-a-jwt"))

	cache := newTestCache(storage)

	state := cache.State()
	assert.False(t, state.Authenticated)

	_, ok := storage.Get()
	assert.False(t, ok)
}

func TestCache_MarkAuthenticated(t *testing.T) {
	storage := NewMemoryStorage()
	cache := newTestCache(storage)

	var notified []State
	cache.Subscribe(func(state State) { notified = append(notified, state) })

	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(2*time.Hour))
	require.NoError(t, cache.MarkAuthenticated(raw))

	state := cache.State()
	assert.True(t, state.Authenticated)

	persisted, ok := storage.Get()
	assert.True(t, ok)
	assert.Equal(t, raw, persisted)

	require.Len(t, notified, 1)
	assert.True(t, notified[0].Authenticated)
}

func TestCache_MarkAuthenticated_ExpiredDelegatesToLogout(t *testing.T) {
	storage := NewMemoryStorage()
	cache := newTestCache(storage)

	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(-time.Minute))
	err := cache.MarkAuthenticated(raw)
	require.Error(t, err)

	assert.False(t, cache.State().Authenticated)
	_, ok := storage.Get()
	assert.False(t, ok)
}

func TestCache_MarkLoggedOut_Idempotent(t *testing.T) {
	storage := NewMemoryStorage()
	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(2*time.Hour))
	require.NoError(t, storage.Set(raw))

	cache := newTestCache(storage)
	require.True(t, cache.State().Authenticated)

	var notified int
	cache.Subscribe(func(State) { notified++ })

	cache.MarkLoggedOut()
	cache.MarkLoggedOut()

	assert.False(t, cache.State().Authenticated)
	assert.Equal(t, 2, notified, "each call notifies, neither panics")
}

func TestCache_Subscribe_Unsubscribe(t *testing.T) {
	cache := newTestCache(NewMemoryStorage())

	var calls int
	unsubscribe := cache.Subscribe(func(State) { calls++ })

	cache.MarkLoggedOut()
	require.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe()

	cache.MarkLoggedOut()
	assert.Equal(t, 1, calls, "unsubscribed callback must not fire")
}

func TestCache_Logout_NotifiesServerThenClears(t *testing.T) {
	var serverHit bool
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverHit = true
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	storage := NewMemoryStorage()
	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(2*time.Hour))
	require.NoError(t, storage.Set(raw))

	cache := newTestCache(storage, WithLogoutEndpoint(server.URL+"/api/v1/auth/logout", server.Client()))

	cache.Logout(context.Background())

	assert.True(t, serverHit)
	assert.Equal(t, "Bearer "+raw, gotAuth)
	assert.False(t, cache.State().Authenticated)
	_, ok := storage.Get()
	assert.False(t, ok)
}

func TestCache_Logout_ServerUnreachableStillClears(t *testing.T) {
	storage := NewMemoryStorage()
	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(2*time.Hour))
	require.NoError(t, storage.Set(raw))

	cache := newTestCache(storage, WithLogoutEndpoint("http://127.0.0.1:1/logout", &http.Client{Timeout: 50 * time.Millisecond}))

	cache.Logout(context.Background())

	assert.False(t, cache.State().Authenticated)
	_, ok := storage.Get()
	assert.False(t, ok, "local state must clear even when the server call fails")
}

func TestFileStorage_RoundTrip(t *testing.T) {
	storage := NewFileStorage(t.TempDir())

	_, ok := storage.Get()
	require.False(t, ok)

	require.NoError(t, storage.Set("raw.jwt.token"))

	got, ok := storage.Get()
	require.True(t, ok)
	assert.Equal(t, "raw.jwt.token", got)

	require.NoError(t, storage.Remove())
	require.NoError(t, storage.Remove())

	_, ok = storage.Get()
	assert.False(t, ok)
}
