// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

// Package authclient is the client-side companion of the server auth stack.
//
// It maintains the client's belief about its own authentication state from a
// locally persisted access token. The client never holds the signing secret,
// so all token inspection here is UNVERIFIED: only the exp claim and the
// identity claims are read, and the server remains the sole authority on
// whether a session is actually live. The deliberate consequence is that the
// client can only ever be wrong in the safe direction (believing it is logged
// in when the server has already revoked the session), and the server's
// uniform 401 corrects that on the next request.
package authclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims mirrors the custom claim names the server embeds at issuance.
type tokenClaims struct {
	jwt.RegisteredClaims

	UserID string   `json:"uid"`
	Email  string   `json:"eml"`
	Roles  []string `json:"rls"`
}

// State is the client's snapshot of its authentication status.
//
// A zero State is Anonymous. Snapshots are values; mutating a returned State
// never affects the cache.
type State struct {
	Authenticated bool
	UserID        string
	Email         string
	Roles         []string
}

// anonymous is the canonical logged-out snapshot.
func anonymous() State {
	return State{}
}

// Cache is a single-writer cell holding the latest [State], derived entirely
// from the persisted token. Concurrent readers (UI components, the transport)
// always observe a consistent snapshot; writes are last-writer-wins.
type Cache struct {
	mu          sync.Mutex
	storage     TokenStorage
	state       *State
	subscribers map[int]func(State)
	nextSubID   int

	// now is swappable for tests.
	now func() time.Time

	// logoutURL and httpClient drive the best-effort server notification in
	// Logout. Both optional; when unset Logout degrades to a local clear.
	logoutURL  string
	httpClient *http.Client
}

// Option customizes a [Cache].
type Option func(*Cache)

// WithLogoutEndpoint points Logout at the server's logout route so the
// session can be revoked remotely.
func WithLogoutEndpoint(url string, client *http.Client) Option {
	return func(cache *Cache) {
		cache.logoutURL = url
		cache.httpClient = client
	}
}

// NewCache constructs a cache over the given storage. The cache starts cold;
// the first State call rebuilds from storage.
func NewCache(storage TokenStorage, opts ...Option) *Cache {
	cache := &Cache{
		storage:     storage,
		subscribers: make(map[int]func(State)),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// State returns the current snapshot.
//
// If no snapshot is cached it rebuilds one from the persisted token: an
// absent or expired token clears storage and yields Anonymous; a live token
// yields Authenticated with the identity claims decoded (unverified) from
// the payload. No network call is ever made.
func (cache *Cache) State() State {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.state != nil {
		return *cache.state
	}

	raw, ok := cache.storage.Get()
	if !ok {
		cache.markLoggedOutLocked()
		return anonymous()
	}

	claims, err := decodeUnverified(raw)
	if err != nil || cache.expired(claims) {
		cache.markLoggedOutLocked()
		return anonymous()
	}

	state := stateFromClaims(claims)
	cache.state = &state
	return state
}

// MarkAuthenticated records a freshly issued token, typically straight from
// a login response. A token that is already expired client-side is treated
// as a logout instead of being cached.
func (cache *Cache) MarkAuthenticated(rawToken string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	claims, err := decodeUnverified(rawToken)
	if err != nil || cache.expired(claims) {
		cache.markLoggedOutLocked()
		return fmt.Errorf("authclient: refusing to cache dead token")
	}

	if err := cache.storage.Set(rawToken); err != nil {
		return fmt.Errorf("authclient: persist token: %w", err)
	}

	state := stateFromClaims(claims)
	cache.state = &state
	cache.notifyLocked(state)
	return nil
}

// MarkLoggedOut clears the persisted token and the cached state, then
// notifies subscribers with Anonymous. Safe to call repeatedly.
func (cache *Cache) MarkLoggedOut() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.markLoggedOutLocked()
}

// Logout notifies the server so the session is revoked remotely, then
// unconditionally clears local state. A failed or impossible server call
// never leaves the client stuck logged in.
func (cache *Cache) Logout(ctx context.Context) {
	cache.mu.Lock()
	raw, hasToken := cache.storage.Get()
	url := cache.logoutURL
	client := cache.httpClient
	cache.mu.Unlock()

	if hasToken && url != "" {
		if client == nil {
			client = http.DefaultClient
		}
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
		if err == nil {
			request.Header.Set("Authorization", "Bearer "+raw)
			if response, err := client.Do(request); err == nil {
				_ = response.Body.Close()
			}
		}
	}

	cache.MarkLoggedOut()
}

// Subscribe registers a callback invoked on every state transition. The
// returned function removes the subscription; calling it more than once is
// harmless.
func (cache *Cache) Subscribe(fn func(State)) (unsubscribe func()) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	id := cache.nextSubID
	cache.nextSubID++
	cache.subscribers[id] = fn

	return func() {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		delete(cache.subscribers, id)
	}
}

// markLoggedOutLocked clears storage and state and notifies. Caller holds mu.
func (cache *Cache) markLoggedOutLocked() {
	_ = cache.storage.Remove()
	cleared := anonymous()
	cache.state = &cleared
	cache.notifyLocked(cleared)
}

// notifyLocked fans the snapshot out to subscribers. Caller holds mu.
func (cache *Cache) notifyLocked(state State) {
	for _, fn := range cache.subscribers {
		fn(state)
	}
}

// expired reports whether the exp claim is at or before the cache's clock.
// A token without an exp claim is treated as expired.
func (cache *Cache) expired(claims *tokenClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(cache.now())
}

// decodeUnverified parses the token payload without checking the signature.
func decodeUnverified(raw string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("authclient: parse token: %w", err)
	}
	return claims, nil
}

func stateFromClaims(claims *tokenClaims) State {
	return State{
		Authenticated: true,
		UserID:        claims.UserID,
		Email:         claims.Email,
		Roles:         claims.Roles,
	}
}
