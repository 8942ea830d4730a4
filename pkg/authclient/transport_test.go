// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package authclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_AttachesBearer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := NewMemoryStorage()
	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(2*time.Hour))
	require.NoError(t, storage.Set(raw))

	cache := newTestCache(storage)
	client := &http.Client{Transport: &Transport{Cache: cache}}

	response, err := client.Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, "Bearer "+raw, gotAuth)
}

func TestTransport_MissingTokenGoesOutAnonymous(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	cache := newTestCache(NewMemoryStorage())
	client := &http.Client{Transport: &Transport{Cache: cache}}

	response, err := client.Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Empty(t, gotAuth)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}

func TestTransport_ExpiredTokenMarksLoggedOut(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	storage := NewMemoryStorage()
	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(-time.Second))
	require.NoError(t, storage.Set(raw))

	cache := newTestCache(storage)

	var notified []State
	cache.Subscribe(func(state State) { notified = append(notified, state) })

	client := &http.Client{Transport: &Transport{Cache: cache}}

	response, err := client.Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Empty(t, gotAuth, "a token known to be dead must never be sent")
	assert.False(t, cache.State().Authenticated)

	_, ok := storage.Get()
	assert.False(t, ok)

	require.NotEmpty(t, notified)
	assert.False(t, notified[len(notified)-1].Authenticated)
}

func TestTransport_DoesNotMutateCallerRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := NewMemoryStorage()
	raw := mintToken(t, "user-123", "dang@mailcamp.app", []string{"member"}, testBase.Add(2*time.Hour))
	require.NoError(t, storage.Set(raw))

	cache := newTestCache(storage)
	transport := &Transport{Cache: cache}

	request, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	response, err := transport.RoundTrip(request)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Empty(t, request.Header.Get("Authorization"))
}
