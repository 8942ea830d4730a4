// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package authclient

import "net/http"

// Transport is an [http.RoundTripper] that attaches the persisted token as a
// bearer credential on every outgoing request.
//
// When the token is missing or already expired client-side, the request goes
// out WITHOUT a credential and the cache is marked logged out, so the next
// state read reflects reality. The request is never retried; the caller sees
// whatever the server answers (typically 401) and higher-level navigation is
// responsible for redirecting to login.
type Transport struct {
	// Cache is the auth cell to resynchronize on detected expiry. Required.
	Cache *Cache

	// Base performs the actual round trip. Defaults to
	// http.DefaultTransport when nil.
	Base http.RoundTripper
}

// RoundTrip implements [http.RoundTripper].
func (transport *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	base := transport.Base
	if base == nil {
		base = http.DefaultTransport
	}

	raw, ok := transport.Cache.storage.Get()
	if !ok {
		transport.Cache.MarkLoggedOut()
		return base.RoundTrip(request)
	}

	claims, err := decodeUnverified(raw)
	if err != nil || transport.Cache.expired(claims) {
		transport.Cache.MarkLoggedOut()
		return base.RoundTrip(request)
	}

	// Clone before mutating headers. RoundTrippers must not modify the
	// caller's request.
	authed := request.Clone(request.Context())
	authed.Header.Set("Authorization", "Bearer "+raw)
	return base.RoundTrip(authed)
}
