// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

/*
Package session implements server-side session liveness tracking.

A session is the server's record of whether a user's issued credential should
still be honored, independent of the credential's own expiry claim. This closes
the gap where a cryptographically valid token must stop working after an
explicit logout or after the user has been idle too long.

Architecture:

  - State: An immutable value describing one user's session. Transitions
    produce a new value; the caller persists the replacement.
  - Policy: Pure decision logic (liveness, activity refresh, revocation).
  - Store: Keyed persistence contract, implemented on Redis.

Revocation is lazy: a session found idle is revoked the moment it is next
observed (login or request authentication), never by a background sweep.
*/
package session

import "time"

// # Session State

// State is the server-side session record attached to a user.
//
// State is a value type. Transitions ([Policy.Touch], [Policy.Revoke]) return
// a replacement value rather than mutating in place; the previous value is
// discarded when the replacement is saved.
type State struct {
	// LastActiveAt is the time of the most recent authenticated activity.
	LastActiveAt time.Time `json:"last_active_at"`

	// Revoked marks the session as permanently unusable until the next login.
	Revoked bool `json:"revoked"`

	// ExpiresAt is the hard deadline mirroring the issued credential's expiry.
	// Revocation collapses it to the revocation instant.
	ExpiresAt time.Time `json:"expires_at"`
}

// Live reports whether the state itself permits authentication at the given
// instant: not revoked and not past its expiry deadline.
//
// Idle staleness is a separate check ([Policy.IsActive]) because it triggers a
// state transition (soft logout) rather than a plain rejection.
func (s State) Live(now time.Time) bool {
	return !s.Revoked && s.ExpiresAt.After(now)
}

// # Session Policy

// Policy decides whether a session is still usable and computes state
// transitions. It has no I/O of its own; callers persist the returned values.
type Policy struct {
	// IdleTimeout is the maximum inactivity before a session goes stale.
	IdleTimeout time.Duration

	// TokenTTL is the credential lifetime mirrored into State.ExpiresAt.
	TokenTTL time.Duration

	// Now overrides the clock for tests. Nil means time.Now.
	Now func() time.Time
}

// NewPolicy constructs a Policy with the given durations.
func NewPolicy(idleTimeout, tokenTTL time.Duration) *Policy {
	return &Policy{IdleTimeout: idleTimeout, TokenTTL: tokenTTL}
}

// now returns the policy clock reading.
func (p *Policy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Clock exposes the policy clock so callers evaluate liveness against the
// same reading used for state transitions.
func (p *Policy) Clock() time.Time {
	return p.now()
}

// IsActive reports whether a session with the given last-activity timestamp
// is still within the idle window: now - lastActive < IdleTimeout.
func (p *Policy) IsActive(lastActive time.Time) bool {
	return p.now().Sub(lastActive) < p.IdleTimeout
}

// Touch returns a replacement state stamped with fresh activity.
//
// Called on login and on every successfully authenticated request.
func (p *Policy) Touch(s State) State {
	now := p.now()
	s.LastActiveAt = now
	s.Revoked = false
	s.ExpiresAt = now.Add(p.TokenTTL)
	return s
}

// Revoke returns a replacement state that can never authenticate again.
//
// Called on explicit logout and on detection of idle staleness (soft logout).
// The expiry collapses to now and the activity timestamp is zeroed so a
// revoked state is unambiguous regardless of which field is inspected.
func (p *Policy) Revoke(s State) State {
	s.Revoked = true
	s.ExpiresAt = p.now()
	s.LastActiveAt = time.Time{}
	return s
}
