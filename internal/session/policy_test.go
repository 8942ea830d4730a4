// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dangtruong/mailcamp/internal/session"
)

// fixedPolicy returns a policy with a deterministic clock pinned to base.
func fixedPolicy(base time.Time, idle, ttl time.Duration) *session.Policy {
	policy := session.NewPolicy(idle, ttl)
	policy.Now = func() time.Time { return base }
	return policy
}

/*
TestPolicy_IsActive verifies the idle-window boundary semantics:
active strictly inside the window, stale at and beyond it.
*/
func TestPolicy_IsActive(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := fixedPolicy(base, 2*time.Hour, 120*time.Minute)

	tests := []struct {
		name       string
		lastActive time.Time
		isActive   bool
	}{
		{"just_now", base, true},
		{"one_hour_ago", base.Add(-1 * time.Hour), true},
		{"one_second_inside", base.Add(-2*time.Hour + time.Second), true},
		{"exactly_at_boundary", base.Add(-2 * time.Hour), false},
		{"well_past_boundary", base.Add(-150 * time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isActive, policy.IsActive(tt.lastActive))
		})
	}
}

/*
TestPolicy_Touch verifies that Touch stamps fresh activity, clears revocation,
and extends the expiry by the token TTL.
*/
func TestPolicy_Touch(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := fixedPolicy(base, 2*time.Hour, 120*time.Minute)

	stale := session.State{
		LastActiveAt: base.Add(-3 * time.Hour),
		Revoked:      true,
		ExpiresAt:    base.Add(-1 * time.Hour),
	}

	touched := policy.Touch(stale)

	assert.Equal(t, base, touched.LastActiveAt)
	assert.False(t, touched.Revoked)
	assert.Equal(t, base.Add(120*time.Minute), touched.ExpiresAt)

	// The input value is untouched (functional update).
	assert.True(t, stale.Revoked)
}

/*
TestPolicy_Revoke verifies the revoked state shape: revoked flag set,
expiry collapsed to now, activity zeroed.
*/
func TestPolicy_Revoke(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := fixedPolicy(base, 2*time.Hour, 120*time.Minute)

	live := policy.Touch(session.State{})
	revoked := policy.Revoke(live)

	assert.True(t, revoked.Revoked)
	assert.Equal(t, base, revoked.ExpiresAt)
	assert.True(t, revoked.LastActiveAt.IsZero())
	assert.False(t, revoked.Live(base))
}

/*
TestState_Live verifies the liveness predicate combining revocation and expiry.
*/
func TestState_Live(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		state session.State
		live  bool
	}{
		{"live", session.State{ExpiresAt: now.Add(time.Hour)}, true},
		{"revoked", session.State{Revoked: true, ExpiresAt: now.Add(time.Hour)}, false},
		{"expired", session.State{ExpiresAt: now.Add(-time.Second)}, false},
		{"expiry_exactly_now", session.State{ExpiresAt: now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.live, tt.state.Live(now))
		})
	}
}

/*
TestPolicy_IdleLifecycle replays the reference scenario: a credential issued at
T0 with a 120-minute TTL and a 2-hour idle timeout is accepted at T0+60m and
stale at T0+150m, at which point applying Revoke yields a permanently dead state.
*/
func TestPolicy_IdleLifecycle(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	policy := session.NewPolicy(2*time.Hour, 120*time.Minute)
	policy.Now = func() time.Time { return t0 }

	// Login at T0.
	state := policy.Touch(session.State{})
	assert.Equal(t, t0, state.LastActiveAt)

	// T0+60m: still inside the idle window and before expiry.
	policy.Now = func() time.Time { return t0.Add(60 * time.Minute) }
	assert.True(t, policy.IsActive(state.LastActiveAt))
	assert.True(t, state.Live(policy.Now()))

	// T0+150m: past the idle timeout. The next observation revokes.
	policy.Now = func() time.Time { return t0.Add(150 * time.Minute) }
	assert.False(t, policy.IsActive(state.LastActiveAt))

	state = policy.Revoke(state)
	assert.True(t, state.Revoked)
	assert.False(t, state.Live(policy.Now()))
}
