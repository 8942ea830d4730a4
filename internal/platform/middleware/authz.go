// Copyright (c) 2026 Mailcamp. All rights reserved.
// Author: dang.truong.dev@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dangtruong/mailcamp/internal/platform/apperr"
	"github.com/dangtruong/mailcamp/internal/platform/ctxutil"
	"github.com/dangtruong/mailcamp/internal/platform/respond"
	"github.com/dangtruong/mailcamp/internal/platform/sec"
	"github.com/dangtruong/mailcamp/internal/session"
)

// # Authentication Gate

// TokenVerifier abstracts cryptographic token verification.
// Satisfied by [*sec.TokenService].
type TokenVerifier interface {
	Verify(tokenString string) (*sec.AuthClaims, error)
}

// errInvalidToken is the single rejection surface for every authentication
// failure. The client always sees the same 401 body; only the attached
// Reason differs, and that is logged server-side, never serialized.
func errInvalidToken(reason string) *apperr.AppError {
	return apperr.Unauthorized("Invalid or expired token").WithReason(reason)
}

/*
Authenticate verifies the bearer credential AND the live server-side session
for every request carrying an Authorization header.

A verified signature alone is not enough: the user's session state must exist,
be unrevoked, be unexpired, and be within the idle window. Sessions that went
stale are revoked here, lazily, the moment they are next observed (soft
logout). There is no background sweeper.

Requests without an Authorization header pass through anonymously; route-level
guards ([RequireAuth], [RequireRole]) decide whether anonymity is acceptable.

Parameters:
  - verifier: cryptographic token verification (signature, issuer, audience, expiry).
  - sessions: persistence for per-user session state.
  - policy: idle-timeout and activity-refresh rules.

Returns:
  - A middleware that injects [*sec.AuthClaims] into the request context on success.
*/
func Authenticate(verifier TokenVerifier, sessions session.Store, policy *session.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Extract the credential. No header means anonymous pass-through.
			header := request.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(writer, request)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				respond.Error(writer, request, errInvalidToken("header_malformed"))
				return
			}

			// 2. Cryptographic verification: signature, issuer, audience, expiry.
			claims, err := verifier.Verify(parts[1])
			if err != nil {
				respond.Error(writer, request, errInvalidToken(tokenReason(err)))
				return
			}

			ctx := request.Context()
			now := policy.Clock()

			// 3. Liveness: the session record must exist. A missing record is
			// indistinguishable from a revoked one on purpose.
			state, err := sessions.Load(ctx, claims.UserID)
			if err != nil {
				if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusNotFound {
					respond.Error(writer, request, errInvalidToken("session_not_found"))
					return
				}
				respond.Error(writer, request, apperr.Internal(err))
				return
			}

			// 4. Reject sessions already revoked or past their own expiry.
			if !state.Live(now) {
				respond.Error(writer, request, errInvalidToken("revoked_or_expired"))
				return
			}

			// 5. Idle staleness: revoke on observation, persist, then reject.
			if !policy.IsActive(state.LastActiveAt) {
				if saveErr := sessions.Save(ctx, claims.UserID, policy.Revoke(state)); saveErr != nil {
					ctxutil.GetLogger(ctx).ErrorContext(ctx, "session_revoke_persist_failed",
						slog.String("user_id", claims.UserID),
						slog.String("error", saveErr.Error()),
					)
				}
				respond.Error(writer, request, errInvalidToken("idle_expired"))
				return
			}

			// 6. Success: refresh the activity window and expose the identity.
			if saveErr := sessions.Save(ctx, claims.UserID, policy.Touch(state)); saveErr != nil {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "session_touch_persist_failed",
					slog.String("user_id", claims.UserID),
					slog.String("error", saveErr.Error()),
				)
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(ctx, claims)))
		})
	}
}

// tokenReason maps a verification failure onto its log-only diagnostic tag.
func tokenReason(err error) string {
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, sec.ErrTokenSignature):
		return "token_signature"
	case errors.Is(err, sec.ErrTokenMalformed):
		return "token_malformed"
	case errors.Is(err, sec.ErrTokenClaims):
		return "token_claims"
	default:
		return "token_invalid"
	}
}

// # Route Guards

// RequireAuth blocks requests that did not authenticate upstream.
// Must be mounted after [Authenticate].
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if ctxutil.GetAuthUser(request.Context()) == nil {
				respond.Error(writer, request, errInvalidToken("no_credentials"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireRole blocks authenticated users whose role set does not intersect
// the given roles. Membership is a flat set check; no role implies another.
func RequireRole(roles ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				respond.Error(writer, request, errInvalidToken("no_credentials"))
				return
			}

			if !claims.HasAnyRole(roles...) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser returns the authenticated claims from the request, or nil.
func GetUser(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}
