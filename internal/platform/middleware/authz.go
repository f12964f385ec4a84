// Copyright (c) 2026 LitMT. All rights reserved.

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/litmt/litmt/internal/platform/apperr"
	"github.com/litmt/litmt/internal/platform/constants"
	"github.com/litmt/litmt/internal/platform/ctxutil"
	"github.com/litmt/litmt/internal/platform/respond"
	"github.com/litmt/litmt/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the [sec.TokenService]
// implementation, allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If malformed (not exactly a scheme+token pair, or a non-bearer scheme),
//     abort with 401 regardless of the route's own auth requirements.
//  4. If present, parse and verify the JWT via [TokenVerifier], distinguishing
//     an expired token from one failing signature verification.
//  5. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != constants.BearerScheme {
				respond.Error(writer, request, apperr.Unauthorized("Missing bearer token"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				if errors.Is(err, sec.ErrTokenExpired) {
					respond.Error(writer, request, apperr.TokenExpired())
					return
				}
				respond.Error(writer, request, apperr.TokenInvalid())
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin blocks requests whose claims lack the admin flag.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies
// [RequireAuth], so mounting both is unnecessary.
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context (implies AuthN) — 401 if not.
//  2. Check the admin flag — 403 if absent.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())

		// ── 1. Authentication Check ───────────────────────────────────────
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}

		// ── 2. Authorization Check ────────────────────────────────────────
		if !claims.IsAdmin {
			respond.Error(writer, request, apperr.Forbidden("Admin privileges required"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}
