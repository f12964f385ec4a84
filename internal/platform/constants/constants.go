// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer and bearer scheme.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "litmt-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Uploaded translation files are small (plain text), so a short window is enough.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute

	// CredentialWindowLimit is the number of login/register attempts allowed per IP per window.
	CredentialWindowLimit = 10

	// CredentialWindow is the fixed window used to throttle credential endpoints.
	CredentialWindow = 1 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "litmt.org"

	// BearerScheme is the expected Authorization header scheme.
	BearerScheme = "bearer"
)

// # Uploads

const (
	// MaxUploadBytes caps the in-memory size of a multipart upload.
	MaxUploadBytes = 32 << 20 // 32 MiB
)

// # Listing Defaults

const (
	// DefaultBookListLimit is the number of books returned when the client
	// does not supply a limit.
	DefaultBookListLimit = 50

	// MaxBookListLimit caps the book listing size regardless of the client's
	// requested limit.
	MaxBookListLimit = 200

	// DefaultSuggestionListLimit is the review-queue page size when the admin
	// does not supply a limit. Large enough that the whole queue fits on one
	// page for typical catalogs.
	DefaultSuggestionListLimit = 200

	// MaxSuggestionListLimit caps the review-queue page size.
	MaxSuggestionListLimit = 1000
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixCredentialThrottle = "auth:throttle:"
)
