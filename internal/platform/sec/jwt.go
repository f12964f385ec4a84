// Copyright (c) 2026 LitMT. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces (TokenProvider, TokenVerifier).
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the UserID, Username, and admin flag directly inside the JWT,
// the authorization middleware can reconstruct the active user context
// WITHOUT querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
	IsAdmin  bool   `json:"adm"`
}

// Verification failure categories surfaced to the authorization gate.
var (
	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid marks a token that fails signature or claims verification.
	ErrTokenInvalid = errors.New("sec: invalid token")
)

// TokenService signs and verifies JWT tokens with an HMAC shared secret.
//
// The signing algorithm (HS256/HS384/HS512) and default TTL come from
// configuration so deployments can rotate them without code changes.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	issuer     string
	defaultTTL time.Duration
}

// NewTokenService creates a TokenService for the given shared secret.
//
// # Parameters
//   - secret: HMAC signing secret. Must be non-empty.
//   - algorithm: One of "HS256", "HS384", "HS512".
//   - issuer: Value of the 'iss' claim.
//   - defaultTTL: Token lifetime used when the caller does not override it.
func NewTokenService(secret, algorithm, issuer string, defaultTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}

	var method jwt.SigningMethod
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", algorithm)
	}

	return &TokenService{
		secret:     []byte(secret),
		method:     method,
		issuer:     issuer,
		defaultTTL: defaultTTL,
	}, nil
}

// DefaultTTL returns the configured token lifetime.
func (service *TokenService) DefaultTTL() time.Duration {
	return service.defaultTTL
}

// IssueToken creates a signed access token for a user.
//
// A non-positive timeToLive falls back to the configured default TTL.
func (service *TokenService) IssueToken(userID, username string, isAdmin bool, timeToLive time.Duration) (string, error) {
	if timeToLive <= 0 {
		timeToLive = service.defaultTTL
	}

	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
		IsAdmin:  isAdmin,
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// # Returns
//   - *AuthClaims on success.
//   - [ErrTokenExpired] when the token is past its expiry.
//   - [ErrTokenInvalid] for every other verification failure.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
