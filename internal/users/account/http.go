// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package account provides the HTTP delivery layer for user management.

# Security

Registration and login are anonymous but throttled per client IP through a
Redis-backed fixed window, on top of the global per-IP token bucket. The
remaining CRUD routes carry no authorization gate; they mirror the observed
API contract as-is.
*/
package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/litmt/litmt/internal/platform/apperr"
	"github.com/litmt/litmt/internal/platform/constants"
	"github.com/litmt/litmt/internal/platform/middleware"
	"github.com/litmt/litmt/internal/platform/ratelimit"
	requestutil "github.com/litmt/litmt/internal/platform/request"
	"github.com/litmt/litmt/internal/platform/respond"
	"github.com/litmt/litmt/internal/platform/validate"
)

// Handler implements the HTTP layer for user accounts.
type Handler struct {
	accountService *Service
	throttle       *ratelimit.FixedWindow
}

// NewHandler constructs a new account [Handler].
//
// The throttle guards the credential endpoints (login, register) against
// brute-force attempts; it may be nil in tests.
func NewHandler(service *Service, throttle *ratelimit.FixedWindow) *Handler {
	return &Handler{accountService: service, throttle: throttle}
}

// Routes returns a [chi.Router] configured with the account endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Credential endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Account CRUD
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)

	return router
}

// allowCredentialAttempt enforces the per-IP fixed-window quota.
func (handler *Handler) allowCredentialAttempt(request *http.Request) bool {
	if handler.throttle == nil {
		return true
	}
	return handler.throttle.Allow(request.Context(), middleware.RealIP(request))
}

// # Credential Endpoints

// registerRequest defines the expected JSON payload for registration.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

/*
POST /api/users/register.

Description: Creates a new account. Duplicate email or username fails with a
Conflict error.

Request:
  - body: registerRequest

Response:
  - 201: User: The created account (password hash omitted)
  - 400: Validation/Conflict: Invalid input or duplicate identity
  - 429: RateLimited: Too many attempts from this IP
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if !handler.allowCredentialAttempt(request) {
		respond.Error(writer, request, apperr.RateLimited("Too many attempts, try again later"))
		return
	}

	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("username", input.Username).
		MinLen("username", input.Username, 3).
		MaxLen("username", input.Username, 50).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, 8).
		MaxLen("password", input.Password, 128)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Register(
		request.Context(), input.Username, input.Email, input.Password, input.IsAdmin)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// loginRequest defines the expected JSON payload for login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse carries the issued credential alongside the profile.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // Seconds
	User        *User  `json:"user"`
}

/*
POST /api/users/login.

Description: Verifies credentials and returns the profile together with a
signed bearer token. Unknown usernames and wrong passwords are
indistinguishable in the response.

Request:
  - body: loginRequest

Response:
  - 200: loginResponse: Token and profile
  - 401: ErrUnauthorized: Credential verification failed
  - 429: RateLimited: Too many attempts from this IP
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	if !handler.allowCredentialAttempt(request) {
		respond.Error(writer, request, apperr.RateLimited("Too many attempts, try again later"))
		return
	}

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("username", input.Username).Required("password", input.Password)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.accountService.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   constants.BearerScheme,
		ExpiresIn:   int(result.ExpiresIn / time.Second),
		User:        result.User,
	})
}

// # Account CRUD Endpoints

/*
GET /api/users/{id}.

Response:
  - 200: User: The account
  - 404: ErrNotFound: User absent
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "id")

	user, err := handler.accountService.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateUserRequest defines the expected JSON payload for account updates.
type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsAdmin  *bool   `json:"is_admin"`
}

/*
PUT /api/users/{id}.

Description: Applies a merge-patch to an account. A new email or username
must not collide with a different existing user.

Request:
  - id: string (UUID)
  - body: updateUserRequest (Partial JSON)

Response:
  - 200: User: The updated account
  - 400: Validation/Conflict: Invalid input or duplicate identity
  - 404: ErrNotFound: User absent
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "id")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Username != nil {
		v.MinLen("username", *input.Username, 3).MaxLen("username", *input.Username, 50)
	}
	if input.Email != nil {
		v.Email("email", *input.Email)
	}
	if input.Password != nil {
		v.MinLen("password", *input.Password, 8).MaxLen("password", *input.Password, 128)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), userID, UserPatch{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		IsAdmin:  input.IsAdmin,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/users/{id}.

Response:
  - 204: No Content: Account removed
  - 404: ErrNotFound: User absent
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "id")

	if err := handler.accountService.Delete(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/users/.

Response:
  - 200: []User: All registered accounts
  - 503: ServiceUnavailable: Store connectivity failure
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.accountService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}
