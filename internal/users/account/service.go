// Copyright (c) 2026 LitMT. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/litmt/litmt/internal/platform/apperr"
	"github.com/litmt/litmt/internal/platform/sec"
	"github.com/litmt/litmt/pkg/uuid"
)

// # Service Layer

// TokenProvider defines the token-issuance surface the account service needs.
//
// # Why an interface?
//
// Depending on this interface instead of [sec.TokenService] lets unit tests
// inject a deterministic fake issuer.
type TokenProvider interface {
	IssueToken(userID, username string, isAdmin bool, timeToLive time.Duration) (string, error)
	DefaultTTL() time.Duration
}

// Service orchestrates registration, credential verification, and account CRUD.
type Service struct {
	repository Repository
	tokens     TokenProvider
	logger     *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(repository Repository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		tokens:     tokens,
		logger:     logger,
	}
}

// # Registration & Login

/*
Register creates a new user account.

Description: Email uniqueness is checked first, then username, so the caller
gets a precise conflict message. The password passes through bcrypt before
storage; plaintext is never persisted. The database's unique indexes remain
the correctness backstop under concurrent registration.

Parameters:
  - context: context.Context
  - username: string
  - email: string
  - password: string (plaintext, hashed here)
  - isAdmin: bool

Returns:
  - *User: The created account
  - error: apperr.Conflict on duplicate email/username, or storage failures
*/
func (service *Service) Register(context context.Context, username, email, password string, isAdmin bool) (*User, error) {

	// Friendly conflict detection: email first, then username.
	if _, err := service.repository.FindByEmail(context, email); err == nil {
		return nil, apperr.Conflict("Email already registered")
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("account_service_register_email_check_failed: %w", err)
	}

	if _, err := service.repository.FindByUsername(context, username); err == nil {
		return nil, apperr.Conflict("Username already taken")
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("account_service_register_username_check_failed: %w", err)
	}

	passwordHash, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("account_service_register_hash_failed: %w", err)
	}

	currentTime := time.Now()
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    currentTime,
		UpdatedAt:    currentTime,
	}

	if err := service.repository.Insert(context, user); err != nil {
		return nil, fmt.Errorf("account_service_register_failed: %w", err)
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return user, nil
}

// LoginResult carries the verified profile and its freshly issued credential.
type LoginResult struct {
	User        *User
	AccessToken string
	ExpiresIn   time.Duration
}

/*
Login verifies a username/password pair and issues an access token.

Description: An unknown username and a wrong password both fail with the same
Unauthorized message so the endpoint cannot be used to enumerate accounts.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *LoginResult: Profile plus signed bearer credential
  - error: apperr.Unauthorized on any credential failure
*/
func (service *Service) Login(context context.Context, username, password string) (*LoginResult, error) {
	user, err := service.repository.FindByUsername(context, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			// Same message as a wrong password; no account enumeration.
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		return nil, fmt.Errorf("account_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	token, err := service.tokens.IssueToken(user.ID, user.Username, user.IsAdmin, 0)
	if err != nil {
		return nil, fmt.Errorf("account_service_login_token_failed: %w", err)
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))

	return &LoginResult{
		User:        user,
		AccessToken: token,
		ExpiresIn:   service.tokens.DefaultTTL(),
	}, nil
}

// # Account CRUD

/*
Get retrieves a user account by ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: The account
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Get(context context.Context, userID string) (*User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
Update applies a merge-patch to a user account.

Description: A new email or username must not collide with a DIFFERENT
existing user; re-submitting the account's own current values is allowed.
A supplied password is re-hashed before storage.

Parameters:
  - context: context.Context
  - userID: string
  - patch: UserPatch

Returns:
  - *User: The updated account
  - error: apperr.NotFound, apperr.Conflict, or storage failures
*/
func (service *Service) Update(context context.Context, userID string, patch UserPatch) (*User, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Cross-user uniqueness checks before touching the row.
	if patch.Email != nil && *patch.Email != user.Email {
		if existing, err := service.repository.FindByEmail(context, *patch.Email); err == nil && existing.ID != userID {
			return nil, apperr.Conflict("Email already registered")
		}
		user.Email = *patch.Email
	}

	if patch.Username != nil && *patch.Username != user.Username {
		if existing, err := service.repository.FindByUsername(context, *patch.Username); err == nil && existing.ID != userID {
			return nil, apperr.Conflict("Username already taken")
		}
		user.Username = *patch.Username
	}

	if patch.Password != nil {
		passwordHash, err := sec.HashPassword(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_update_hash_failed: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	if patch.IsAdmin != nil {
		user.IsAdmin = *patch.IsAdmin
	}

	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_updated", slog.String("user_id", userID))

	return user, nil
}

/*
Delete removes a user account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, userID string) error {
	if err := service.repository.Delete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.Warn("user_deleted", slog.String("user_id", userID))

	return nil
}

/*
List returns every registered account.

Parameters:
  - context: context.Context

Returns:
  - []User: All accounts
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context) ([]User, error) {
	users, err := service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, nil
}
