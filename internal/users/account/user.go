// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package account handles user identity: registration, credential verification,
and account CRUD.

Passwords are hashed with an adaptive one-way function before storage;
plaintext is never persisted. Username and email are unique across all users
at all times, enforced both by pre-insert lookups (for friendly error
messages) and by database constraints (for correctness under concurrency).

# Architecture

  - Entities: User.
  - Security: bcrypt hashing, JWT issuance folded into login.
  - Storage: PostgreSQL with unique indexes on username and email.
*/
package account

import (
	"context"
	"time"
)

// # Domain Entities

// User represents a registered account.
//
// PasswordHash is excluded from every JSON response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries the optional fields of a merge-patch account update.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
	IsAdmin  *bool
}

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		Insert persists a new user row.

		Parameters:
		  - context: context.Context
		  - user: *User (ID, hash, and timestamps already assigned)

		Returns:
		  - error: apperr.Conflict on unique violations, or storage failures
	*/
	Insert(context context.Context, user *User) error

	/*
		FindByID retrieves a user row by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded entity, password hash included
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail retrieves a user row by email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername retrieves a user row by username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Update writes the mutable fields of an existing user row.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity with changes applied)

		Returns:
		  - error: apperr.Conflict on unique violations, apperr.NotFound, or
		    storage failures
	*/
	Update(context context.Context, user *User) error

	/*
		Delete removes a user row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id string) error

	/*
		List returns every user row.

		Parameters:
		  - context: context.Context

		Returns:
		  - []User: All accounts
		  - error: apperr.ServiceUnavailable on store connectivity failure
	*/
	List(context context.Context) ([]User, error)
}
