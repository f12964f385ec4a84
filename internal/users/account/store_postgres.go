// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package account (Postgres) implements the storage layer for user accounts.

# Schema Table Mapping
  - users: Master identity rows with unique username and email indexes.
*/
package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/litmt/litmt/internal/platform/dberr"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new Postgres implementation for user accounts.
func NewRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{pool: pool, logger: logger}
}

const userColumns = `id, username, email, password_hash, is_admin, created_at, updated_at`

// scanUser loads one row into the entity, in userColumns order.
func scanUser(row pgx.Row, user *User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// collectRows drains a listing result set.
//
// Tolerant-read policy: a row that fails to scan is skipped with a logged
// warning rather than aborting the listing.
func (repository *PostgresRepository) collectRows(rows pgx.Rows) []User {
	users := make([]User, 0)
	for rows.Next() {
		var user User
		if err := scanUser(rows, &user); err != nil {
			repository.logger.Warn("user_row_skipped", slog.Any("error", err))
			continue
		}
		users = append(users, user)
	}
	return users
}

// Insert persists a new user row.
func (repository *PostgresRepository) Insert(context context.Context, user *User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)

	// Unique violations surface as apperr.Conflict
	if err != nil {
		return dberr.Wrap(err, "user_insert")
	}

	return nil
}

// findOne runs a single-row lookup with the shared column set.
func (repository *PostgresRepository) findOne(context context.Context, where string, argument interface{}) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = $1`

	user := &User{}
	if err := scanUser(repository.pool.QueryRow(context, query, argument), user); err != nil {
		return nil, dberr.Wrap(err, "user_find")
	}

	return user, nil
}

// FindByID retrieves a user row by its unique ID.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findOne(context, "id", id)
}

// FindByEmail retrieves a user row by email.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "email", email)
}

// FindByUsername retrieves a user row by username.
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findOne(context, "username", username)
}

// Update writes the mutable fields of an existing user row.
func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, is_admin = $5, updated_at = $6
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsAdmin,
		time.Now(),
	)
	if err != nil {
		return dberr.Wrap(err, "user_update")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Delete removes a user row.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "user_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// List returns every user row, oldest first.
func (repository *PostgresRepository) List(context context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.WrapList(err, "user_list")
	}
	defer rows.Close()

	users := repository.collectRows(rows)

	if err := rows.Err(); err != nil {
		return nil, dberr.WrapList(err, "user_list")
	}

	return users, nil
}
