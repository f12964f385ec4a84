// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package suggestion (Postgres) implements the storage layer for suggestions.

# Schema Table Mapping
  - suggestions: Reader-submitted book requests with review-state flags.
*/
package suggestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/litmt/litmt/internal/platform/dberr"
	"github.com/litmt/litmt/pkg/pagination"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new Postgres implementation for suggestions.
func NewRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{pool: pool, logger: logger}
}

const suggestionColumns = `id, title, author, original_language, description,
	submitter_id, submitter_username, created_at, notify_admins, needs_review,
	acknowledged, acknowledged_by, acknowledged_at`

// scanSuggestion loads one row into the entity, in suggestionColumns order.
func scanSuggestion(row pgx.Row, suggestion *Suggestion) error {
	return row.Scan(
		&suggestion.ID,
		&suggestion.Title,
		&suggestion.Author,
		&suggestion.OriginalLanguage,
		&suggestion.Description,
		&suggestion.SubmitterID,
		&suggestion.SubmitterUsername,
		&suggestion.CreatedAt,
		&suggestion.NotifyAdmins,
		&suggestion.NeedsReview,
		&suggestion.Acknowledged,
		&suggestion.AcknowledgedBy,
		&suggestion.AcknowledgedAt,
	)
}

// collectRows drains a listing result set.
//
// Tolerant-read policy: a row that fails to scan is skipped with a logged
// warning rather than aborting the listing.
func (repository *PostgresRepository) collectRows(rows pgx.Rows) []Suggestion {
	suggestions := make([]Suggestion, 0)
	for rows.Next() {
		var suggestion Suggestion
		if err := scanSuggestion(rows, &suggestion); err != nil {
			repository.logger.Warn("suggestion_row_skipped", slog.Any("error", err))
			continue
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

// Insert persists a new suggestion row.
func (repository *PostgresRepository) Insert(context context.Context, suggestion *Suggestion) error {
	query := `
		INSERT INTO suggestions (` + suggestionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := repository.pool.Exec(context, query,
		suggestion.ID,
		suggestion.Title,
		suggestion.Author,
		suggestion.OriginalLanguage,
		suggestion.Description,
		suggestion.SubmitterID,
		suggestion.SubmitterUsername,
		suggestion.CreatedAt,
		suggestion.NotifyAdmins,
		suggestion.NeedsReview,
		suggestion.Acknowledged,
		suggestion.AcknowledgedBy,
		suggestion.AcknowledgedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "suggestion_insert")
	}

	return nil
}

// FindByID retrieves a suggestion row by its unique ID.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions WHERE id = $1`

	suggestion := &Suggestion{}
	if err := scanSuggestion(repository.pool.QueryRow(context, query, id), suggestion); err != nil {
		return nil, dberr.Wrap(err, "suggestion_find_by_id")
	}

	return suggestion, nil
}

// List returns one page of suggestions, newest first, with the total count.
func (repository *PostgresRepository) List(context context.Context, onlyNeedingReview bool, params pagination.Params) ([]Suggestion, int, error) {
	filter := ""
	if onlyNeedingReview {
		filter = " WHERE needs_review = TRUE"
	}

	total := 0
	countQuery := `SELECT COUNT(*) FROM suggestions` + filter
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.WrapList(err, "suggestion_count")
	}

	query := `SELECT ` + suggestionColumns + ` FROM suggestions` + filter + `
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.WrapList(err, "suggestion_list")
	}
	defer rows.Close()

	suggestions := repository.collectRows(rows)

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.WrapList(err, "suggestion_list")
	}

	return suggestions, total, nil
}

// ListBySubmitter returns a user's suggestions, newest first.
func (repository *PostgresRepository) ListBySubmitter(context context.Context, submitterID string) ([]Suggestion, error) {
	query := `SELECT ` + suggestionColumns + ` FROM suggestions
		WHERE submitter_id = $1
		ORDER BY created_at DESC`

	rows, err := repository.pool.Query(context, query, submitterID)
	if err != nil {
		return nil, dberr.WrapList(err, "suggestion_list_by_submitter")
	}
	defer rows.Close()

	suggestions := repository.collectRows(rows)

	if err := rows.Err(); err != nil {
		return nil, dberr.WrapList(err, "suggestion_list_by_submitter")
	}

	return suggestions, nil
}

// Acknowledge stamps the terminal review state and returns the updated row.
func (repository *PostgresRepository) Acknowledge(context context.Context, id, reviewerID string, reviewedAt time.Time) (*Suggestion, error) {
	query := `
		UPDATE suggestions
		SET needs_review = FALSE,
			notify_admins = FALSE,
			acknowledged = TRUE,
			acknowledged_by = $2,
			acknowledged_at = $3
		WHERE id = $1
		RETURNING ` + suggestionColumns

	suggestion := &Suggestion{}
	if err := scanSuggestion(repository.pool.QueryRow(context, query, id, reviewerID, reviewedAt), suggestion); err != nil {
		return nil, dberr.Wrap(err, "suggestion_acknowledge")
	}

	return suggestion, nil
}
