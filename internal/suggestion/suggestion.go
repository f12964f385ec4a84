// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package suggestion manages crowd-sourced book suggestions and their review
lifecycle.

A suggestion is created by any authenticated user with the lifecycle fields
needs_review=true, notify_admins=true, acknowledged=false. An administrator
acknowledges it, flipping the flags and stamping who acknowledged it and
when. Acknowledgment is the terminal transition; re-acknowledging is allowed
and simply re-stamps the reviewer.

# Architecture

  - Entities: Suggestion.
  - Lifecycle: created -> acknowledged (terminal, idempotent re-stamp).
  - Access: creation and "mine" listing are identity-scoped; review listing
    and acknowledgment are admin-only.
*/
package suggestion

import (
	"context"
	"time"

	"github.com/litmt/litmt/pkg/pagination"
)

// # Domain Entities

// Suggestion represents a reader-submitted request to add a book.
type Suggestion struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Author            *string    `json:"author,omitempty"`
	OriginalLanguage  *string    `json:"original_language,omitempty"`
	Description       *string    `json:"description,omitempty"`
	SubmitterID       string     `json:"submitter_id"`
	SubmitterUsername *string    `json:"submitter_username,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	NotifyAdmins      bool       `json:"notify_admins"`
	NeedsReview       bool       `json:"needs_review"`
	Acknowledged      bool       `json:"acknowledged"`
	AcknowledgedBy    *string    `json:"acknowledged_by,omitempty"`
	AcknowledgedAt    *time.Time `json:"acknowledged_at,omitempty"`
}

// # Repository Contracts

// Repository defines the persistence contract for suggestions.
type Repository interface {
	/*
		Insert persists a new suggestion row.

		Parameters:
		  - context: context.Context
		  - suggestion: *Suggestion (ID and lifecycle fields already assigned)

		Returns:
		  - error: Storage failures
	*/
	Insert(context context.Context, suggestion *Suggestion) error

	/*
		FindByID retrieves a suggestion row by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Suggestion: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Suggestion, error)

	/*
		List returns suggestions ordered by creation time descending.

		Parameters:
		  - context: context.Context
		  - onlyNeedingReview: bool (filter to needs_review=true rows)
		  - params: pagination.Params

		Returns:
		  - []Suggestion: The requested page
		  - int: Total matching rows (for pagination metadata)
		  - error: Storage failures
	*/
	List(context context.Context, onlyNeedingReview bool, params pagination.Params) ([]Suggestion, int, error)

	/*
		ListBySubmitter returns all suggestions submitted by a user, ordered by
		creation time descending.

		Parameters:
		  - context: context.Context
		  - submitterID: string

		Returns:
		  - []Suggestion: The submitter's suggestions
		  - error: Storage failures
	*/
	ListBySubmitter(context context.Context, submitterID string) ([]Suggestion, error)

	/*
		Acknowledge stamps the terminal review state onto a suggestion.

		The operation is idempotent in effect: acknowledging an already
		acknowledged suggestion re-stamps the reviewer and timestamp.

		Parameters:
		  - context: context.Context
		  - id: string
		  - reviewerID: string
		  - reviewedAt: time.Time

		Returns:
		  - *Suggestion: The updated row
		  - error: apperr.NotFound or storage failures
	*/
	Acknowledge(context context.Context, id, reviewerID string, reviewedAt time.Time) (*Suggestion, error)
}
