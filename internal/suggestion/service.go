// Copyright (c) 2026 LitMT. All rights reserved.

package suggestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/litmt/litmt/internal/platform/sec"
	"github.com/litmt/litmt/pkg/pagination"
	"github.com/litmt/litmt/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for the suggestion review lifecycle.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new suggestion [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// CreateInput carries the user-supplied fields of a new suggestion.
type CreateInput struct {
	Title            string
	Author           *string
	OriginalLanguage *string
	Description      *string
}

/*
Create submits a new suggestion on behalf of an authenticated user.

Description: The submitter identity is stamped from the verified claims, never
from the request body, and the lifecycle fields are initialized to the
needs-review state.

Parameters:
  - context: context.Context
  - input: CreateInput
  - claims: *sec.AuthClaims (the submitter)

Returns:
  - *Suggestion: The created suggestion
  - error: Insert failures
*/
func (service *Service) Create(context context.Context, input CreateInput, claims *sec.AuthClaims) (*Suggestion, error) {
	suggestion := &Suggestion{
		ID:               uuid.New(),
		Title:            input.Title,
		Author:           input.Author,
		OriginalLanguage: input.OriginalLanguage,
		Description:      input.Description,
		SubmitterID:      claims.UserID,
		CreatedAt:        time.Now(),
		NotifyAdmins:     true,
		NeedsReview:      true,
		Acknowledged:     false,
	}
	if claims.Username != "" {
		suggestion.SubmitterUsername = &claims.Username
	}

	if err := service.repository.Insert(context, suggestion); err != nil {
		return nil, fmt.Errorf("suggestion_service_create_failed: %w", err)
	}

	service.logger.Info("suggestion_created",
		slog.String("suggestion_id", suggestion.ID),
		slog.String("submitter_id", claims.UserID),
	)

	return suggestion, nil
}

/*
List returns one page of suggestions for the admin review queue.

Parameters:
  - context: context.Context
  - onlyNeedingReview: bool
  - params: pagination.Params

Returns:
  - []Suggestion: The requested page, newest first
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, onlyNeedingReview bool, params pagination.Params) ([]Suggestion, pagination.Meta, error) {
	suggestions, total, err := service.repository.List(context, onlyNeedingReview, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("suggestion_service_list_failed: %w", err)
	}

	return suggestions, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
ListMine returns every suggestion submitted by the calling user.

Parameters:
  - context: context.Context
  - submitterID: string

Returns:
  - []Suggestion: The submitter's suggestions, newest first
  - error: Retrieval failures
*/
func (service *Service) ListMine(context context.Context, submitterID string) ([]Suggestion, error) {
	suggestions, err := service.repository.ListBySubmitter(context, submitterID)
	if err != nil {
		return nil, fmt.Errorf("suggestion_service_list_mine_failed: %w", err)
	}

	return suggestions, nil
}

/*
Acknowledge marks a suggestion as reviewed by an administrator.

Description: Idempotent in effect — acknowledging an already acknowledged
suggestion simply re-stamps the reviewer identity and timestamp.

Parameters:
  - context: context.Context
  - suggestionID: string
  - claims: *sec.AuthClaims (the reviewing admin)

Returns:
  - *Suggestion: The acknowledged suggestion
  - error: apperr.NotFound or update failures
*/
func (service *Service) Acknowledge(context context.Context, suggestionID string, claims *sec.AuthClaims) (*Suggestion, error) {
	suggestion, err := service.repository.Acknowledge(context, suggestionID, claims.UserID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("suggestion_service_acknowledge_failed: %w", err)
	}

	service.logger.Info("suggestion_acknowledged",
		slog.String("suggestion_id", suggestionID),
		slog.String("reviewer_id", claims.UserID),
	)

	return suggestion, nil
}
