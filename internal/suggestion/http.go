// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package suggestion provides the HTTP delivery layer for book suggestions.

# Security

Submission and the "mine" listing require authentication; the review queue
and acknowledgment are admin-only. There is no anonymous access anywhere in
this domain.
*/
package suggestion

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/litmt/litmt/internal/platform/constants"
	"github.com/litmt/litmt/internal/platform/middleware"
	requestutil "github.com/litmt/litmt/internal/platform/request"
	"github.com/litmt/litmt/internal/platform/respond"
	"github.com/litmt/litmt/internal/platform/validate"
	"github.com/litmt/litmt/pkg/pagination"
)

// Handler implements the HTTP layer for the suggestion domain.
type Handler struct {
	suggestionService *Service
}

// NewHandler constructs a new suggestion [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{suggestionService: service}
}

// Routes returns a [chi.Router] configured with the suggestion endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Authenticated users
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Post("/", handler.create)
		authed.Get("/mine", handler.listMine)
	})

	// Admin review queue
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Get("/", handler.list)
		admin.Put("/{id}/acknowledge", handler.acknowledge)
	})

	return router
}

// # Suggestion Endpoints

// createSuggestionRequest defines the expected JSON payload for submission.
type createSuggestionRequest struct {
	Title            string  `json:"title"`
	Author           *string `json:"author"`
	OriginalLanguage *string `json:"original_language"`
	Description      *string `json:"description"`
}

/*
POST /api/suggestions.

Description: Submits a new book suggestion. The submitter identity comes from
the verified token claims, never from the body.

Request:
  - body: createSuggestionRequest

Response:
  - 201: Suggestion: The created suggestion
  - 400: Validation: Missing title
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createSuggestionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("title", input.Title).MaxLen("title", input.Title, 500)
	if input.Description != nil {
		v.MaxLen("description", *input.Description, 5000)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	suggestion, err := handler.suggestionService.Create(request.Context(), CreateInput{
		Title:            input.Title,
		Author:           input.Author,
		OriginalLanguage: input.OriginalLanguage,
		Description:      input.Description,
	}, claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, suggestion)
}

/*
GET /api/suggestions.

Description: Lists suggestions for the admin review queue, newest first.

Request:
  - only_needing_review: bool (query, optional)
  - page, limit: int (query, optional)

Response:
  - 200: []Suggestion + meta: The requested page
  - 401/403: Authentication or admin gate failures
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	onlyNeedingReview := request.URL.Query().Get("only_needing_review") == "true"
	params := pagination.FromRequestWith(request,
		constants.DefaultSuggestionListLimit, constants.MaxSuggestionListLimit)

	suggestions, meta, err := handler.suggestionService.List(request.Context(), onlyNeedingReview, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, suggestions, meta)
}

/*
GET /api/suggestions/mine.

Description: Lists the authenticated user's own suggestions, newest first.

Response:
  - 200: []Suggestion: The caller's suggestions
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	suggestions, err := handler.suggestionService.ListMine(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, suggestions)
}

/*
PUT /api/suggestions/{id}/acknowledge.

Description: Marks a suggestion as reviewed. Re-acknowledging an already
reviewed suggestion re-stamps the reviewer and timestamp.

Request:
  - id: string (Suggestion UUID)

Response:
  - 200: Suggestion: The acknowledged suggestion
  - 401/403: Authentication or admin gate failures
  - 404: NotFound: Suggestion absent
*/
func (handler *Handler) acknowledge(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	suggestionID := requestutil.ID(request, "id")

	suggestion, err := handler.suggestionService.Acknowledge(request.Context(), suggestionID, claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, suggestion)
}
