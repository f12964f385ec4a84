// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package catalog provides the HTTP delivery layer for books and translations.

# Security

Listing and text-streaming endpoints are anonymous. Every mutating endpoint
(create/update/delete book, upload source, add/replace translation files) is
gated behind RequireAdmin.
*/
package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/litmt/litmt/internal/platform/constants"
	"github.com/litmt/litmt/internal/platform/middleware"
	requestutil "github.com/litmt/litmt/internal/platform/request"
	"github.com/litmt/litmt/internal/platform/respond"
	"github.com/litmt/litmt/internal/platform/validate"
)

// Handler implements the HTTP layer for the catalog domain.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// BookRoutes returns a [chi.Router] configured with the book endpoints.
func (handler *Handler) BookRoutes() chi.Router {
	router := chi.NewRouter()

	// Anonymous reads
	router.Get("/", handler.listBooks)
	router.Get("/{id}/source", handler.readSource)

	// Admin mutations
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Post("/", handler.createBook)
		admin.Put("/{id}", handler.updateBook)
		admin.Delete("/{id}", handler.deleteBook)
		admin.Post("/{id}/source", handler.uploadSource)
		admin.Post("/{id}/translations", handler.addTranslation)
	})

	return router
}

// TranslationRoutes returns a [chi.Router] configured with the translation
// file endpoints.
func (handler *Handler) TranslationRoutes() chi.Router {
	router := chi.NewRouter()

	// Anonymous reads
	router.Get("/{id}/file", handler.downloadTranslationFile)
	router.Get("/{id}/view", handler.viewTranslation)

	// Admin mutations
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Post("/{id}/file", handler.replaceTranslationFile)
	})

	return router
}

// # Book Endpoints

// translationPayload defines one inline translation inside a book create request.
type translationPayload struct {
	Language     string  `json:"language"`
	Filename     *string `json:"filename"`
	Text         *string `json:"text"`
	TranslatedBy *string `json:"translated_by"`
}

// createBookRequest defines the expected JSON payload for book creation.
type createBookRequest struct {
	Title            string               `json:"title"`
	Author           *string              `json:"author"`
	Year             *int                 `json:"year"`
	Description      *string              `json:"description"`
	OriginalLanguage *string              `json:"original_language"`
	Source           *string              `json:"source"`
	Translations     []translationPayload `json:"translations"`
}

/*
POST /api/books.

Description: Creates a new book with optional inline translations. A failed
translation insert is skipped; the response carries whichever survived.

Request:
  - body: createBookRequest

Response:
  - 201: Book: The created book with surviving translations
  - 400: Validation: Missing title or invalid input
  - 401/403: Authentication or admin gate failures
*/
func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	var input createBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("title", input.Title).MaxLen("title", input.Title, 500)
	if input.Year != nil {
		v.Custom("year", *input.Year < 0, "Must not be negative")
	}
	for _, translation := range input.Translations {
		v.Required("translations.language", translation.Language)
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceInput := CreateBookInput{
		Title:            input.Title,
		Author:           input.Author,
		Year:             input.Year,
		Description:      input.Description,
		OriginalLanguage: input.OriginalLanguage,
		Source:           input.Source,
	}
	for _, translation := range input.Translations {
		serviceInput.Translations = append(serviceInput.Translations, TranslationInput{
			Language:     translation.Language,
			Filename:     translation.Filename,
			Text:         translation.Text,
			TranslatedBy: translation.TranslatedBy,
		})
	}

	book, err := handler.catalogService.CreateBook(request.Context(), serviceInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

/*
GET /api/books.

Description: Lists books with nested translations, newest first. Malformed
rows are skipped rather than failing the listing.

Request:
  - limit: int (query, optional, default 50)

Response:
  - 200: []Book: Hydrated books
  - 503: ServiceUnavailable: Store connectivity failure
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	limit := constants.DefaultBookListLimit
	if raw := request.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > constants.MaxBookListLimit {
		limit = constants.MaxBookListLimit
	}

	books, err := handler.catalogService.ListBooks(request.Context(), limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, books)
}

// updateBookRequest defines the expected JSON payload for a book merge-patch.
type updateBookRequest struct {
	Title            *string `json:"title"`
	Author           *string `json:"author"`
	Year             *int    `json:"year"`
	Description      *string `json:"description"`
	OriginalLanguage *string `json:"original_language"`
	Source           *string `json:"source"`
}

/*
PUT /api/books/{id}.

Description: Applies a merge-patch to a book. Only supplied fields change;
an empty body returns the book unchanged.

Request:
  - id: string (UUID)
  - body: updateBookRequest (Partial JSON)

Response:
  - 200: Book: The updated book
  - 400: Validation: Invalid input
  - 404: NotFound: Book absent
*/
func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	var input updateBookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Title != nil {
		v.Required("title", *input.Title).MaxLen("title", *input.Title, 500)
	}
	if input.Year != nil {
		v.Custom("year", *input.Year < 0, "Must not be negative")
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.catalogService.UpdateBook(request.Context(), bookID, BookPatch{
		Title:            input.Title,
		Author:           input.Author,
		Year:             input.Year,
		Description:      input.Description,
		OriginalLanguage: input.OriginalLanguage,
		Source:           input.Source,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
DELETE /api/books/{id}.

Description: Cascade-deletes the book, its translations, and their blobs.
Blob deletion failures are logged but never block the row deletions.

Request:
  - id: string (UUID)

Response:
  - 204: No Content: Book and dependents removed
  - 404: NotFound: Book absent
*/
func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	if err := handler.catalogService.DeleteBook(request.Context(), bookID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Source File Endpoints

/*
GET /api/books/{id}/source.

Description: Streams the book's original source as inline plain text. An
uploaded source file takes precedence over inline text; a book with neither
yields an empty body.

Request:
  - id: string (UUID)

Response:
  - 200: text/plain: Source content
  - 404: NotFound: Book absent
  - 500: StorageUnavailable: Blob retrieval failed
*/
func (handler *Handler) readSource(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	content, err := handler.catalogService.ReadSource(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Text(writer, content)
}

/*
POST /api/books/{id}/source.

Description: Uploads or replaces the book's source file. A prior source blob
is deleted best-effort before the reference is swapped.

Request:
  - id: string (UUID)
  - file: multipart file part

Response:
  - 200: Book: The updated book
  - 400: Validation: Missing or unreadable file part
  - 404: NotFound: Book absent
  - 500: StorageUnavailable: Blob write failed
*/
func (handler *Handler) uploadSource(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	filename, content, err := requestutil.FormFile(request, "file")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.catalogService.UploadSource(request.Context(), bookID, filename, content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// # Translation Endpoints

/*
POST /api/books/{id}/translations.

Description: Uploads a new translation file for a book and creates its record.

Request:
  - id: string (Book UUID)
  - language: multipart form field (required)
  - translated_by: multipart form field (optional)
  - file: multipart file part

Response:
  - 201: Translation: The created record
  - 400: Validation: Missing language or file
  - 404: NotFound: Book absent
  - 500: StorageUnavailable: Blob write failed
*/
func (handler *Handler) addTranslation(writer http.ResponseWriter, request *http.Request) {
	bookID := requestutil.ID(request, "id")

	filename, content, err := requestutil.FormFile(request, "file")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	language := request.FormValue("language")

	v := &validate.Validator{}
	v.Required("language", language).MaxLen("language", language, 100)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var translatedBy *string
	if value := request.FormValue("translated_by"); value != "" {
		translatedBy = &value
	}

	translation, err := handler.catalogService.AddTranslation(
		request.Context(), bookID, language, filename, content, translatedBy)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, translation)
}

/*
POST /api/translations/{id}/file.

Description: Replaces a translation's file. The prior blob is deleted
best-effort; after this call the record references only the new blob.

Request:
  - id: string (Translation UUID)
  - file: multipart file part

Response:
  - 200: Translation: The updated record
  - 400: Validation: Missing or unreadable file part
  - 404: NotFound: Translation absent
  - 500: StorageUnavailable: Blob write failed
*/
func (handler *Handler) replaceTranslationFile(writer http.ResponseWriter, request *http.Request) {
	translationID := requestutil.ID(request, "id")

	filename, content, err := requestutil.FormFile(request, "file")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	translation, err := handler.catalogService.ReplaceTranslationFile(
		request.Context(), translationID, filename, content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, translation)
}

/*
GET /api/translations/{id}/file.

Description: Downloads the translation file as an attachment. The original
filename lands in the Content-Disposition header.

Request:
  - id: string (Translation UUID)

Response:
  - 200: text/plain (attachment): File content
  - 404: NotFound: Translation or file reference absent
  - 500: StorageUnavailable: Blob read failed
*/
func (handler *Handler) downloadTranslationFile(writer http.ResponseWriter, request *http.Request) {
	translationID := requestutil.ID(request, "id")

	filename, content, err := handler.catalogService.ReadTranslationFile(request.Context(), translationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Attachment(writer, filename, content)
}

/*
GET /api/translations/{id}/view.

Description: Streams the translation content inline, without the attachment
header, for in-browser reading.

Request:
  - id: string (Translation UUID)

Response:
  - 200: text/plain: File content
  - 404: NotFound: Translation or file reference absent
  - 500: StorageUnavailable: Blob read failed
*/
func (handler *Handler) viewTranslation(writer http.ResponseWriter, request *http.Request) {
	translationID := requestutil.ID(request, "id")

	_, content, err := handler.catalogService.ReadTranslationFile(request.Context(), translationID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Text(writer, content)
}
