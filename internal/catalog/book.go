// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package catalog manages literary works and their translations.

It owns the referential-integrity rules linking books to translation records
and to uploaded file blobs: cascade deletes, file replacement, and the
precedence of uploaded sources over legacy inline text.

# Architecture

  - Entities: Book, Translation.
  - Storage: PostgreSQL rows for metadata, object storage for file content.
  - Lifecycle: Multi-step mutations (cascade delete, file replace) are
    best-effort, never transactional across the blob store.
*/
package catalog

import (
	"context"
	"time"
)

// # Domain Entities

// Book represents a literary work in the catalog.
type Book struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Author           *string   `json:"author,omitempty"`
	Year             *int      `json:"year,omitempty"`
	Description      *string   `json:"description,omitempty"`
	OriginalLanguage *string   `json:"original_language,omitempty"`
	Source           *string   `json:"source,omitempty"` // Legacy inline source text
	SourceFileID     *string   `json:"source_file_id,omitempty"`
	SourceFilename   *string   `json:"source_filename,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Translations is hydrated by the service layer, not the book row itself.
	Translations []Translation `json:"translations"`
}

// Translation represents one translated rendition of a book.
//
// Content lives either inline in Text (translations supplied at book creation)
// or in the blob store referenced by FileID (uploaded files). FileID, when
// present, takes precedence for retrieval.
type Translation struct {
	ID           string    `json:"id"`
	BookID       string    `json:"book_id"`
	Language     string    `json:"language"`
	Filename     *string   `json:"filename,omitempty"`
	Text         *string   `json:"text,omitempty"`
	FileID       *string   `json:"file_id,omitempty"`
	TranslatedBy *string   `json:"translated_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BookPatch carries the optional fields of a merge-patch update.
//
// Nil fields are left untouched in storage; an all-nil patch is a no-op.
type BookPatch struct {
	Title            *string
	Author           *string
	Year             *int
	Description      *string
	OriginalLanguage *string
	Source           *string
}

// IsEmpty reports whether the patch carries no changes.
func (patch BookPatch) IsEmpty() bool {
	return patch.Title == nil && patch.Author == nil && patch.Year == nil &&
		patch.Description == nil && patch.OriginalLanguage == nil && patch.Source == nil
}

// # Repository Contracts

// BookRepository defines the persistence contract for book rows.
type BookRepository interface {
	/*
		Insert persists a new book row.

		Parameters:
		  - context: context.Context
		  - book: *Book (ID and timestamps already assigned)

		Returns:
		  - error: Storage or constraint failures
	*/
	Insert(context context.Context, book *Book) error

	/*
		FindByID retrieves a book row by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Book: Loaded entity, translations NOT attached
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Book, error)

	/*
		List returns up to limit book rows, newest first.

		Rows that fail to scan are skipped with a logged warning rather than
		failing the whole listing.

		Parameters:
		  - context: context.Context
		  - limit: int

		Returns:
		  - []Book: Successfully decoded rows
		  - error: apperr.ServiceUnavailable on store connectivity failure
	*/
	List(context context.Context, limit int) ([]Book, error)

	/*
		Update applies a merge-patch to an existing book row.

		Parameters:
		  - context: context.Context
		  - id: string
		  - patch: BookPatch (must be non-empty)

		Returns:
		  - *Book: The updated row
		  - error: apperr.NotFound or storage failures
	*/
	Update(context context.Context, id string, patch BookPatch) (*Book, error)

	/*
		UpdateSourceFile points the book at a new uploaded source blob.

		Parameters:
		  - context: context.Context
		  - id: string
		  - fileID: string (blob reference)
		  - filename: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateSourceFile(context context.Context, id, fileID, filename string) error

	/*
		Delete removes the book row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Delete(context context.Context, id string) error
}

// TranslationRepository defines the persistence contract for translation rows.
type TranslationRepository interface {
	/*
		Insert persists a new translation row.

		Parameters:
		  - context: context.Context
		  - translation: *Translation

		Returns:
		  - error: Storage or constraint failures
	*/
	Insert(context context.Context, translation *Translation) error

	/*
		FindByID retrieves a translation row by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Translation: Loaded entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Translation, error)

	/*
		ListByBook returns all translations owned by a book.

		Rows that fail to scan are skipped with a logged warning.

		Parameters:
		  - context: context.Context
		  - bookID: string

		Returns:
		  - []Translation: Successfully decoded rows
		  - error: Storage failures
	*/
	ListByBook(context context.Context, bookID string) ([]Translation, error)

	/*
		UpdateFile points the translation at a new uploaded blob.

		Parameters:
		  - context: context.Context
		  - id: string
		  - fileID: string (blob reference)
		  - filename: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	UpdateFile(context context.Context, id, fileID, filename string) error

	/*
		DeleteByBook removes every translation row owned by a book.

		Parameters:
		  - context: context.Context
		  - bookID: string

		Returns:
		  - error: Execution failures
	*/
	DeleteByBook(context context.Context, bookID string) error
}
