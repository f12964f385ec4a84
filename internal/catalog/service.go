// Copyright (c) 2026 LitMT. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/litmt/litmt/internal/platform/apperr"
	"github.com/litmt/litmt/internal/platform/blob"
	"github.com/litmt/litmt/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for books, translations, and their
// attached files.
//
// It owns the resource-lifecycle contract: cascade deletes, blob replacement,
// and the precedence of uploaded sources over inline text. Multi-step
// mutations are best-effort; blob cleanup failures are logged and never abort
// the enclosing operation, since a stale orphaned blob is preferable to
// blocking a user-facing mutation.
type Service struct {
	bookRepository        BookRepository
	translationRepository TranslationRepository
	blobStore             blob.Store
	logger                *slog.Logger
}

// NewService constructs a new catalog [Service] with its dependencies.
func NewService(
	bookRepo BookRepository,
	translationRepo TranslationRepository,
	blobStore blob.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		bookRepository:        bookRepo,
		translationRepository: translationRepo,
		blobStore:             blobStore,
		logger:                logger,
	}
}

// # Book Management

// TranslationInput carries one inline translation supplied at book creation.
type TranslationInput struct {
	Language     string
	Filename     *string
	Text         *string
	TranslatedBy *string
}

// CreateBookInput carries the fields for a new book plus optional inline
// translations.
type CreateBookInput struct {
	Title            string
	Author           *string
	Year             *int
	Description      *string
	OriginalLanguage *string
	Source           *string
	Translations     []TranslationInput
}

/*
CreateBook inserts a new book and its inline translations.

Description: The book row is inserted first, then each translation referencing
the new book ID. A failed translation insert is skipped with a logged warning
and does not roll back the book or the other translations; the returned book
carries whichever translations succeeded.

Parameters:
  - context: context.Context
  - input: CreateBookInput

Returns:
  - *Book: The created book with its surviving translations attached
  - error: Insert or storage failures on the book row itself
*/
func (service *Service) CreateBook(context context.Context, input CreateBookInput) (*Book, error) {
	currentTime := time.Now()
	book := &Book{
		ID:               uuid.New(),
		Title:            input.Title,
		Author:           input.Author,
		Year:             input.Year,
		Description:      input.Description,
		OriginalLanguage: input.OriginalLanguage,
		Source:           input.Source,
		CreatedAt:        currentTime,
		UpdatedAt:        currentTime,
		Translations:     []Translation{},
	}

	if err := service.bookRepository.Insert(context, book); err != nil {
		return nil, fmt.Errorf("catalog_service_create_book_failed: %w", err)
	}

	// Partial-failure policy: a failed translation insert is skipped, never
	// rolled back.
	for _, translationInput := range input.Translations {
		translation := Translation{
			ID:           uuid.New(),
			BookID:       book.ID,
			Language:     translationInput.Language,
			Filename:     translationInput.Filename,
			Text:         translationInput.Text,
			TranslatedBy: translationInput.TranslatedBy,
			CreatedAt:    currentTime,
			UpdatedAt:    currentTime,
		}

		if err := service.translationRepository.Insert(context, &translation); err != nil {
			service.logger.Warn("book_inline_translation_skipped",
				slog.String("book_id", book.ID),
				slog.String("language", translationInput.Language),
				slog.Any("error", err),
			)
			continue
		}

		book.Translations = append(book.Translations, translation)
	}

	service.logger.Info("book_created",
		slog.String("book_id", book.ID),
		slog.Int("translations", len(book.Translations)),
	)

	return book, nil
}

/*
ListBooks returns up to limit books, each with its translations attached.

Description: Both the book listing and the per-book translation listings are
tolerant reads; malformed rows are skipped by the repository and a failed
translation fetch leaves that book with an empty translation list.

Parameters:
  - context: context.Context
  - limit: int

Returns:
  - []Book: Hydrated books
  - error: apperr.ServiceUnavailable when the store is unreachable
*/
func (service *Service) ListBooks(context context.Context, limit int) ([]Book, error) {
	books, err := service.bookRepository.List(context, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_list_books_failed: %w", err)
	}

	for i := range books {
		translations, err := service.translationRepository.ListByBook(context, books[i].ID)
		if err != nil {
			// Tolerant read: the book is still listed, just without translations.
			service.logger.Warn("book_translations_unavailable",
				slog.String("book_id", books[i].ID),
				slog.Any("error", err),
			)
			translations = []Translation{}
		}
		books[i].Translations = translations
	}

	return books, nil
}

/*
GetBook retrieves a single book with its translations attached.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - *Book: Hydrated entity
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetBook(context context.Context, bookID string) (*Book, error) {
	book, err := service.bookRepository.FindByID(context, bookID)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_get_book_failed: %w", err)
	}

	translations, err := service.translationRepository.ListByBook(context, bookID)
	if err != nil {
		translations = []Translation{}
	}
	book.Translations = translations

	return book, nil
}

/*
UpdateBook applies a merge-patch to a book.

Description: Only explicitly provided fields are written. An empty patch is a
no-op that still returns the current state.

Parameters:
  - context: context.Context
  - bookID: string
  - patch: BookPatch

Returns:
  - *Book: The updated (or unchanged) book with translations attached
  - error: apperr.NotFound or storage failures
*/
func (service *Service) UpdateBook(context context.Context, bookID string, patch BookPatch) (*Book, error) {

	// Idempotent no-op: an empty patch returns the current state untouched.
	if patch.IsEmpty() {
		return service.GetBook(context, bookID)
	}

	book, err := service.bookRepository.Update(context, bookID, patch)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_update_book_failed: %w", err)
	}

	translations, err := service.translationRepository.ListByBook(context, bookID)
	if err != nil {
		translations = []Translation{}
	}
	book.Translations = translations

	service.logger.Info("book_updated", slog.String("book_id", bookID))

	return book, nil
}

/*
DeleteBook cascade-deletes a book, its translations, and their blobs.

Description: Cleanup runs in a fixed order chosen for crash-safety: dependent
blobs first, then translation rows, then the book row. A crash mid-operation
leaves at most orphaned blobs or translation rows, never a translation whose
cleanup was skipped entirely. Blob deletion failures are logged and ignored.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - error: apperr.NotFound if the book is absent, or row deletion failures
*/
func (service *Service) DeleteBook(context context.Context, bookID string) error {
	book, err := service.bookRepository.FindByID(context, bookID)
	if err != nil {
		return fmt.Errorf("catalog_service_delete_lookup_failed: %w", err)
	}

	// 1. Source blob (non-fatal)
	if book.SourceFileID != nil {
		if err := service.blobStore.Delete(context, *book.SourceFileID); err != nil {
			service.logger.Warn("book_source_blob_delete_failed",
				slog.String("book_id", bookID),
				slog.String("file_id", *book.SourceFileID),
				slog.Any("error", err),
			)
		}
	}

	// 2. Translation blobs (non-fatal per file)
	translations, err := service.translationRepository.ListByBook(context, bookID)
	if err != nil {
		service.logger.Warn("book_translations_list_failed_on_delete",
			slog.String("book_id", bookID),
			slog.Any("error", err),
		)
		translations = nil
	}
	for _, translation := range translations {
		if translation.FileID == nil {
			continue
		}
		if err := service.blobStore.Delete(context, *translation.FileID); err != nil {
			service.logger.Warn("translation_blob_delete_failed",
				slog.String("translation_id", translation.ID),
				slog.String("file_id", *translation.FileID),
				slog.Any("error", err),
			)
		}
	}

	// 3. Translation rows
	if err := service.translationRepository.DeleteByBook(context, bookID); err != nil {
		return fmt.Errorf("catalog_service_delete_translations_failed: %w", err)
	}

	// 4. Book row
	if err := service.bookRepository.Delete(context, bookID); err != nil {
		return fmt.Errorf("catalog_service_delete_book_failed: %w", err)
	}

	service.logger.Info("book_deleted",
		slog.String("book_id", bookID),
		slog.Int("translations_removed", len(translations)),
	)

	return nil
}

// # Source Files

/*
UploadSource stores a new source file for a book and updates its reference.

Description: A prior source blob, if any, is deleted first (non-fatal on
failure). The book row is only updated after the new blob is safely stored,
so it never references a blob that was not written.

Parameters:
  - context: context.Context
  - bookID: string
  - filename: string
  - content: []byte

Returns:
  - *Book: The updated book
  - error: apperr.NotFound, apperr.StorageUnavailable, or update failures
*/
func (service *Service) UploadSource(context context.Context, bookID, filename string, content []byte) (*Book, error) {
	book, err := service.bookRepository.FindByID(context, bookID)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_upload_source_lookup_failed: %w", err)
	}

	// Best-effort cleanup of the prior blob.
	if book.SourceFileID != nil {
		if err := service.blobStore.Delete(context, *book.SourceFileID); err != nil {
			service.logger.Warn("book_source_blob_delete_failed",
				slog.String("book_id", bookID),
				slog.String("file_id", *book.SourceFileID),
				slog.Any("error", err),
			)
		}
	}

	fileID, err := service.blobStore.Put(context, filename, content)
	if err != nil {
		return nil, apperr.StorageUnavailable("Failed to store source file", err)
	}

	if err := service.bookRepository.UpdateSourceFile(context, bookID, fileID, filename); err != nil {
		return nil, fmt.Errorf("catalog_service_upload_source_update_failed: %w", err)
	}

	service.logger.Info("book_source_uploaded",
		slog.String("book_id", bookID),
		slog.String("file_id", fileID),
	)

	return service.GetBook(context, bookID)
}

/*
ReadSource returns the original source text of a book.

Description: An uploaded source blob, when present, takes precedence over the
legacy inline source field. A book with neither yields empty content, never an
error; retrieval only fails when the book itself is absent or the blob store
cannot serve a referenced blob.

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - []byte: Source content (possibly empty)
  - error: apperr.NotFound or apperr.StorageUnavailable
*/
func (service *Service) ReadSource(context context.Context, bookID string) ([]byte, error) {
	book, err := service.bookRepository.FindByID(context, bookID)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_read_source_lookup_failed: %w", err)
	}

	// Uploaded blob takes precedence over inline text.
	if book.SourceFileID != nil {
		content, err := service.blobStore.Get(context, *book.SourceFileID)
		if err != nil {
			return nil, apperr.StorageUnavailable("Failed to read source file", err)
		}
		return content, nil
	}

	if book.Source != nil {
		return []byte(*book.Source), nil
	}

	return []byte{}, nil
}

// # Translation Files

/*
AddTranslation stores an uploaded translation file and creates its record.

Parameters:
  - context: context.Context
  - bookID: string
  - language: string
  - filename: string
  - content: []byte
  - translatedBy: *string

Returns:
  - *Translation: The created record referencing the stored blob
  - error: apperr.NotFound, apperr.StorageUnavailable, or insert failures
*/
func (service *Service) AddTranslation(context context.Context, bookID, language, filename string, content []byte, translatedBy *string) (*Translation, error) {
	if _, err := service.bookRepository.FindByID(context, bookID); err != nil {
		return nil, fmt.Errorf("catalog_service_add_translation_lookup_failed: %w", err)
	}

	fileID, err := service.blobStore.Put(context, filename, content)
	if err != nil {
		return nil, apperr.StorageUnavailable("Failed to store translation file", err)
	}

	currentTime := time.Now()
	translation := &Translation{
		ID:        uuid.New(),
		BookID:    bookID,
		Language:  language,
		Filename:  &filename,
		FileID:    &fileID,
		CreatedAt: currentTime,
		UpdatedAt: currentTime,
	}
	if translatedBy != nil {
		translation.TranslatedBy = translatedBy
	}

	if err := service.translationRepository.Insert(context, translation); err != nil {
		// The row never existed, so the fresh blob is now orphaned. Reclaim it.
		if cleanupErr := service.blobStore.Delete(context, fileID); cleanupErr != nil {
			service.logger.Warn("translation_blob_orphaned",
				slog.String("file_id", fileID),
				slog.Any("error", cleanupErr),
			)
		}
		return nil, fmt.Errorf("catalog_service_add_translation_failed: %w", err)
	}

	service.logger.Info("translation_added",
		slog.String("book_id", bookID),
		slog.String("translation_id", translation.ID),
		slog.String("language", language),
	)

	return translation, nil
}

/*
ReplaceTranslationFile swaps a translation's file for newly uploaded content.

Description: The prior blob is deleted best-effort; a failed delete leaves a
stale orphaned blob but never blocks the replacement. The record is updated
only after the new blob is stored, so it can never reference a blob that was
not written, and after the call returns the record references only the newest
blob regardless of whether the old one was reclaimed.

Parameters:
  - context: context.Context
  - translationID: string
  - filename: string
  - content: []byte

Returns:
  - *Translation: The updated record
  - error: apperr.NotFound, apperr.StorageUnavailable, or update failures
*/
func (service *Service) ReplaceTranslationFile(context context.Context, translationID, filename string, content []byte) (*Translation, error) {
	translation, err := service.translationRepository.FindByID(context, translationID)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_replace_file_lookup_failed: %w", err)
	}

	// Best-effort cleanup of the prior blob.
	if translation.FileID != nil {
		if err := service.blobStore.Delete(context, *translation.FileID); err != nil {
			service.logger.Warn("translation_blob_delete_failed",
				slog.String("translation_id", translationID),
				slog.String("file_id", *translation.FileID),
				slog.Any("error", err),
			)
		}
	}

	fileID, err := service.blobStore.Put(context, filename, content)
	if err != nil {
		return nil, apperr.StorageUnavailable("Failed to store translation file", err)
	}

	if err := service.translationRepository.UpdateFile(context, translationID, fileID, filename); err != nil {
		return nil, fmt.Errorf("catalog_service_replace_file_update_failed: %w", err)
	}

	service.logger.Info("translation_file_replaced",
		slog.String("translation_id", translationID),
		slog.String("file_id", fileID),
	)

	return service.translationRepository.FindByID(context, translationID)
}

/*
ReadTranslationFile returns the content of a translation's file.

Description: Used by both the attachment download and the inline view
endpoints. A translation whose record carries no file reference is
reported as NotFound, even when it holds inline text.

Parameters:
  - context: context.Context
  - translationID: string

Returns:
  - string: Filename for the Content-Disposition header (may be empty)
  - []byte: File content
  - error: apperr.NotFound (record or file reference absent) or
    apperr.StorageUnavailable
*/
func (service *Service) ReadTranslationFile(context context.Context, translationID string) (string, []byte, error) {
	translation, err := service.translationRepository.FindByID(context, translationID)
	if err != nil {
		return "", nil, fmt.Errorf("catalog_service_read_file_lookup_failed: %w", err)
	}

	filename := ""
	if translation.Filename != nil {
		filename = *translation.Filename
	}

	// Inline translations (created with the book) have no blob reference
	// and are served only through the book document, never as a file.
	if translation.FileID == nil {
		return "", nil, apperr.NotFound("Translation file")
	}

	content, err := service.blobStore.Get(context, *translation.FileID)
	if err != nil {
		return "", nil, apperr.StorageUnavailable("Failed to read translation file", err)
	}

	return filename, content, nil
}
