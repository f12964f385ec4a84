// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package catalog (Postgres) implements the storage layer for books and translations.

# Schema Table Mapping
  - books: Master catalog rows, including legacy inline source text.
  - translations: Per-language renditions referencing their owning book.

Translation rows carry no foreign key to books. Cascade deletes are performed
best-effort by the service layer, so a crash mid-delete may leave orphaned
translation rows; the tolerant listing path makes those invisible to clients.
*/
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/litmt/litmt/internal/platform/dberr"
)

// # Repository Implementations

// PostgresBookRepository implements [BookRepository] using pgx.
type PostgresBookRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewBookRepository creates a new Postgres implementation for book rows.
func NewBookRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresBookRepository {
	return &PostgresBookRepository{pool: pool, logger: logger}
}

// PostgresTranslationRepository implements [TranslationRepository] using pgx.
type PostgresTranslationRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTranslationRepository creates a new Postgres implementation for translation rows.
func NewTranslationRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresTranslationRepository {
	return &PostgresTranslationRepository{pool: pool, logger: logger}
}

// # BookRepository Methods

const bookColumns = `id, title, author, year, description, original_language,
	source, source_file_id, source_filename, created_at, updated_at`

// Insert persists a new book row.
func (repository *PostgresBookRepository) Insert(context context.Context, book *Book) error {
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := repository.pool.Exec(context, query,
		book.ID,
		book.Title,
		book.Author,
		book.Year,
		book.Description,
		book.OriginalLanguage,
		book.Source,
		book.SourceFileID,
		book.SourceFilename,
		book.CreatedAt,
		book.UpdatedAt,
	)

	// If the insert fails, return a classified error
	if err != nil {
		return dberr.Wrap(err, "book_insert")
	}

	return nil
}

// FindByID retrieves a book row by its unique ID.
func (repository *PostgresBookRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book := &Book{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Year,
		&book.Description,
		&book.OriginalLanguage,
		&book.Source,
		&book.SourceFileID,
		&book.SourceFilename,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "book_find_by_id")
	}

	return book, nil
}

// List returns up to limit book rows, newest first.
//
// Tolerant-read policy: a row that fails to scan is skipped with a logged
// warning rather than aborting the listing.
func (repository *PostgresBookRepository) List(context context.Context, limit int) ([]Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC LIMIT $1`

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, dberr.WrapList(err, "book_list")
	}
	defer rows.Close()

	books := make([]Book, 0, limit)
	for rows.Next() {
		var book Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Year,
			&book.Description,
			&book.OriginalLanguage,
			&book.Source,
			&book.SourceFileID,
			&book.SourceFilename,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			// Skip the malformed row; availability beats strictness on reads.
			repository.logger.Warn("book_row_skipped", slog.Any("error", err))
			continue
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.WrapList(err, "book_list")
	}

	return books, nil
}

// Update applies a merge-patch to a book row and returns the updated state.
//
// The SET clause is assembled dynamically from the non-nil patch fields so
// unset fields are never touched.
func (repository *PostgresBookRepository) Update(context context.Context, id string, patch BookPatch) (*Book, error) {
	setClauses := make([]string, 0, 7)
	arguments := make([]interface{}, 0, 8)
	arguments = append(arguments, id)

	addClause := func(column string, value interface{}) {
		arguments = append(arguments, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(arguments)))
	}

	if patch.Title != nil {
		addClause("title", *patch.Title)
	}
	if patch.Author != nil {
		addClause("author", *patch.Author)
	}
	if patch.Year != nil {
		addClause("year", *patch.Year)
	}
	if patch.Description != nil {
		addClause("description", *patch.Description)
	}
	if patch.OriginalLanguage != nil {
		addClause("original_language", *patch.OriginalLanguage)
	}
	if patch.Source != nil {
		addClause("source", *patch.Source)
	}
	addClause("updated_at", time.Now())

	query := fmt.Sprintf(`
		UPDATE books SET %s WHERE id = $1
		RETURNING `+bookColumns, strings.Join(setClauses, ", "))

	book := &Book{}
	err := repository.pool.QueryRow(context, query, arguments...).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Year,
		&book.Description,
		&book.OriginalLanguage,
		&book.Source,
		&book.SourceFileID,
		&book.SourceFilename,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "book_update")
	}

	return book, nil
}

// UpdateSourceFile points the book at a newly uploaded source blob.
func (repository *PostgresBookRepository) UpdateSourceFile(context context.Context, id, fileID, filename string) error {
	query := `
		UPDATE books
		SET source_file_id = $2, source_filename = $3, updated_at = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, fileID, filename, time.Now())
	if err != nil {
		return dberr.Wrap(err, "book_update_source_file")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// Delete removes the book row.
func (repository *PostgresBookRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "book_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// # TranslationRepository Methods

const translationColumns = `id, book_id, language, filename, text, file_id,
	translated_by, created_at, updated_at`

// Insert persists a new translation row.
func (repository *PostgresTranslationRepository) Insert(context context.Context, translation *Translation) error {
	query := `
		INSERT INTO translations (` + translationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := repository.pool.Exec(context, query,
		translation.ID,
		translation.BookID,
		translation.Language,
		translation.Filename,
		translation.Text,
		translation.FileID,
		translation.TranslatedBy,
		translation.CreatedAt,
		translation.UpdatedAt,
	)

	// If the insert fails, return a classified error
	if err != nil {
		return dberr.Wrap(err, "translation_insert")
	}

	return nil
}

// FindByID retrieves a translation row by its unique ID.
func (repository *PostgresTranslationRepository) FindByID(context context.Context, id string) (*Translation, error) {
	query := `SELECT ` + translationColumns + ` FROM translations WHERE id = $1`

	translation := &Translation{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&translation.ID,
		&translation.BookID,
		&translation.Language,
		&translation.Filename,
		&translation.Text,
		&translation.FileID,
		&translation.TranslatedBy,
		&translation.CreatedAt,
		&translation.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "translation_find_by_id")
	}

	return translation, nil
}

// ListByBook returns all translations owned by a book, oldest first.
//
// Tolerant-read policy: malformed rows are skipped with a logged warning.
func (repository *PostgresTranslationRepository) ListByBook(context context.Context, bookID string) ([]Translation, error) {
	query := `SELECT ` + translationColumns + ` FROM translations WHERE book_id = $1 ORDER BY created_at ASC`

	rows, err := repository.pool.Query(context, query, bookID)
	if err != nil {
		return nil, dberr.WrapList(err, "translation_list_by_book")
	}
	defer rows.Close()

	translations := make([]Translation, 0)
	for rows.Next() {
		var translation Translation
		if err := rows.Scan(
			&translation.ID,
			&translation.BookID,
			&translation.Language,
			&translation.Filename,
			&translation.Text,
			&translation.FileID,
			&translation.TranslatedBy,
			&translation.CreatedAt,
			&translation.UpdatedAt,
		); err != nil {
			repository.logger.Warn("translation_row_skipped",
				slog.String("book_id", bookID),
				slog.Any("error", err),
			)
			continue
		}
		translations = append(translations, translation)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.WrapList(err, "translation_list_by_book")
	}

	return translations, nil
}

// UpdateFile points the translation at a newly uploaded blob.
func (repository *PostgresTranslationRepository) UpdateFile(context context.Context, id, fileID, filename string) error {
	query := `
		UPDATE translations
		SET file_id = $2, filename = $3, updated_at = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, fileID, filename, time.Now())
	if err != nil {
		return dberr.Wrap(err, "translation_update_file")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// DeleteByBook removes every translation row owned by a book.
func (repository *PostgresTranslationRepository) DeleteByBook(context context.Context, bookID string) error {
	_, err := repository.pool.Exec(context, `DELETE FROM translations WHERE book_id = $1`, bookID)
	if err != nil {
		return dberr.Wrap(err, "translation_delete_by_book")
	}

	return nil
}
