// Copyright (c) 2026 LitMT. All rights reserved.

package catalog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litmt/litmt/internal/catalog"
	"github.com/litmt/litmt/internal/platform/apperr"
	"github.com/litmt/litmt/internal/platform/dberr"
	"github.com/litmt/litmt/pkg/pointer"
	"github.com/litmt/litmt/pkg/uuid"
)

// # Test Fakes

type fakeBookRepository struct {
	books map[string]*catalog.Book
}

func newFakeBookRepository() *fakeBookRepository {
	return &fakeBookRepository{books: make(map[string]*catalog.Book)}
}

func (repo *fakeBookRepository) Insert(_ context.Context, book *catalog.Book) error {
	copied := *book
	repo.books[book.ID] = &copied
	return nil
}

func (repo *fakeBookRepository) FindByID(_ context.Context, id string) (*catalog.Book, error) {
	book, found := repo.books[id]
	if !found {
		return nil, dberr.ErrNotFound
	}
	copied := *book
	return &copied, nil
}

func (repo *fakeBookRepository) List(_ context.Context, limit int) ([]catalog.Book, error) {
	books := make([]catalog.Book, 0, len(repo.books))
	for _, book := range repo.books {
		if len(books) >= limit {
			break
		}
		books = append(books, *book)
	}
	return books, nil
}

func (repo *fakeBookRepository) Update(_ context.Context, id string, patch catalog.BookPatch) (*catalog.Book, error) {
	book, found := repo.books[id]
	if !found {
		return nil, dberr.ErrNotFound
	}
	if patch.Title != nil {
		book.Title = *patch.Title
	}
	if patch.Author != nil {
		book.Author = patch.Author
	}
	if patch.Year != nil {
		book.Year = patch.Year
	}
	if patch.Description != nil {
		book.Description = patch.Description
	}
	if patch.OriginalLanguage != nil {
		book.OriginalLanguage = patch.OriginalLanguage
	}
	if patch.Source != nil {
		book.Source = patch.Source
	}
	book.UpdatedAt = time.Now()
	copied := *book
	return &copied, nil
}

func (repo *fakeBookRepository) UpdateSourceFile(_ context.Context, id, fileID, filename string) error {
	book, found := repo.books[id]
	if !found {
		return dberr.ErrNotFound
	}
	book.SourceFileID = &fileID
	book.SourceFilename = &filename
	return nil
}

func (repo *fakeBookRepository) Delete(_ context.Context, id string) error {
	if _, found := repo.books[id]; !found {
		return dberr.ErrNotFound
	}
	delete(repo.books, id)
	return nil
}

type fakeTranslationRepository struct {
	translations map[string]*catalog.Translation

	// failLanguage makes Insert fail for a specific language, simulating a
	// partial failure during book creation.
	failLanguage string
}

func newFakeTranslationRepository() *fakeTranslationRepository {
	return &fakeTranslationRepository{translations: make(map[string]*catalog.Translation)}
}

func (repo *fakeTranslationRepository) Insert(_ context.Context, translation *catalog.Translation) error {
	if repo.failLanguage != "" && translation.Language == repo.failLanguage {
		return errors.New("insert rejected")
	}
	copied := *translation
	repo.translations[translation.ID] = &copied
	return nil
}

func (repo *fakeTranslationRepository) FindByID(_ context.Context, id string) (*catalog.Translation, error) {
	translation, found := repo.translations[id]
	if !found {
		return nil, dberr.ErrNotFound
	}
	copied := *translation
	return &copied, nil
}

func (repo *fakeTranslationRepository) ListByBook(_ context.Context, bookID string) ([]catalog.Translation, error) {
	result := make([]catalog.Translation, 0)
	for _, translation := range repo.translations {
		if translation.BookID == bookID {
			result = append(result, *translation)
		}
	}
	return result, nil
}

func (repo *fakeTranslationRepository) UpdateFile(_ context.Context, id, fileID, filename string) error {
	translation, found := repo.translations[id]
	if !found {
		return dberr.ErrNotFound
	}
	translation.FileID = &fileID
	translation.Filename = &filename
	return nil
}

func (repo *fakeTranslationRepository) DeleteByBook(_ context.Context, bookID string) error {
	for id, translation := range repo.translations {
		if translation.BookID == bookID {
			delete(repo.translations, id)
		}
	}
	return nil
}

type fakeBlobStore struct {
	objects map[string][]byte
	deleted []string

	failPut    bool
	failGet    bool
	failDelete bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (store *fakeBlobStore) Put(_ context.Context, _ string, content []byte) (string, error) {
	if store.failPut {
		return "", errors.New("blob store down")
	}
	id := uuid.New()
	store.objects[id] = append([]byte(nil), content...)
	return id, nil
}

func (store *fakeBlobStore) Get(_ context.Context, id string) ([]byte, error) {
	if store.failGet {
		return nil, errors.New("blob store down")
	}
	content, found := store.objects[id]
	if !found {
		return nil, errors.New("object missing")
	}
	return content, nil
}

func (store *fakeBlobStore) Delete(_ context.Context, id string) error {
	store.deleted = append(store.deleted, id)
	if store.failDelete {
		return errors.New("blob store down")
	}
	delete(store.objects, id)
	return nil
}

// # Harness

type fixture struct {
	service      *catalog.Service
	books        *fakeBookRepository
	translations *fakeTranslationRepository
	blobs        *fakeBlobStore
}

func newFixture() *fixture {
	books := newFakeBookRepository()
	translations := newFakeTranslationRepository()
	blobs := newFakeBlobStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:      catalog.NewService(books, translations, blobs, logger),
		books:        books,
		translations: translations,
		blobs:        blobs,
	}
}

// # Book Lifecycle Tests

/*
TestService_CreateBook_WithInlineTranslations verifies that inline
translations are attached to the created book.
*/
func TestService_CreateBook_WithInlineTranslations(t *testing.T) {
	f := newFixture()

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{
		Title: "War and Peace",
		Translations: []catalog.TranslationInput{
			{Language: "en", Text: pointer.To("Well, Prince...")},
			{Language: "de", Text: pointer.To("Nun, Fürst...")},
		},
	})

	require.NoError(t, err)
	assert.Len(t, book.Translations, 2)

	listed, err := f.service.ListBooks(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Len(t, listed[0].Translations, 2)
}

/*
TestService_CreateBook_PartialTranslationFailure verifies that a failed
translation insert is skipped without rolling back the book or its siblings.
*/
func TestService_CreateBook_PartialTranslationFailure(t *testing.T) {
	f := newFixture()
	f.translations.failLanguage = "de"

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{
		Title: "Faust",
		Translations: []catalog.TranslationInput{
			{Language: "en", Text: pointer.To("...")},
			{Language: "de", Text: pointer.To("...")},
			{Language: "fr", Text: pointer.To("...")},
		},
	})

	require.NoError(t, err)
	require.Len(t, book.Translations, 2)
	for _, translation := range book.Translations {
		assert.NotEqual(t, "de", translation.Language)
	}
}

/*
TestService_UpdateBook_EmptyPatchIsNoOp verifies the merge-patch contract:
an empty patch returns the current state untouched.
*/
func TestService_UpdateBook_EmptyPatchIsNoOp(t *testing.T) {
	f := newFixture()

	created, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{
		Title:  "Dead Souls",
		Author: pointer.To("Gogol"),
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateBook(context.Background(), created.ID, catalog.BookPatch{})
	require.NoError(t, err)

	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Author, updated.Author)
}

/*
TestService_UpdateBook_MergePatch verifies that only supplied fields change.
*/
func TestService_UpdateBook_MergePatch(t *testing.T) {
	f := newFixture()

	created, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{
		Title:  "Dead Souls",
		Author: pointer.To("Gogol"),
		Year:   pointer.To(1842),
	})
	require.NoError(t, err)

	updated, err := f.service.UpdateBook(context.Background(), created.ID, catalog.BookPatch{
		Title: pointer.To("Dead Souls, Volume One"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Dead Souls, Volume One", updated.Title)
	assert.Equal(t, "Gogol", pointer.Val(updated.Author))
	assert.Equal(t, 1842, pointer.Val(updated.Year))
}

func TestService_UpdateBook_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.UpdateBook(context.Background(), uuid.New(), catalog.BookPatch{
		Title: pointer.To("anything"),
	})

	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_DeleteBook_Cascade verifies that deleting a book removes its
translations and their blobs, and that later reads fail with NotFound.
*/
func TestService_DeleteBook_Cascade(t *testing.T) {
	f := newFixture()

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{Title: "X"})
	require.NoError(t, err)

	_, err = f.service.UploadSource(context.Background(), book.ID, "x.txt", []byte("hello"))
	require.NoError(t, err)

	translation, err := f.service.AddTranslation(
		context.Background(), book.ID, "en", "x-en.txt", []byte("hallo"), nil)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteBook(context.Background(), book.ID))

	// Every dependent read now fails with NotFound.
	_, err = f.service.ReadSource(context.Background(), book.ID)
	assert.True(t, apperr.IsNotFound(err))

	_, _, err = f.service.ReadTranslationFile(context.Background(), translation.ID)
	assert.True(t, apperr.IsNotFound(err))

	// Both blobs were reclaimed.
	assert.Empty(t, f.blobs.objects)
}

/*
TestService_DeleteBook_BlobFailureDoesNotBlock verifies that blob-store
failures during cascade delete never prevent the row deletions.
*/
func TestService_DeleteBook_BlobFailureDoesNotBlock(t *testing.T) {
	f := newFixture()

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{Title: "X"})
	require.NoError(t, err)

	_, err = f.service.UploadSource(context.Background(), book.ID, "x.txt", []byte("hello"))
	require.NoError(t, err)

	f.blobs.failDelete = true

	require.NoError(t, f.service.DeleteBook(context.Background(), book.ID))

	_, err = f.service.ReadSource(context.Background(), book.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_DeleteBook_NotFound(t *testing.T) {
	f := newFixture()
	err := f.service.DeleteBook(context.Background(), uuid.New())
	assert.True(t, apperr.IsNotFound(err))
}

// # Source File Tests

/*
TestService_SourceRoundTrip verifies the byte-for-byte round trip of an
uploaded source file.
*/
func TestService_SourceRoundTrip(t *testing.T) {
	f := newFixture()

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{Title: "X"})
	require.NoError(t, err)

	uploaded := []byte("hello")
	_, err = f.service.UploadSource(context.Background(), book.ID, "x.txt", uploaded)
	require.NoError(t, err)

	content, err := f.service.ReadSource(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, uploaded, content)
}

/*
TestService_ReadSource_Precedence verifies that an uploaded source blob
wins over legacy inline text, and that a book with neither yields empty
content without an error.
*/
func TestService_ReadSource_Precedence(t *testing.T) {
	f := newFixture()

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{
		Title:  "X",
		Source: pointer.To("inline text"),
	})
	require.NoError(t, err)

	// Inline text served while no blob exists.
	content, err := f.service.ReadSource(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("inline text"), content)

	// Uploaded blob takes precedence once present.
	_, err = f.service.UploadSource(context.Background(), book.ID, "x.txt", []byte("uploaded"))
	require.NoError(t, err)

	content, err = f.service.ReadSource(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("uploaded"), content)

	// A book with neither yields empty content, not an error.
	bare, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{Title: "Y"})
	require.NoError(t, err)

	content, err = f.service.ReadSource(context.Background(), bare.ID)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestService_ReadSource_StorageFailure(t *testing.T) {
	f := newFixture()

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{Title: "X"})
	require.NoError(t, err)

	_, err = f.service.UploadSource(context.Background(), book.ID, "x.txt", []byte("hello"))
	require.NoError(t, err)

	f.blobs.failGet = true

	_, err = f.service.ReadSource(context.Background(), book.ID)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "STORAGE_UNAVAILABLE", ae.Code)
}

/*
TestService_UploadSource_ReplacesPriorBlob verifies that re-uploading a
source deletes the prior blob before storing the new one.
*/
func TestService_UploadSource_ReplacesPriorBlob(t *testing.T) {
	f := newFixture()

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{Title: "X"})
	require.NoError(t, err)

	first, err := f.service.UploadSource(context.Background(), book.ID, "v1.txt", []byte("v1"))
	require.NoError(t, err)
	firstBlobID := pointer.Val(first.SourceFileID)

	second, err := f.service.UploadSource(context.Background(), book.ID, "v2.txt", []byte("v2"))
	require.NoError(t, err)

	assert.NotEqual(t, firstBlobID, pointer.Val(second.SourceFileID))
	assert.Contains(t, f.blobs.deleted, firstBlobID)

	content, err := f.service.ReadSource(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), content)
}

// # Translation File Tests

/*
TestService_ReplaceTranslationFile verifies that after a replace the record
references only the newest blob, even when the old blob's deletion fails.
*/
func TestService_ReplaceTranslationFile(t *testing.T) {
	f := newFixture()

	book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{Title: "X"})
	require.NoError(t, err)

	original, err := f.service.AddTranslation(
		context.Background(), book.ID, "en", "v1.txt", []byte("v1"), nil)
	require.NoError(t, err)
	originalBlobID := pointer.Val(original.FileID)

	// Old blob delete fails; the replacement must proceed regardless.
	f.blobs.failDelete = true

	replaced, err := f.service.ReplaceTranslationFile(
		context.Background(), original.ID, "v2.txt", []byte("v2"))
	require.NoError(t, err)

	assert.NotEqual(t, originalBlobID, pointer.Val(replaced.FileID))
	assert.Equal(t, "v2.txt", pointer.Val(replaced.Filename))

	filename, content, err := f.service.ReadTranslationFile(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2.txt", filename)
	assert.Equal(t, []byte("v2"), content)
}

func TestService_AddTranslation_BookMissing(t *testing.T) {
	f := newFixture()

	_, err := f.service.AddTranslation(
		context.Background(), uuid.New(), "en", "x.txt", []byte("x"), nil)

	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_ReadTranslationFile_NoFileReference verifies that a translation
without a blob reference is NotFound as a file, even when it carries inline
text. Inline text is only readable through the book document.
*/
func TestService_ReadTranslationFile_NoFileReference(t *testing.T) {
	tests := []struct {
		name string
		text *string
	}{
		{"inline_text_only", pointer.To("inline translation")},
		{"no_content_at_all", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			book, err := f.service.CreateBook(context.Background(), catalog.CreateBookInput{
				Title: "X",
				Translations: []catalog.TranslationInput{
					{Language: "en", Text: tt.text},
				},
			})
			require.NoError(t, err)
			require.Len(t, book.Translations, 1)

			_, _, err = f.service.ReadTranslationFile(context.Background(), book.Translations[0].ID)
			assert.True(t, apperr.IsNotFound(err))
		})
	}
}
