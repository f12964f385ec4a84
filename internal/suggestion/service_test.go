// Copyright (c) 2026 LitMT. All rights reserved.

package suggestion_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litmt/litmt/internal/platform/apperr"
	"github.com/litmt/litmt/internal/platform/dberr"
	"github.com/litmt/litmt/internal/platform/sec"
	"github.com/litmt/litmt/internal/suggestion"
	"github.com/litmt/litmt/pkg/pagination"
	"github.com/litmt/litmt/pkg/uuid"
)

// # Test Fakes

type fakeRepository struct {
	suggestions map[string]*suggestion.Suggestion
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{suggestions: make(map[string]*suggestion.Suggestion)}
}

func (repo *fakeRepository) Insert(_ context.Context, s *suggestion.Suggestion) error {
	copied := *s
	repo.suggestions[s.ID] = &copied
	return nil
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*suggestion.Suggestion, error) {
	s, found := repo.suggestions[id]
	if !found {
		return nil, dberr.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (repo *fakeRepository) List(_ context.Context, onlyNeedingReview bool, params pagination.Params) ([]suggestion.Suggestion, int, error) {
	matches := make([]suggestion.Suggestion, 0)
	for _, s := range repo.suggestions {
		if onlyNeedingReview && !s.NeedsReview {
			continue
		}
		matches = append(matches, *s)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return matches[start:end], total, nil
}

func (repo *fakeRepository) ListBySubmitter(_ context.Context, submitterID string) ([]suggestion.Suggestion, error) {
	matches := make([]suggestion.Suggestion, 0)
	for _, s := range repo.suggestions {
		if s.SubmitterID == submitterID {
			matches = append(matches, *s)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (repo *fakeRepository) Acknowledge(_ context.Context, id, reviewerID string, reviewedAt time.Time) (*suggestion.Suggestion, error) {
	s, found := repo.suggestions[id]
	if !found {
		return nil, dberr.ErrNotFound
	}
	s.NeedsReview = false
	s.NotifyAdmins = false
	s.Acknowledged = true
	s.AcknowledgedBy = &reviewerID
	s.AcknowledgedAt = &reviewedAt
	copied := *s
	return &copied, nil
}

// # Harness

func newService() (*suggestion.Service, *fakeRepository) {
	repo := newFakeRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return suggestion.NewService(repo, logger), repo
}

func userClaims(username string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: uuid.New(), Username: username}
}

func adminClaims(username string) *sec.AuthClaims {
	claims := userClaims(username)
	claims.IsAdmin = true
	return claims
}

// # Lifecycle Tests

/*
TestService_Create_StampsSubmitterAndLifecycle verifies that a fresh
suggestion carries the submitter identity from the claims and the initial
review-state flags.
*/
func TestService_Create_StampsSubmitterAndLifecycle(t *testing.T) {
	service, _ := newService()
	claims := userClaims("reader1")

	created, err := service.Create(context.Background(), suggestion.CreateInput{
		Title: "The Master and Margarita",
	}, claims)

	require.NoError(t, err)
	assert.Equal(t, claims.UserID, created.SubmitterID)
	require.NotNil(t, created.SubmitterUsername)
	assert.Equal(t, "reader1", *created.SubmitterUsername)
	assert.True(t, created.NeedsReview)
	assert.True(t, created.NotifyAdmins)
	assert.False(t, created.Acknowledged)
	assert.Nil(t, created.AcknowledgedBy)
	assert.Nil(t, created.AcknowledgedAt)
}

/*
TestService_ReviewLifecycle walks the full scenario: a submitted suggestion
appears in the submitter's own listing and the admin review queue, then
acknowledgment removes it from the needs-review filter while keeping it in
the unfiltered listing.
*/
func TestService_ReviewLifecycle(t *testing.T) {
	service, _ := newService()
	submitter := userClaims("reader1")
	admin := adminClaims("admin1")

	created, err := service.Create(context.Background(), suggestion.CreateInput{
		Title: "Eugene Onegin",
	}, submitter)
	require.NoError(t, err)

	// Visible to the submitter.
	mine, err := service.ListMine(context.Background(), submitter.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	// Visible in the needs-review queue.
	params := pagination.Params{Page: 1, Limit: 20}
	pending, _, err := service.List(context.Background(), true, params)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// Acknowledge it.
	acknowledged, err := service.Acknowledge(context.Background(), created.ID, admin)
	require.NoError(t, err)
	assert.True(t, acknowledged.Acknowledged)
	assert.False(t, acknowledged.NeedsReview)
	assert.False(t, acknowledged.NotifyAdmins)
	assert.Equal(t, admin.UserID, *acknowledged.AcknowledgedBy)
	assert.NotNil(t, acknowledged.AcknowledgedAt)

	// Gone from the needs-review filter, still in the unfiltered listing.
	pending, _, err = service.List(context.Background(), true, params)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, meta, err := service.List(context.Background(), false, params)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Acknowledged)
	assert.Equal(t, 1, meta.Total)
}

/*
TestService_Acknowledge_IsIdempotent verifies that re-acknowledging simply
re-stamps the reviewer.
*/
func TestService_Acknowledge_IsIdempotent(t *testing.T) {
	service, _ := newService()
	submitter := userClaims("reader1")
	firstAdmin := adminClaims("admin1")
	secondAdmin := adminClaims("admin2")

	created, err := service.Create(context.Background(), suggestion.CreateInput{
		Title: "Oblomov",
	}, submitter)
	require.NoError(t, err)

	_, err = service.Acknowledge(context.Background(), created.ID, firstAdmin)
	require.NoError(t, err)

	again, err := service.Acknowledge(context.Background(), created.ID, secondAdmin)
	require.NoError(t, err)

	assert.True(t, again.Acknowledged)
	assert.Equal(t, secondAdmin.UserID, *again.AcknowledgedBy)
}

func TestService_Acknowledge_NotFound(t *testing.T) {
	service, _ := newService()

	_, err := service.Acknowledge(context.Background(), uuid.New(), adminClaims("admin1"))
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_ListMine_ScopedToSubmitter verifies that a user never sees
other users' suggestions in their own listing.
*/
func TestService_ListMine_ScopedToSubmitter(t *testing.T) {
	service, _ := newService()
	first := userClaims("reader1")
	second := userClaims("reader2")

	_, err := service.Create(context.Background(), suggestion.CreateInput{Title: "A"}, first)
	require.NoError(t, err)
	_, err = service.Create(context.Background(), suggestion.CreateInput{Title: "B"}, second)
	require.NoError(t, err)

	mine, err := service.ListMine(context.Background(), first.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].Title)
}
