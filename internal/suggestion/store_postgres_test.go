// Copyright (c) 2026 LitMT. All rights reserved.

package suggestion

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRows feeds collectRows a scripted sequence of scan outcomes.
type stubRows struct {
	fills []func(dest ...any) error
	index int
}

func (rows *stubRows) Next() bool {
	rows.index++
	return rows.index <= len(rows.fills)
}

func (rows *stubRows) Scan(dest ...any) error {
	return rows.fills[rows.index-1](dest...)
}

func (rows *stubRows) Close()                                       {}
func (rows *stubRows) Err() error                                   { return nil }
func (rows *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (rows *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (rows *stubRows) Values() ([]any, error)                       { return nil, nil }
func (rows *stubRows) RawValues() [][]byte                          { return nil }
func (rows *stubRows) Conn() *pgx.Conn                              { return nil }

// fillSuggestion populates the scan targets in suggestionColumns order.
func fillSuggestion(id, title string) func(dest ...any) error {
	return func(dest ...any) error {
		*dest[0].(*string) = id
		*dest[1].(*string) = title
		*dest[5].(*string) = "reader-1"
		*dest[7].(*time.Time) = time.Now()
		*dest[9].(*bool) = true
		return nil
	}
}

func failScan(...any) error {
	return errors.New(`cannot scan NULL into *string`)
}

func quietRepository() *PostgresRepository {
	return &PostgresRepository{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

/*
TestCollectRows_SkipsMalformedRow verifies the tolerant-read policy: a row
that fails to scan is dropped and the surrounding rows still come through.
*/
func TestCollectRows_SkipsMalformedRow(t *testing.T) {
	repository := quietRepository()

	suggestions := repository.collectRows(&stubRows{fills: []func(dest ...any) error{
		fillSuggestion("s1", "A Hero of Our Time"),
		failScan,
		fillSuggestion("s3", "Dead Souls"),
	}})

	require.Len(t, suggestions, 2)
	assert.Equal(t, "s1", suggestions[0].ID)
	assert.Equal(t, "s3", suggestions[1].ID)
	assert.True(t, suggestions[0].NeedsReview)
}

func TestCollectRows_AllMalformed(t *testing.T) {
	repository := quietRepository()

	suggestions := repository.collectRows(&stubRows{
		fills: []func(dest ...any) error{failScan, failScan},
	})

	// An empty slice, not nil, so the API serializes [] rather than null.
	require.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}
