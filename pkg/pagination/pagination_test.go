// Copyright (c) 2026 LitMT. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/litmt/litmt/pkg/pagination"
)

/*
TestFromRequest_Clamping verifies that invalid query values fall back to
defaults and excessive limits are clamped.
*/
func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/suggestions", 1, 20},
		{"explicit", "/suggestions?page=3&limit=50", 3, 50},
		{"zero_page", "/suggestions?page=0", 1, 20},
		{"negative_page", "/suggestions?page=-2", 1, 20},
		{"zero_limit", "/suggestions?limit=0", 1, 20},
		{"over_max_limit", "/suggestions?limit=500", 1, 20},
		{"non_numeric", "/suggestions?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", tt.url, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestFromRequestWith_EndpointBounds verifies that endpoint-specific limit
bounds replace the package defaults.
*/
func TestFromRequestWith_EndpointBounds(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantLimit int
	}{
		{"default_is_endpoint_default", "/suggestions", 200},
		{"explicit_within_bounds", "/suggestions?limit=700", 700},
		{"over_endpoint_max", "/suggestions?limit=5000", 200},
		{"zero_limit", "/suggestions?limit=0", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", tt.url, nil)
			params := pagination.FromRequestWith(request, 200, 1000)

			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset verifies the SQL offset derivation.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
}

/*
TestNewMeta verifies total-page rounding.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(2, 20, 41)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 41, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	// Empty result set has zero pages.
	assert.Equal(t, 0, pagination.NewMeta(1, 20, 0).TotalPages)
}
