// Copyright (c) 2026 LitMT. All rights reserved.

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/litmt/litmt/internal/platform/middleware"
)

func corsChain(origins ...string) http.Handler {
	return middleware.CORS(origins)(http.HandlerFunc(
		func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
}

/*
TestCORS_AllowedOrigin verifies that an allow-listed origin gets the full
CORS header set echoed back.
*/
func TestCORS_AllowedOrigin(t *testing.T) {
	handler := corsChain("https://litmt.org", "http://localhost:3000")

	request := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	request.Header.Set("Origin", "https://litmt.org")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "https://litmt.org", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, recorder.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

/*
TestCORS_DisallowedOrigin verifies that an unknown origin receives no CORS
headers; the request itself still reaches the handler.
*/
func TestCORS_DisallowedOrigin(t *testing.T) {
	handler := corsChain("https://litmt.org")

	request := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	request.Header.Set("Origin", "https://evil.example")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestCORS_Preflight verifies that OPTIONS requests short-circuit with 204.
*/
func TestCORS_Preflight(t *testing.T) {
	handler := corsChain("https://litmt.org")

	request := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	request.Header.Set("Origin", "https://litmt.org")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://litmt.org", recorder.Header().Get("Access-Control-Allow-Origin"))
}

// Requests without an Origin header (curl, server-to-server) pass untouched.
func TestCORS_NoOriginHeader(t *testing.T) {
	handler := corsChain("https://litmt.org")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}
