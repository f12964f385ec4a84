// Copyright (c) 2026 LitMT. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction, common body
decoding patterns, and multipart file uploads, ensuring consistent error
handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/litmt/litmt/internal/platform/apperr"
	"github.com/litmt/litmt/internal/platform/constants"
	"github.com/litmt/litmt/internal/platform/ctxutil"
	"github.com/litmt/litmt/internal/platform/sec"
	"github.com/litmt/litmt/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

/*
FormFile reads the uploaded file from a multipart form.

Parameters:
  - request: *http.Request
  - field: Multipart field name (usually "file")

Returns:
  - string: Original filename supplied by the client
  - []byte: Full file content
  - error: apperr.ValidationError when the part is missing or unreadable
*/
func FormFile(request *http.Request, field string) (string, []byte, error) {
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return "", nil, apperr.ValidationError("Invalid multipart form")
	}

	file, header, err := request.FormFile(field)
	if err != nil {
		return "", nil, apperr.ValidationError("Missing file upload")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", nil, apperr.ValidationError("Failed to read uploaded file")
	}

	return header.Filename, content, nil
}
