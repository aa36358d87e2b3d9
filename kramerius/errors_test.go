// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_BodySnippetIsBounded(t *testing.T) {
	err := &APIError{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(strings.Repeat("x", 4096)),
	}
	msg := err.Error()
	assert.Less(t, len(msg), 1024)
	assert.Contains(t, msg, "400 Bad Request")
}

func TestAPIError_EmptyBody(t *testing.T) {
	err := &APIError{StatusCode: http.StatusForbidden}
	assert.Equal(t, "kramerius: api error: 403 Forbidden", err.Error())
}

func TestRequestFailedError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("fetching item: %w", &RequestFailedError{Attempts: 3, Err: cause})

	var reqErr *RequestFailedError
	assert.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 3, reqErr.Attempts)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, reqErr.Error(), "after 3 attempts")
}

func TestRequestFailedError_StatusMessage(t *testing.T) {
	err := &RequestFailedError{Attempts: 6, LastStatus: http.StatusServiceUnavailable}
	assert.Contains(t, err.Error(), "last status 503 Service Unavailable")
}

func TestAuthError_Unwrap(t *testing.T) {
	cause := errors.New("oauth2: cannot fetch token")
	err := &AuthError{Reason: "token request failed", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "token request failed")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", &APIError{StatusCode: http.StatusNotFound})))
	assert.False(t, IsNotFound(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
