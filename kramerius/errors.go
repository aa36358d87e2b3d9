// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"errors"
	"fmt"
	"net/http"
)

const errBodySnippetMax = 512

// AuthError reports a failure to obtain a bearer token: missing or
// unusable credentials, or an identity provider that is unreachable or
// rejects the token request. It is never retried by the request layer.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kramerius: authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("kramerius: authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError reports a non-retryable rejection from the Kramerius API
// (4xx other than a recoverable auth rejection). It carries the status
// code and the raw response body.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > errBodySnippetMax {
		body = body[:errBodySnippetMax]
	}
	if len(body) == 0 {
		return fmt.Sprintf("kramerius: api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("kramerius: api error: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), body)
}

// RequestFailedError reports exhaustion of the transient-failure retry
// budget. LastStatus is the last observed HTTP status, or zero when the
// final failure was a transport error carried in Err.
type RequestFailedError struct {
	Attempts   int
	LastStatus int
	Err        error
}

func (e *RequestFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kramerius: request failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("kramerius: request failed after %d attempts: last status %d %s",
		e.Attempts, e.LastStatus, http.StatusText(e.LastStatus))
}

func (e *RequestFailedError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
