// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// API prefixes of the two Kramerius v7 surfaces.
const (
	clientAPIPrefix = "api/client/v7.0/"
	adminAPIPrefix  = "api/admin/v7.0/"
)

// apiResponse is the outcome of one successful logical operation.
type apiResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// executor runs one logical HTTP operation at a time: attach bearer
// token, send, classify, retry transient failures with a fixed pause,
// re-authenticate once on an auth rejection.
//
// The serialization lock is held for the whole operation, retry sleeps
// included; callers on other goroutines queue up behind it. That is
// deliberate: the client trades throughput for a strictly ordered,
// easy-to-reason-about request stream.
type executor struct {
	host       string
	auth       *tokenProvider
	retry      *retryablehttp.Client
	maxRetries int
	log        *zap.Logger

	mu sync.Mutex

	// attempts counts the requests of the transport pass in flight.
	// Written by the retry hook and read under mu.
	attempts int
}

func newExecutor(cfg Config, auth *tokenProvider) *executor {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = cfg.RetryTimeout
	rc.RetryWaitMax = cfg.RetryTimeout
	rc.Backoff = fixedBackoff
	rc.CheckRetry = transientRetryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil

	e := &executor{
		host:       cfg.Host,
		auth:       auth,
		retry:      rc,
		maxRetries: cfg.MaxRetries,
		log:        cfg.Logger,
	}
	rc.RequestLogHook = func(_ retryablehttp.Logger, _ *http.Request, attempt int) {
		e.attempts = attempt + 1
	}
	return e
}

// fixedBackoff waits the configured retry timeout between attempts
// regardless of the attempt number.
func fixedBackoff(min, _ time.Duration, _ int, _ *http.Response) time.Duration {
	return min
}

// transientRetryPolicy retries network errors and 5xx responses only.
// Everything in 4xx is final here; auth rejections are handled one
// level up where the token can be refreshed.
func transientRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return resp.StatusCode >= 500, nil
}

// do executes method against path (already including the API prefix).
// On an auth rejection it invalidates the token and retries exactly
// once with a fresh one; that retry does not consume the transient
// retry budget.
func (e *executor) do(ctx context.Context, method, path string, params url.Values, body []byte, contentType string) (*apiResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attempts = 0

	res, err := e.attempt(ctx, method, path, params, body, contentType)
	if err == nil && e.auth != nil && isAuthRejection(res) {
		e.log.Debug("auth rejected, refreshing token",
			zap.String("method", method), zap.String("path", path), zap.Int("status", res.Status))
		e.auth.Invalidate()
		res, err = e.attempt(ctx, method, path, params, body, contentType)
	}
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}
		return nil, &RequestFailedError{Attempts: e.attemptCount(), Err: err}
	}

	e.log.Debug("request finished",
		zap.String("method", method), zap.String("path", path), zap.Int("status", res.Status))

	switch {
	case res.Status >= 200 && res.Status < 300:
		return res, nil
	case res.Status >= 500:
		return nil, &RequestFailedError{Attempts: e.attemptCount(), LastStatus: res.Status}
	default:
		return nil, &APIError{StatusCode: res.Status, Body: res.Body}
	}
}

// attemptCount is called with mu held. The hook never fires when the
// operation dies before reaching the transport; fall back to the full
// budget in that case.
func (e *executor) attemptCount() int {
	if e.attempts == 0 {
		return e.maxRetries + 1
	}
	return e.attempts
}

// attempt performs one request through the retrying transport, which
// already handles the transient retry loop.
func (e *executor) attempt(ctx context.Context, method, path string, params url.Values, body []byte, contentType string) (*apiResponse, error) {
	u := e.host + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rawBody interface{}
	if len(body) > 0 {
		rawBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, rawBody)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if e.auth != nil {
		token, err := e.auth.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.retry.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &apiResponse{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// isAuthRejection recognizes expired-token responses. Besides plain
// 401, Kramerius reports a stale session as 403 with a "user
// 'not_logged'" or "not allowed" message.
func isAuthRejection(res *apiResponse) bool {
	switch res.Status {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(res.Body, &payload); err != nil {
			return false
		}
		return strings.Contains(payload.Message, "user 'not_logged'") || payload.Message == "not allowed"
	default:
		return false
	}
}

func (e *executor) clientRaw(ctx context.Context, method, endpoint string, params url.Values, body []byte, contentType string) (*apiResponse, error) {
	return e.do(ctx, method, clientAPIPrefix+endpoint, params, body, contentType)
}

func (e *executor) adminRaw(ctx context.Context, method, endpoint string, params url.Values, body []byte, contentType string) (*apiResponse, error) {
	return e.do(ctx, method, adminAPIPrefix+endpoint, params, body, contentType)
}

func (e *executor) clientJSON(ctx context.Context, method, endpoint string, params url.Values, body []byte, contentType string, out any) error {
	res, err := e.clientRaw(ctx, method, endpoint, params, body, contentType)
	if err != nil {
		return err
	}
	return decodeJSON(res, out)
}

func (e *executor) adminJSON(ctx context.Context, method, endpoint string, params url.Values, body []byte, contentType string, out any) error {
	res, err := e.adminRaw(ctx, method, endpoint, params, body, contentType)
	if err != nil {
		return err
	}
	return decodeJSON(res, out)
}

func decodeJSON(res *apiResponse, out any) error {
	if out == nil {
		return nil
	}
	return json.Unmarshal(res.Body, out)
}
