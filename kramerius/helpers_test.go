// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fakeIdentityProvider is an httptest Keycloak stand-in. Every token
// request increments Requests and issues a fresh numbered token.
type fakeIdentityProvider struct {
	Server   *httptest.Server
	Requests atomic.Int32

	// LastGrantType records the grant_type of the most recent request.
	LastGrantType atomic.Value

	// ExpiresIn is the token lifetime reported to the client.
	ExpiresIn int

	// Fail makes the provider answer 500 to every request.
	Fail bool
}

func newFakeIdentityProvider(t *testing.T) *fakeIdentityProvider {
	t.Helper()
	idp := &fakeIdentityProvider{ExpiresIn: 3600}
	idp.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != keycloakTokenPath {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		idp.LastGrantType.Store(r.PostForm.Get("grant_type"))
		n := idp.Requests.Add(1)
		if idp.Fail {
			http.Error(w, "identity provider down", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("tok-%d", n),
			"token_type":   "Bearer",
			"expires_in":   idp.ExpiresIn,
		})
	}))
	t.Cleanup(idp.Server.Close)
	return idp
}

// testConfig builds a config pointed at the given API server with fast
// retries, suitable for tests.
func testConfig(apiURL string) Config {
	return Config{
		Host:         apiURL,
		Timeout:      5 * time.Second,
		MaxRetries:   2,
		RetryTimeout: time.Millisecond,
		PageSize:     2,
	}
}

// newTestClient builds a client against handler. mutate may adjust the
// config before construction.
func newTestClient(t *testing.T, handler http.Handler, mutate func(*Config)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig(server.URL)
	if mutate != nil {
		mutate(&cfg)
	}
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}
