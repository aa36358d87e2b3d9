// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// keycloakTokenPath is the token endpoint of the Kramerius realm,
// relative to the Keycloak host.
const keycloakTokenPath = "/realms/kramerius/protocol/openid-connect/token"

// tokenExpiryMargin is subtracted from the reported expiry so a token
// is refreshed before it can expire mid-request.
const tokenExpiryMargin = 60 * time.Second

// tokenSource fetches a fresh token from the identity provider.
type tokenSource func(ctx context.Context) (*oauth2.Token, error)

// tokenProvider caches one bearer token per client instance and
// refreshes it on demand.
//
// Token and Invalidate are mutually exclusive under mu, so at most one
// refresh call is in flight at a time: concurrent callers block on the
// lock and observe the result of that refresh instead of starting
// their own.
type tokenProvider struct {
	source    tokenSource
	cachePath string
	log       *zap.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

// cachedToken is the on-disk form of a persisted token.
type cachedToken struct {
	AccessToken string    `json:"access_token"`
	Expiry      time.Time `json:"expiry"`
}

// newTokenProvider builds a provider for cfg. It returns nil when no
// Keycloak host is configured, leaving the client unauthenticated.
func newTokenProvider(cfg Config) *tokenProvider {
	if cfg.KeycloakHost == "" {
		return nil
	}

	tp := &tokenProvider{
		source:    grantSource(cfg),
		cachePath: cfg.TokenCachePath,
		log:       cfg.Logger,
	}
	tp.loadCache()
	return tp
}

// grantSource selects the OAuth grant from the configured credentials.
// Username+password wins; client credentials alone select the
// client-credentials grant; nil means authentication is unavailable.
func grantSource(cfg Config) tokenSource {
	if !cfg.hasCredentials() {
		return nil
	}

	tokenURL := cfg.KeycloakHost + keycloakTokenPath
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if cfg.Username != "" && cfg.Password != "" {
		oc := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
		}
		return func(ctx context.Context) (*oauth2.Token, error) {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
			return oc.PasswordCredentialsToken(ctx, cfg.Username, cfg.Password)
		}
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return func(ctx context.Context) (*oauth2.Token, error) {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		return cc.Token(ctx)
	}
}

// Token returns the cached access token, refreshing it first when it
// is absent or within tokenExpiryMargin of expiry.
func (p *tokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.valid() {
		return p.token.AccessToken, nil
	}

	if p.source == nil {
		return "", &AuthError{Reason: "keycloak host is configured but no usable credentials were provided"}
	}

	p.log.Debug("refreshing access token")
	token, err := p.source(ctx)
	if err != nil {
		return "", &AuthError{Reason: "token request failed", Err: err}
	}
	if token.AccessToken == "" {
		return "", &AuthError{Reason: "identity provider returned an empty access token"}
	}

	p.token = token
	p.saveCache()
	p.log.Debug("access token refreshed", zap.Time("expiry", token.Expiry))
	return token.AccessToken, nil
}

// Invalidate drops the cached token so the next Token call refreshes.
// Called by the request layer after an auth rejection.
func (p *tokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = nil
	if p.cachePath != "" {
		_ = os.Remove(p.cachePath)
	}
}

// valid is called with mu held.
func (p *tokenProvider) valid() bool {
	if p.token == nil || p.token.AccessToken == "" {
		return false
	}
	if p.token.Expiry.IsZero() {
		return true
	}
	return time.Now().Before(p.token.Expiry.Add(-tokenExpiryMargin))
}

func (p *tokenProvider) loadCache() {
	if p.cachePath == "" {
		return
	}
	data, err := os.ReadFile(p.cachePath)
	if err != nil {
		return
	}
	var cached cachedToken
	if err := json.Unmarshal(data, &cached); err != nil {
		p.log.Debug("ignoring unreadable token cache", zap.String("path", p.cachePath))
		return
	}
	p.token = &oauth2.Token{AccessToken: cached.AccessToken, Expiry: cached.Expiry}
}

// saveCache is called with mu held. Persistence is best effort; a
// failed write only costs a refresh on the next invocation.
func (p *tokenProvider) saveCache() {
	if p.cachePath == "" || p.token == nil {
		return
	}
	data, err := json.Marshal(cachedToken{AccessToken: p.token.AccessToken, Expiry: p.token.Expiry})
	if err != nil {
		return
	}
	if err := os.WriteFile(p.cachePath, data, 0o600); err != nil {
		p.log.Warn("failed to persist token cache", zap.String("path", p.cachePath), zap.Error(err))
	}
}
