// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 5
	DefaultRetryTimeout = 15 * time.Second
	DefaultPageSize     = 100
)

// Environment variables consulted when the corresponding Config field
// is left empty.
const (
	EnvHost         = "K7_HOST"
	EnvKeycloakHost = "K7_KEYCLOAK_HOST"
	EnvClientID     = "K7_CLIENT_ID"
	EnvClientSecret = "K7_CLIENT_SECRET"
	EnvUsername     = "K7_USERNAME"
	EnvPassword     = "K7_PASSWORD"
	EnvTimeout      = "K7_TIMEOUT"
	EnvMaxRetries   = "K7_MAX_RETRIES"
	EnvRetryTimeout = "K7_RETRY_TIMEOUT"
)

// Config carries everything needed to construct a Client. It is copied
// on construction and never mutated afterwards; all components of one
// Client observe the same values for its whole lifetime.
type Config struct {
	// Host is the Kramerius server base URL. Required.
	Host string

	// KeycloakHost is the identity provider base URL. When empty the
	// client runs unauthenticated and the admin API will reject calls.
	KeycloakHost string

	// Credentials for Keycloak. Username+Password selects the password
	// grant (ClientID/ClientSecret passed along when present); ClientID+
	// ClientSecret alone selects the client-credentials grant.
	ClientID     string
	ClientSecret string
	Username     string
	Password     string

	// Timeout bounds every single HTTP call, token requests included.
	Timeout time.Duration

	// MaxRetries is the number of retries after the initial attempt for
	// transient failures (network errors, timeouts, 5xx). An operation
	// therefore performs at most MaxRetries+1 attempts.
	MaxRetries int

	// RetryTimeout is the fixed pause between transient-failure retries.
	RetryTimeout time.Duration

	// PageSize is the page size used by the pagination iterators.
	PageSize int

	// MaxActiveProcesses throttles process planning; zero disables the
	// throttle.
	MaxActiveProcesses int

	// TokenCachePath enables persisting the access token to a file so
	// short-lived invocations can reuse it. Empty disables persistence.
	TokenCachePath string

	// Logger receives request/auth lifecycle events. Token values are
	// never logged. Defaults to a no-op logger.
	Logger *zap.Logger

	// HTTPClient overrides the transport used for API and token calls.
	// Mainly for tests; Timeout is still applied when it has none.
	HTTPClient *http.Client
}

// ApplyEnv fills empty fields from the K7_* environment variables.
// Explicit values always win over the environment.
func (c *Config) ApplyEnv() {
	c.Host = envString(c.Host, EnvHost)
	c.KeycloakHost = envString(c.KeycloakHost, EnvKeycloakHost)
	c.ClientID = envString(c.ClientID, EnvClientID)
	c.ClientSecret = envString(c.ClientSecret, EnvClientSecret)
	c.Username = envString(c.Username, EnvUsername)
	c.Password = envString(c.Password, EnvPassword)
	c.Timeout = envSeconds(c.Timeout, EnvTimeout)
	c.MaxRetries = envInt(c.MaxRetries, EnvMaxRetries)
	c.RetryTimeout = envSeconds(c.RetryTimeout, EnvRetryTimeout)
}

func envString(current, key string) string {
	if current != "" {
		return current
	}
	return os.Getenv(key)
}

func envInt(current int, key string) int {
	if current != 0 {
		return current
	}
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return current
	}
	return v
}

// envSeconds reads a duration given as a plain number of seconds, the
// unit the original deployment tooling exported.
func envSeconds(current time.Duration, key string) time.Duration {
	if current != 0 {
		return current
	}
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return current
	}
	return time.Duration(v) * time.Second
}

func (c Config) withDefaults() Config {
	c.Host = strings.TrimRight(c.Host, "/")
	c.KeycloakHost = strings.TrimRight(c.KeycloakHost, "/")
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryTimeout == 0 {
		c.RetryTimeout = DefaultRetryTimeout
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Validate checks the configuration section by section. Error messages
// never echo secret values.
func (c Config) Validate() error {
	if err := c.validateBase(); err != nil {
		return err
	}
	if err := c.validateHTTP(); err != nil {
		return err
	}
	return c.validateAuth()
}

func (c Config) validateBase() error {
	if strings.TrimSpace(c.Host) == "" {
		return fmt.Errorf("kramerius: host is required (set Host or %s)", EnvHost)
	}
	return nil
}

func (c Config) validateHTTP() error {
	if c.Timeout < 0 || c.Timeout > 10*time.Minute {
		return fmt.Errorf("kramerius: timeout must be between 0 and 10m; got %s", c.Timeout)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("kramerius: max retries must be between 0 and 10; got %d", c.MaxRetries)
	}
	if c.RetryTimeout < 0 || c.RetryTimeout > 10*time.Minute {
		return fmt.Errorf("kramerius: retry timeout must be between 0 and 10m; got %s", c.RetryTimeout)
	}
	return nil
}

func (c Config) validateAuth() error {
	if c.Username != "" && c.Password == "" {
		return fmt.Errorf("kramerius: username %s has no password (set Password or %s)",
			redactSecret(c.Username), EnvPassword)
	}
	if c.Password != "" && c.Username == "" {
		return fmt.Errorf("kramerius: password is set but username is missing (set Username or %s)", EnvUsername)
	}
	if c.ClientSecret != "" && c.ClientID == "" {
		return fmt.Errorf("kramerius: client secret is set but client id is missing (set ClientID or %s)", EnvClientID)
	}
	return nil
}

// hasCredentials reports whether at least one grant is resolvable.
func (c Config) hasCredentials() bool {
	return (c.Username != "" && c.Password != "") || (c.ClientID != "" && c.ClientSecret != "")
}
