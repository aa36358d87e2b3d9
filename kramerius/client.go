// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

// Package kramerius is a client for the Kramerius v7 digital library
// REST API: search, item datastreams, process management, the SDNNT
// register feed, access statistics, and the low-level repository API.
//
// A Client authenticates against Keycloak on demand, caches the bearer
// token, and retries transient failures with a fixed pause. Calls are
// serialized per client instance; a Client is safe for concurrent use.
//
// Example:
//
//	client, err := kramerius.New(kramerius.Config{
//	    Host:         "https://kramerius.example.org",
//	    KeycloakHost: "https://auth.example.org",
//	    Username:     "admin",
//	    Password:     os.Getenv("K7_PASSWORD"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := client.Search.GetDocument(ctx, "uuid:12345678-1234-1234-1234-123456789abc")
package kramerius

import (
	"time"
)

// Client is the entry point to the Kramerius API. All service fields
// share one request executor and one cached token.
type Client struct {
	cfg  Config
	exec *executor

	Items      *ItemsService
	Processing *ProcessingService
	Search     *SearchService
	Sdnnt      *SdnntService
	Statistics *StatisticsService
	Repository *RepositoryService
}

// New validates cfg, applies defaults, and builds a client.
func New(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exec := newExecutor(cfg, newTokenProvider(cfg))
	return &Client{
		cfg:        cfg,
		exec:       exec,
		Items:      &ItemsService{exec: exec},
		Processing: &ProcessingService{exec: exec},
		Search:     &SearchService{exec: exec, pageSize: cfg.PageSize},
		Sdnnt:      &SdnntService{exec: exec, pageSize: cfg.PageSize},
		Statistics: &StatisticsService{exec: exec},
		Repository: &RepositoryService{exec: exec},
	}, nil
}

// Timeout returns the per-request timeout the client was built with.
func (c *Client) Timeout() time.Duration { return c.cfg.Timeout }

// MaxRetries returns the transient retry budget the client was built
// with.
func (c *Client) MaxRetries() int { return c.cfg.MaxRetries }

// RetryTimeout returns the fixed pause between transient retries.
func (c *Client) RetryTimeout() time.Duration { return c.cfg.RetryTimeout }

// MaxActiveProcesses returns the configured process-planning throttle;
// zero means unthrottled.
func (c *Client) MaxActiveProcesses() int { return c.cfg.MaxActiveProcesses }
