// Package ghclient runs registered GraphQL queries against the GitHub API.
package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
)

// Options configures a Client.
type Options struct {
	Token      string
	Host       string
	Timeout    time.Duration
	Transport  http.RoundTripper // Optional, for tests and proxies
	PageDelay  time.Duration     // Courtesy pause between pages, 0 disables it
	MaxRetries int               // Retries for transport failures, never for GraphQL errors
}

// Client executes registered queries with retry and pagination.
type Client struct {
	doer       contract.GraphQLDoer
	pageDelay  time.Duration
	maxRetries int
	newBackOff func() backoff.BackOff
}

// New builds a Client on top of the go-gh GraphQL client.
// Both token and host are set explicitly so that gh's own config is never consulted.
func New(opts Options) (*Client, error) {
	if opts.Host == "" {
		opts.Host = contract.DefaultHost
	}
	gql, err := api.NewGraphQLClient(api.ClientOptions{
		AuthToken: opts.Token,
		Host:      opts.Host,
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL client: %w", err)
	}
	return NewWithDoer(gql, opts), nil
}

// NewWithDoer builds a Client around an existing GraphQLDoer.
func NewWithDoer(doer contract.GraphQLDoer, opts Options) *Client {
	return &Client{
		doer:       doer,
		pageDelay:  opts.PageDelay,
		maxRetries: opts.MaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Query runs a one-shot query and decodes the "data" object into out.
func (c *Client) Query(ctx context.Context, name QueryName, repo schema.RepoID, out any) error {
	q, err := Lookup(name)
	if err != nil {
		return err
	}
	vars := map[string]any{"owner": repo.Owner, "name": repo.Name}

	var raw json.RawMessage
	if err := c.do(ctx, q, repo, vars, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s for %s: %w", name, repo, err)
	}
	return nil
}

// do sends one request. Transport failures are retried with exponential backoff;
// GraphQL errors and client errors fail immediately.
func (c *Client) do(ctx context.Context, q Query, repo schema.RepoID, vars map[string]any, out *json.RawMessage) error {
	op := func() error {
		err := c.doer.DoWithContext(ctx, q.Document, vars, out)
		if err == nil {
			return nil
		}

		var gqlErr *api.GraphQLError
		if errors.As(err, &gqlErr) {
			return backoff.Permanent(newGraphQLError(q.Name, repo, gqlErr))
		}
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode < http.StatusInternalServerError && httpErr.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(fmt.Errorf("%s for %s: %w", q.Name, repo, err))
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("%s for %s: %w", q.Name, repo, err)
	}

	var policy backoff.BackOff = backoff.WithMaxRetries(c.newBackOff(), uint64(max(c.maxRetries, 0)))
	return backoff.Retry(op, backoff.WithContext(policy, ctx))
}
