// Package social fetches follower counts from public social media APIs.
// Every provider is optional and a failing provider reports 0.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"golang.org/x/sync/errgroup"
)

// Default endpoints.
const (
	DefaultBlueskyBaseURL = "https://public.api.bsky.app"
	DefaultTwitterBaseURL = "https://api.twitter.com"
	defaultTimeout        = 15 * time.Second
	userAgent             = "commpulse"
)

// Client talks to the follower APIs. Fields are exported so tests can point
// them at local servers.
type Client struct {
	HTTP           *http.Client
	BlueskyBaseURL string
	MastodonScheme string // "https" unless testing
	TwitterBaseURL string
}

var _ contract.SocialFetcher = &Client{} // Compile-time check

// New creates a Client with the public endpoints.
func New() *Client {
	return &Client{
		HTTP:           &http.Client{Timeout: defaultTimeout},
		BlueskyBaseURL: DefaultBlueskyBaseURL,
		MastodonScheme: "https",
		TwitterBaseURL: DefaultTwitterBaseURL,
	}
}

// Fetch queries every configured platform concurrently.
// It returns nil when no platform is configured.
func (c *Client) Fetch(ctx context.Context, cfg contract.SocialConfig) *schema.SocialMetrics {
	if !cfg.Enabled() {
		return nil
	}

	metrics := &schema.SocialMetrics{}
	var g errgroup.Group
	if cfg.BlueskyHandle != "" {
		g.Go(func() error {
			n, err := c.Bluesky(ctx, cfg.BlueskyHandle)
			metrics.BlueskyFollowers = degrade("Bluesky", cfg.BlueskyHandle, n, err)
			return nil
		})
	}
	if cfg.MastodonInstance != "" && cfg.MastodonUsername != "" {
		g.Go(func() error {
			who := fmt.Sprintf("@%s@%s", cfg.MastodonUsername, cfg.MastodonInstance)
			n, err := c.Mastodon(ctx, cfg.MastodonInstance, cfg.MastodonUsername)
			metrics.MastodonFollowers = degrade("Mastodon", who, n, err)
			return nil
		})
	}
	if cfg.LinkedInURL != "" {
		g.Go(func() error {
			n, err := c.LinkedIn(ctx, cfg.LinkedInURL)
			metrics.LinkedInFollowers = degrade("LinkedIn", cfg.LinkedInURL, n, err)
			return nil
		})
	}
	if cfg.TwitterHandle != "" {
		g.Go(func() error {
			n, err := c.Twitter(ctx, cfg.TwitterHandle, cfg.TwitterToken)
			metrics.TwitterFollowers = degrade("Twitter/X", "@"+cfg.TwitterHandle, n, err)
			return nil
		})
	}
	_ = g.Wait()
	return metrics
}

// degrade logs a provider failure and turns it into a zero count.
func degrade(platform, who string, n int, err error) *int {
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Failed to fetch %s followers for %s", platform, who), err)
		n = 0
	}
	return &n
}

// Bluesky returns the follower count of an AT Protocol handle.
func (c *Client) Bluesky(ctx context.Context, handle string) (int, error) {
	endpoint := c.BlueskyBaseURL + "/xrpc/app.bsky.actor.getProfile?actor=" + url.QueryEscape(handle)
	var profile struct {
		FollowersCount int `json:"followersCount"`
	}
	if err := getJSON(ctx, c.HTTP, endpoint, &profile); err != nil {
		return 0, err
	}
	return profile.FollowersCount, nil
}

// Mastodon returns the follower count of username on instance.
func (c *Client) Mastodon(ctx context.Context, instance, username string) (int, error) {
	endpoint := (&url.URL{
		Scheme:   c.MastodonScheme,
		Host:     instance,
		Path:     "/api/v1/accounts/lookup",
		RawQuery: url.Values{"acct": {username}}.Encode(),
	}).String()
	var account struct {
		FollowersCount int `json:"followers_count"`
	}
	if err := getJSON(ctx, c.HTTP, endpoint, &account); err != nil {
		return 0, err
	}
	return account.FollowersCount, nil
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	body, err := get(ctx, client, endpoint, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

// get issues a GET and returns the body of a 2xx response.
func get(ctx context.Context, client *http.Client, endpoint, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", endpoint, resp.Status)
	}
	return resp.Body, nil
}
