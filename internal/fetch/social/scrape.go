package social

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/oauth2"
)

// ErrNoFollowerCount is returned when a page carries no recognizable count.
var ErrNoFollowerCount = errors.New("no follower count found")

// ErrMissingTwitterToken is returned when a Twitter/X handle is set without a bearer token.
var ErrMissingTwitterToken = errors.New("twitter/x api requires a bearer token")

var followersPattern = regexp.MustCompile(`(?i)([\d][\d,.]*)\s*([km])?\s+followers`)

// LinkedIn scrapes the follower count of a public company page.
// The count is read from the description meta tags, e.g. "Acme | 1,234 followers on LinkedIn".
func (c *Client) LinkedIn(ctx context.Context, companyURL string) (int, error) {
	body, err := get(ctx, c.HTTP, companyURL, "text/html")
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	doc, err := html.Parse(body)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", companyURL, err)
	}
	for _, content := range descriptions(doc) {
		if n, ok := ParseFollowers(content); ok {
			return n, nil
		}
	}
	return 0, ErrNoFollowerCount
}

// descriptions collects description and og:description meta contents in document order.
func descriptions(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name", "property":
					key = strings.ToLower(attr.Val)
				case "content":
					content = attr.Val
				}
			}
			if key == "description" || key == "og:description" {
				out = append(out, content)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

// ParseFollowers extracts a count like "1,234 followers" or "12K followers".
func ParseFollowers(text string) (int, bool) {
	m := followersPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	number := strings.ReplaceAll(m[1], ",", "")
	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "k":
		f *= 1_000
	case "m":
		f *= 1_000_000
	}
	return int(f), true
}

// Twitter returns the follower count of a Twitter/X handle through API v2.
func (c *Client) Twitter(ctx context.Context, handle, token string) (int, error) {
	if token == "" {
		return 0, ErrMissingTwitterToken
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.HTTP)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))

	endpoint := fmt.Sprintf("%s/2/users/by/username/%s?user.fields=public_metrics", c.TwitterBaseURL, url.PathEscape(handle))
	var user struct {
		Data struct {
			PublicMetrics struct {
				FollowersCount int `json:"followers_count"`
			} `json:"public_metrics"`
		} `json:"data"`
	}
	if err := getJSON(ctx, client, endpoint, &user); err != nil {
		return 0, err
	}
	return user.Data.PublicMetrics.FollowersCount, nil
}
