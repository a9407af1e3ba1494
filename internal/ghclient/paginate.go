package ghclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
)

// progressEvery is how many processed items pass between progress lines.
const progressEvery = 100

// PageInfo is the GraphQL cursor block of a connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Connection is one decoded page of nodes.
type Connection[T any] struct {
	Nodes    []T      `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// Step is what a reducer reports after consuming a page.
type Step struct {
	Count int  // Items processed on this page, used for progress only
	Stop  bool // Halt pagination after this page
}

// Reducer consumes one page of nodes.
type Reducer[T any] func(nodes []T) Step

// PageOption customizes a Paginate call.
type PageOption func(*pageOptions)

type pageOptions struct {
	progressLabel string
	variables     map[string]any
}

// WithProgress logs a progress line every 100 processed items.
func WithProgress(label string) PageOption {
	return func(o *pageOptions) {
		o.progressLabel = label
	}
}

// WithVariables merges extra variables into every request.
func WithVariables(vars map[string]any) PageOption {
	return func(o *pageOptions) {
		o.variables = vars
	}
}

// Paginate walks a registered connection page by page, handing each page to reduce.
// It stops when reduce asks to or when the server reports no further pages,
// and returns the total Count reported by the reducer.
func Paginate[T any](ctx context.Context, c *Client, name QueryName, repo schema.RepoID, reduce Reducer[T], opts ...PageOption) (int, error) {
	q, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	if !q.Paginated() {
		return 0, fmt.Errorf("query %s is not paginated", name)
	}

	o := &pageOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var cursor *string
	processed := 0
	nextReport := progressEvery
	for page := 0; ; page++ {
		if page > 0 && c.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return processed, ctx.Err()
			case <-time.After(c.pageDelay):
			}
		}

		vars := map[string]any{"owner": repo.Owner, "name": repo.Name, "after": cursor}
		maps.Copy(vars, o.variables)

		var raw json.RawMessage
		if err := c.do(ctx, q, repo, vars, &raw); err != nil {
			return processed, err
		}
		conn, err := decodeConnection[T](raw, q.ConnectionPath)
		if err != nil {
			return processed, fmt.Errorf("%s for %s: %w", name, repo, err)
		}

		step := reduce(conn.Nodes)
		processed += step.Count
		if o.progressLabel != "" && processed >= nextReport {
			contract.LogInfo("📊 %s: processed %d items", o.progressLabel, processed)
			nextReport = (processed/progressEvery + 1) * progressEvery
		}

		if step.Stop || !conn.PageInfo.HasNextPage {
			return processed, nil
		}
		if conn.PageInfo.EndCursor == "" {
			return processed, fmt.Errorf("%s for %s: next page reported without endCursor", name, repo)
		}
		next := conn.PageInfo.EndCursor
		cursor = &next
	}
}

// decodeConnection follows path through the "data" object and decodes the connection found there.
func decodeConnection[T any](raw json.RawMessage, path []string) (Connection[T], error) {
	var conn Connection[T]
	node := raw
	for i, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(node, &obj); err != nil {
			return conn, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		next, ok := obj[key]
		if !ok || string(next) == "null" {
			return conn, fmt.Errorf("%w: %s", ErrMissingConnection, strings.Join(path[:i+1], "."))
		}
		node = next
	}
	if err := json.Unmarshal(node, &conn); err != nil {
		return conn, fmt.Errorf("failed to decode connection: %w", err)
	}
	return conn, nil
}

// IsGraphQLError reports whether err carries a GraphQL errors envelope.
func IsGraphQLError(err error) bool {
	var gqlErr *GraphQLError
	return errors.As(err, &gqlErr)
}
