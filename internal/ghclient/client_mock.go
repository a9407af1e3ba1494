package ghclient

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockGraphQLDoer is a mock implementation of GraphQLDoer for testing.
// A string first return value is decoded into the response as the "data" object.
type MockGraphQLDoer struct {
	mock.Mock
}

var _ contract.GraphQLDoer = &MockGraphQLDoer{} // Compile-time check

// DoWithContext implements the GraphQLDoer interface.
func (m *MockGraphQLDoer) DoWithContext(ctx context.Context, query string, variables map[string]any, response any) error {
	args := m.Called(ctx, query, variables, response)
	if body, ok := args.Get(0).(string); ok && body != "" {
		if err := json.Unmarshal([]byte(body), response); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// ScriptedDoer answers each named operation with a fixed sequence of "data" bodies.
// It dispatches on the operation name of the document, so concurrent fetches
// of different queries can share one doer.
type ScriptedDoer struct {
	mu     sync.Mutex
	pages  map[QueryName][]string
	errs   map[QueryName]error
	calls  map[QueryName]int
	params map[QueryName][]map[string]any
}

var _ contract.GraphQLDoer = &ScriptedDoer{} // Compile-time check

// NewScriptedDoer creates an empty ScriptedDoer.
func NewScriptedDoer() *ScriptedDoer {
	return &ScriptedDoer{
		pages:  make(map[QueryName][]string),
		errs:   make(map[QueryName]error),
		calls:  make(map[QueryName]int),
		params: make(map[QueryName][]map[string]any),
	}
}

// Script appends response bodies for the named query.
func (d *ScriptedDoer) Script(name QueryName, bodies ...string) *ScriptedDoer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages[name] = append(d.pages[name], bodies...)
	return d
}

// Fail makes every request for the named query return err.
func (d *ScriptedDoer) Fail(name QueryName, err error) *ScriptedDoer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errs[name] = err
	return d
}

// Calls returns how many requests were made for the named query.
func (d *ScriptedDoer) Calls(name QueryName) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[name]
}

// Variables returns the variables sent with each request for the named query.
func (d *ScriptedDoer) Variables(name QueryName) []map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]map[string]any(nil), d.params[name]...)
}

// DoWithContext implements the GraphQLDoer interface.
func (d *ScriptedDoer) DoWithContext(_ context.Context, query string, variables map[string]any, response any) error {
	name := OperationName(query)

	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls[name]
	d.calls[name]++
	d.params[name] = append(d.params[name], maps.Clone(variables))

	if err := d.errs[name]; err != nil {
		return err
	}
	if i >= len(d.pages[name]) {
		return fmt.Errorf("no scripted response %d for %s", i, name)
	}
	return json.Unmarshal([]byte(d.pages[name][i]), response)
}

// OperationName extracts the name of a "query Name(...)" document.
func OperationName(document string) QueryName {
	_, rest, ok := strings.Cut(document, "query ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, "(")
	return QueryName(strings.TrimSpace(name))
}

// ConnectionPage renders one page of a repository connection as a "data" body.
// An empty next cursor marks the last page.
func ConnectionPage(connection, nodes, next string) string {
	return fmt.Sprintf(`{"repository":{%q:{"nodes":[%s],"pageInfo":{"hasNextPage":%t,"endCursor":%q}}}}`,
		connection, nodes, next != "", next)
}
