package ghclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRepo = schema.RepoID{Owner: "podman-desktop", Name: "podman-desktop"}

type node struct {
	ID int `json:"id"`
}

func newTestClient(doer *MockGraphQLDoer, retries int) *Client {
	c := NewWithDoer(doer, Options{MaxRetries: retries})
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func page(ids string, hasNext bool, cursor string) string {
	next := "false"
	if hasNext {
		next = "true"
	}
	return `{"repository":{"pullRequests":{"nodes":[` + ids + `],"pageInfo":{"hasNextPage":` + next + `,"endCursor":"` + cursor + `"}}}}`
}

func onDo(doer *MockGraphQLDoer) *mock.Call {
	return doer.On("DoWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func afterVar(t *testing.T, doer *MockGraphQLDoer, call int) any {
	t.Helper()
	vars, ok := doer.Calls[call].Arguments.Get(2).(map[string]any)
	require.True(t, ok)
	return vars["after"]
}

func TestPaginateWalksAllPages(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return(page(`{"id":1},{"id":2}`, true, "c1"), nil).Once()
	onDo(doer).Return(page(`{"id":3}`, false, ""), nil).Once()

	var seen []int
	total, err := Paginate(context.Background(), newTestClient(doer, 0), AllPRsQuery, testRepo, func(nodes []node) Step {
		for _, n := range nodes {
			seen = append(seen, n.ID)
		}
		return Step{Count: len(nodes)}
	})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []int{1, 2, 3}, seen)
	doer.AssertNumberOfCalls(t, "DoWithContext", 2)

	assert.Nil(t, afterVar(t, doer, 0), "first page starts without a cursor")
	second, ok := afterVar(t, doer, 1).(*string)
	require.True(t, ok)
	assert.Equal(t, "c1", *second)

	vars := doer.Calls[0].Arguments.Get(2).(map[string]any)
	assert.Equal(t, "podman-desktop", vars["owner"])
	assert.Equal(t, "podman-desktop", vars["name"])
	assert.Contains(t, doer.Calls[0].Arguments.String(1), "query AllPRs(")
}

func TestPaginateStopsWhenReducerSaysSo(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return(page(`{"id":1}`, true, "c1"), nil).Once()

	calls := 0
	_, err := Paginate(context.Background(), newTestClient(doer, 0), AllPRsQuery, testRepo, func(nodes []node) Step {
		calls++
		return Step{Count: len(nodes), Stop: true}
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	doer.AssertNumberOfCalls(t, "DoWithContext", 1)
}

func TestPaginateMergesExtraVariables(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return(page(``, false, ""), nil).Once()

	_, err := Paginate(context.Background(), newTestClient(doer, 0), AllPRsQuery, testRepo,
		func([]node) Step { return Step{} },
		WithVariables(map[string]any{"labels": []string{"kind/bug"}}),
		WithProgress("AllPRs podman-desktop/podman-desktop"),
	)

	require.NoError(t, err)
	vars := doer.Calls[0].Arguments.Get(2).(map[string]any)
	assert.Equal(t, []string{"kind/bug"}, vars["labels"])
}

func TestPaginateGraphQLErrorIsNotRetried(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return("", &api.GraphQLError{Errors: []api.GraphQLErrorItem{{Message: "API rate limit exceeded", Type: "RATE_LIMITED"}}})

	_, err := Paginate(context.Background(), newTestClient(doer, 3), AllPRsQuery, testRepo, func([]node) Step { return Step{} })

	require.Error(t, err)
	assert.True(t, IsGraphQLError(err))
	var gqlErr *GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, AllPRsQuery, gqlErr.Query)
	assert.Equal(t, []string{"API rate limit exceeded"}, gqlErr.Messages)
	assert.Contains(t, err.Error(), "podman-desktop/podman-desktop")
	doer.AssertNumberOfCalls(t, "DoWithContext", 1)
}

func TestPaginateClientErrorIsNotRetried(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return("", &api.HTTPError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"})

	_, err := Paginate(context.Background(), newTestClient(doer, 3), AllPRsQuery, testRepo, func([]node) Step { return Step{} })

	require.Error(t, err)
	assert.False(t, IsGraphQLError(err))
	doer.AssertNumberOfCalls(t, "DoWithContext", 1)
}

func TestPaginateRetriesTransportFailures(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return("", errors.New("i/o timeout")).Once()
	onDo(doer).Return(page(`{"id":1}`, false, ""), nil).Once()

	total, err := Paginate(context.Background(), newTestClient(doer, 2), AllPRsQuery, testRepo, func(nodes []node) Step {
		return Step{Count: len(nodes)}
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	doer.AssertNumberOfCalls(t, "DoWithContext", 2)
}

func TestPaginateGivesUpAfterMaxRetries(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return("", errors.New("connection reset"))

	_, err := Paginate(context.Background(), newTestClient(doer, 2), AllPRsQuery, testRepo, func([]node) Step { return Step{} })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	doer.AssertNumberOfCalls(t, "DoWithContext", 3)
}

func TestPaginateMissingRepository(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return(`{"repository":null}`, nil)

	_, err := Paginate(context.Background(), newTestClient(doer, 0), AllPRsQuery, testRepo, func([]node) Step { return Step{} })

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConnection)
}

func TestPaginateMissingCursor(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return(page(`{"id":1}`, true, ""), nil)

	_, err := Paginate(context.Background(), newTestClient(doer, 0), AllPRsQuery, testRepo, func(nodes []node) Step {
		return Step{Count: len(nodes)}
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "endCursor")
}

func TestPaginateRejectsUnknownAndOneShotQueries(t *testing.T) {
	c := newTestClient(&MockGraphQLDoer{}, 0)

	_, err := Paginate(context.Background(), c, QueryName("Nope"), testRepo, func([]node) Step { return Step{} })
	assert.Error(t, err)

	_, err = Paginate(context.Background(), c, RepositoryQuery, testRepo, func([]node) Step { return Step{} })
	assert.Error(t, err)
}

func TestPaginateHonorsCancelledContextDuringDelay(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return(page(`{"id":1}`, true, "c1"), nil).Once()

	c := NewWithDoer(doer, Options{PageDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	_, err := Paginate(ctx, c, AllPRsQuery, testRepo, func(nodes []node) Step {
		cancel()
		return Step{Count: len(nodes)}
	})

	assert.ErrorIs(t, err, context.Canceled)
	doer.AssertNumberOfCalls(t, "DoWithContext", 1)
}

func TestQueryDecodesOneShotResponse(t *testing.T) {
	doer := &MockGraphQLDoer{}
	onDo(doer).Return(`{"repository":{"stargazerCount":12,"forkCount":3,"watchers":{"totalCount":4}}}`, nil)

	var out struct {
		Repository struct {
			StargazerCount int `json:"stargazerCount"`
		} `json:"repository"`
	}
	require.NoError(t, newTestClient(doer, 0).Query(context.Background(), RepositoryQuery, testRepo, &out))
	assert.Equal(t, 12, out.Repository.StargazerCount)

	vars := doer.Calls[0].Arguments.Get(2).(map[string]any)
	assert.NotContains(t, vars, "after")
}

func TestRegistryDescriptors(t *testing.T) {
	for name, q := range registry {
		assert.Equal(t, name, q.Name)
		assert.Contains(t, q.Document, "query "+string(name)+"(", "operation name matches the registry key")
		if q.Ordered {
			assert.Contains(t, q.Document, "orderBy: {field: CREATED_AT, direction: DESC}")
		}
		if q.Paginated() {
			assert.Contains(t, q.Document, "pageInfo { hasNextPage endCursor }")
		}
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(r *http.Request, body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func TestNewUsesGoGHTransport(t *testing.T) {
	t.Run("data envelope", func(t *testing.T) {
		var seenAuth, seenPath string
		c, err := New(Options{
			Token:   "t0k3n",
			Host:    "github.com",
			Timeout: time.Second,
			Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				seenAuth = r.Header.Get("Authorization")
				seenPath = r.URL.Path
				return jsonResponse(r, `{"data":`+page(`{"id":7}`, false, "")+`}`), nil
			}),
		})
		require.NoError(t, err)

		total, err := Paginate(context.Background(), c, AllPRsQuery, testRepo, func(nodes []node) Step {
			return Step{Count: len(nodes)}
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Contains(t, seenAuth, "t0k3n")
		assert.Equal(t, "/graphql", seenPath)
	})

	t.Run("errors envelope", func(t *testing.T) {
		c, err := New(Options{
			Token: "t0k3n",
			Host:  "github.com",
			Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return jsonResponse(r, `{"data":null,"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a Repository"}]}`), nil
			}),
		})
		require.NoError(t, err)

		_, err = Paginate(context.Background(), c, AllPRsQuery, testRepo, func([]node) Step { return Step{} })
		require.Error(t, err)
		assert.True(t, IsGraphQLError(err))
		assert.Contains(t, err.Error(), "Could not resolve to a Repository")
	})
}

func TestOperationNameMatchesRegistry(t *testing.T) {
	for name, q := range registry {
		assert.Equal(t, name, OperationName(q.Document))
	}
	assert.Equal(t, QueryName(""), OperationName("{ viewer { login } }"))
}

func TestScriptedDoerServesPagesInOrder(t *testing.T) {
	doer := NewScriptedDoer().Script(AllPRsQuery, page(`{"id":1}`, true, "c1"), page(`{"id":2}`, false, ""))

	var seen []int
	_, err := Paginate(context.Background(), NewWithDoer(doer, Options{}), AllPRsQuery, testRepo, func(nodes []node) Step {
		for _, n := range nodes {
			seen = append(seen, n.ID)
		}
		return Step{Count: len(nodes)}
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, seen)
	assert.Equal(t, 2, doer.Calls(AllPRsQuery))
	assert.Equal(t, "c1", *doer.Variables(AllPRsQuery)[1]["after"].(*string))
}
