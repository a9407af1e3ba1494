package ghclient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/huangsam/commpulse/schema"
)

// ErrMissingConnection is returned when a response lacks the expected connection,
// usually because the repository does not exist or is not visible to the token.
var ErrMissingConnection = errors.New("response is missing connection")

// GraphQLError is returned when the response envelope carries an errors array.
// It is never retried.
type GraphQLError struct {
	Query    QueryName
	Repo     schema.RepoID
	Messages []string
	Err      *api.GraphQLError
}

func newGraphQLError(name QueryName, repo schema.RepoID, err *api.GraphQLError) *GraphQLError {
	messages := make([]string, 0, len(err.Errors))
	for _, item := range err.Errors {
		messages = append(messages, item.Message)
	}
	return &GraphQLError{Query: name, Repo: repo, Messages: messages, Err: err}
}

// Error implements the error interface.
func (e *GraphQLError) Error() string {
	return fmt.Sprintf("GraphQL error in %s for %s: %s", e.Query, e.Repo, strings.Join(e.Messages, "; "))
}

// Unwrap exposes the underlying go-gh error.
func (e *GraphQLError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}
