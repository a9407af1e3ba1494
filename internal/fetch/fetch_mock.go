package fetch

import (
	"context"

	"github.com/huangsam/commpulse/internal/contract"
	"github.com/huangsam/commpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockRepoFetcher is a mock implementation of RepoFetcher for testing.
type MockRepoFetcher struct {
	mock.Mock
}

var _ contract.RepoFetcher = &MockRepoFetcher{} // Compile-time check

// FetchRepo implements the RepoFetcher interface.
func (m *MockRepoFetcher) FetchRepo(ctx context.Context, repo schema.RepoID) (schema.RepoResult, error) {
	args := m.Called(ctx, repo)
	result, _ := args.Get(0).(schema.RepoResult)
	return result, args.Error(1)
}

// MockSocialFetcher is a mock implementation of SocialFetcher for testing.
type MockSocialFetcher struct {
	mock.Mock
}

var _ contract.SocialFetcher = &MockSocialFetcher{} // Compile-time check

// Fetch implements the SocialFetcher interface.
func (m *MockSocialFetcher) Fetch(ctx context.Context, cfg contract.SocialConfig) *schema.SocialMetrics {
	args := m.Called(ctx, cfg)
	social, _ := args.Get(0).(*schema.SocialMetrics)
	return social
}
