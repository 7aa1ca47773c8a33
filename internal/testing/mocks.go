package testing

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTagAPI is a mock implementation of the engine TagAPI interface.
type MockTagAPI struct {
	mock.Mock
}

// ListTags returns the mocked tag set of target.
func (m *MockTagAPI) ListTags(ctx context.Context, target string) (map[string]string, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// AddTags records an add call.
func (m *MockTagAPI) AddTags(ctx context.Context, target string, tags map[string]string) error {
	args := m.Called(ctx, target, tags)
	return args.Error(0)
}

// RemoveTags records a remove call.
func (m *MockTagAPI) RemoveTags(ctx context.Context, target string, keys []string) error {
	args := m.Called(ctx, target, keys)
	return args.Error(0)
}
