package tmux

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockClient is a testify mock implementation of Client.
//
//	mockClient := new(MockClient)
//	mockClient.On("JumpToPane", "$1", "@1", "%1").Return(true, nil)
type MockClient struct {
	mock.Mock
}

// HasSession returns a mocked server availability.
func (m *MockClient) HasSession() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

// GetCurrentContext returns a mocked tmux context.
func (m *MockClient) GetCurrentContext() (Context, error) {
	args := m.Called()
	return args.Get(0).(Context), args.Error(1)
}

// JumpToPane returns a mocked jump result.
func (m *MockClient) JumpToPane(sessionID, windowID, paneID string) (bool, error) {
	args := m.Called(sessionID, windowID, paneID)
	return args.Bool(0), args.Error(1)
}

// SetUserOption returns a mocked error.
func (m *MockClient) SetUserOption(name, value string) error {
	args := m.Called(name, value)
	return args.Error(0)
}

// DisplayMessage returns a mocked error.
func (m *MockClient) DisplayMessage(msg string, d time.Duration) error {
	args := m.Called(msg, d)
	return args.Error(0)
}

// Run returns mocked command output.
func (m *MockClient) Run(args ...string) (string, string, error) {
	callArgs := make([]any, len(args))
	for i, a := range args {
		callArgs[i] = a
	}
	ret := m.Called(callArgs...)
	return ret.String(0), ret.String(1), ret.Error(2)
}

var _ Client = (*MockClient)(nil)
var _ Client = (*DefaultClient)(nil)
