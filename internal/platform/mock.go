package platform

import (
	"context"
	"fmt"
	"sync"

	"github.com/firefly-engineering/bountybridge/internal/errors"
)

// MockClient is a mock implementation of Client for testing
type MockClient struct {
	mu sync.Mutex

	// Programs maps program handles to their reports.
	Programs map[string][]*Report

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// CallLog records all method calls for verification
	CallLog []string

	// Credentials records the credentials the mock was created with.
	Credentials Credentials
}

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{
		Programs: make(map[string][]*Report),
		Errors:   make(map[string]error),
	}
}

// Factory returns a Factory handing out this mock and recording credentials.
func (m *MockClient) Factory() Factory {
	return func(creds Credentials) Client {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.Credentials = creds
		return m
	}
}

// SetError sets an error to be returned for a specific operation
func (m *MockClient) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

func (m *MockClient) Authenticate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, "Authenticate")
	return m.Errors["Authenticate"]
}

func (m *MockClient) Program(ctx context.Context, slug string) (*Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, "Program "+slug)
	if err := m.Errors["Program"]; err != nil {
		return nil, err
	}
	if _, ok := m.Programs[slug]; !ok {
		return nil, fmt.Errorf("program %s: %w", slug, errors.ErrNotFound)
	}
	return &Program{ID: slug, Handle: slug, Name: slug}, nil
}

func (m *MockClient) Reports(ctx context.Context, slug string) ([]*Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, "Reports "+slug)
	if err := m.Errors["Reports"]; err != nil {
		return nil, err
	}
	return m.Programs[slug], nil
}
