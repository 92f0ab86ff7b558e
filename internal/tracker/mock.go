package tracker

import (
	"context"
	"fmt"
	"sync"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/schema"
)

// MockClient is a mock implementation of Client for testing
type MockClient struct {
	mu sync.Mutex

	// Projects lists the project ids GetProject succeeds for.
	// A nil map accepts every project.
	Projects map[string]bool

	// Errors allows injecting errors for specific operations
	Errors map[string]error

	// Issues records created issues in order.
	Issues []MockIssue

	// CallLog records all method calls for verification
	CallLog []MockCall
}

// MockIssue is an issue recorded by MockClient.
type MockIssue struct {
	Title       string
	Body        string
	Attachments []Attachment
}

// MockCall represents a recorded method call
type MockCall struct {
	Method string
	Args   []interface{}
}

// NewMockClient creates a new mock client
func NewMockClient() *MockClient {
	return &MockClient{
		Errors:  make(map[string]error),
		CallLog: make([]MockCall, 0),
	}
}

func (m *MockClient) record(method string, args ...interface{}) {
	m.CallLog = append(m.CallLog, MockCall{Method: method, Args: args})
}

// SetError sets an error to be returned for a specific operation
func (m *MockClient) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[operation] = err
}

// Calls returns the recorded method names in order.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.CallLog))
	for i, c := range m.CallLog {
		names[i] = c.Method
	}
	return names
}

func (m *MockClient) Authenticate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Authenticate")
	return m.Errors["Authenticate"]
}

func (m *MockClient) GetProject(ctx context.Context, id string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GetProject", id)
	if err := m.Errors["GetProject"]; err != nil {
		return nil, err
	}
	if m.Projects != nil && !m.Projects[id] {
		return nil, fmt.Errorf("project %s: %w", id, errors.ErrNotFound)
	}
	return &Project{ID: id, Name: id}, nil
}

func (m *MockClient) CreateIssue(ctx context.Context, title, body string, attachments []Attachment) (*Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateIssue", title)
	if err := m.Errors["CreateIssue"]; err != nil {
		return nil, err
	}
	m.Issues = append(m.Issues, MockIssue{Title: title, Body: body, Attachments: attachments})
	n := len(m.Issues)
	return &Issue{ID: fmt.Sprintf("%d", n), URL: fmt.Sprintf("https://tracker.test/issues/%d", n)}, nil
}

func (m *MockClient) IssueURL(issue *Issue) string {
	return issue.URL
}

func (m *MockClient) IssueID(issue *Issue) string {
	return issue.ID
}

// MockType is a tracker type handing out a shared MockClient. It is
// comparable, so it can be registered like a compiled-in type.
type MockType struct {
	ID     string
	Client *MockClient

	// Created counts NewClient calls.
	Created *int
}

// NewMockType creates a mock tracker type called id.
func NewMockType(id string) MockType {
	return MockType{ID: id, Client: NewMockClient(), Created: new(int)}
}

func (t MockType) TypeID() string { return t.ID }

func (t MockType) Schema() schema.Schema {
	return schema.Schema{
		Mandatory: []string{schema.IdentKey},
		Secret:    []string{"token"},
		Optional: append([]schema.Optional{
			{Key: "url", Default: "https://tracker.test"},
		}, TemplateOptions()...),
		Description: TemplateDescriptions(map[string]string{
			schema.IdentKey: "Project",
			"token":         "API token",
			"url":           "API URL",
		}),
	}
}

func (t MockType) NewClient(values map[string]any) (Client, error) {
	*t.Created++
	if err := t.Client.Errors["NewClient"]; err != nil {
		return nil, err
	}
	return t.Client, nil
}
