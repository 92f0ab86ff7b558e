package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/schema"
	"github.com/firefly-engineering/bountybridge/internal/system"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

// Description is what a module prints when asked "describe".
type Description struct {
	Type        string            `json:"type"`
	Mandatory   []string          `json:"mandatory"`
	Secret      []string          `json:"secret"`
	Optional    map[string]any    `json:"optional"`
	Description map[string]string `json:"description"`
}

// Implementation is a tracker type backed by a plugin executable.
type Implementation struct {
	Module string
	Path   string
	Args   []string

	desc Description
	exec system.CommandExecutor
}

// Identity is the declared type followed by the module command line.
// Loading one manifest twice yields equal identities, so the registry treats
// the second load as the same implementation.
func (i *Implementation) Identity() string {
	return i.desc.Type + " " + shellquote.Join(append([]string{i.Path}, i.Args...)...)
}

func (i *Implementation) TypeID() string {
	return i.desc.Type
}

// Schema returns the declared schema. The issue template keys are added as
// optional keys unless the module declares them itself.
func (i *Implementation) Schema() schema.Schema {
	s := schema.Schema{
		Mandatory:   slices.Clone(i.desc.Mandatory),
		Secret:      slices.Clone(i.desc.Secret),
		Description: make(map[string]string, len(i.desc.Description)+2),
	}
	for _, key := range slices.Sorted(maps.Keys(i.desc.Optional)) {
		s.Optional = append(s.Optional, schema.Optional{Key: key, Default: i.desc.Optional[key]})
	}
	maps.Copy(s.Description, i.desc.Description)
	for _, opt := range tracker.TemplateOptions() {
		declared := s.IsMandatory(opt.Key) || s.IsSecret(opt.Key) || s.IsOptional(opt.Key)
		if !declared {
			s.Optional = append(s.Optional, opt)
		}
	}
	tracker.TemplateDescriptions(s.Description)
	return s
}

func (i *Implementation) NewClient(values map[string]any) (tracker.Client, error) {
	return &Client{impl: i, values: maps.Clone(values)}, nil
}

func (i *Implementation) run(ctx context.Context, op, stdin string) ([]byte, error) {
	args := append([]string{op}, i.Args...)
	out, err := i.exec.ExecuteWithStdin(ctx, stdin, i.Path, args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", i.Path, op, err, bytes.TrimSpace(out))
	}
	return bytes.TrimSpace(out), nil
}

// response is the JSON answer of a client operation.
type response struct {
	Error   string           `json:"error"`
	Message string           `json:"message"`
	Project *tracker.Project `json:"project"`
	Issue   *tracker.Issue   `json:"issue"`
}

// Error codes a module may answer with.
const (
	ErrorNotFound     = "not_found"
	ErrorUnauthorized = "unauthorized"
)

// Client proxies client operations to the plugin executable.
type Client struct {
	impl   *Implementation
	values map[string]any
}

func (c *Client) call(ctx context.Context, op string, req map[string]any) (*response, error) {
	req["config"] = c.values
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
	}
	out, err := c.impl.run(ctx, op, string(data))
	if err != nil {
		return nil, err
	}

	var resp response
	if len(out) > 0 {
		if err := json.Unmarshal(out, &resp); err != nil {
			return nil, fmt.Errorf("malformed %s response from %s: %w", op, c.impl.Path, err)
		}
	}
	switch resp.Error {
	case "":
		return &resp, nil
	case ErrorNotFound:
		return nil, fmt.Errorf("%s: %s: %w", op, resp.Message, errors.ErrNotFound)
	case ErrorUnauthorized:
		return nil, fmt.Errorf("%s: %s: %w", op, resp.Message, errors.ErrUnauthorized)
	default:
		return nil, fmt.Errorf("%s: %s: %s", op, resp.Error, resp.Message)
	}
}

func (c *Client) Authenticate(ctx context.Context) error {
	_, err := c.call(ctx, "authenticate", map[string]any{})
	return err
}

func (c *Client) GetProject(ctx context.Context, id string) (*tracker.Project, error) {
	resp, err := c.call(ctx, "get-project", map[string]any{"project": id})
	if err != nil {
		return nil, err
	}
	if resp.Project == nil {
		return &tracker.Project{ID: id, Name: id}, nil
	}
	return resp.Project, nil
}

func (c *Client) CreateIssue(ctx context.Context, title, body string, attachments []tracker.Attachment) (*tracker.Issue, error) {
	resp, err := c.call(ctx, "create-issue", map[string]any{
		"title":       title,
		"body":        body,
		"attachments": attachments,
	})
	if err != nil {
		return nil, err
	}
	if resp.Issue == nil {
		return nil, fmt.Errorf("create-issue: %s returned no issue", c.impl.Path)
	}
	return resp.Issue, nil
}

func (c *Client) IssueURL(issue *tracker.Issue) string {
	return issue.URL
}

func (c *Client) IssueID(issue *tracker.Issue) string {
	return issue.ID
}
