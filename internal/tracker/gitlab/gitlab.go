// Package gitlab files reports as GitLab issues through the client-go SDK.
package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/schema"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

// TypeID is the tracker type identifier.
const TypeID = "gitlab"

// DefaultURL is the gitlab.com instance.
const DefaultURL = "https://gitlab.com"

// Type is the GitLab tracker type.
type Type struct{}

func (Type) TypeID() string { return TypeID }

func (Type) Schema() schema.Schema {
	return schema.Schema{
		Mandatory: []string{schema.IdentKey},
		Secret:    []string{"token"},
		Optional: append([]schema.Optional{
			{Key: "url", Default: DefaultURL},
			{Key: "labels", Default: "security"},
			{Key: "confidential", Default: true},
		}, tracker.TemplateOptions()...),
		Description: tracker.TemplateDescriptions(map[string]string{
			schema.IdentKey: "Project path (group/project) or numeric id",
			"token":         "Personal access token",
			"url":           "Instance URL",
			"labels":        "Comma-separated issue labels",
			"confidential":  "Create confidential issues",
		}),
	}
}

func (Type) NewClient(values map[string]any) (tracker.Client, error) {
	token := tracker.String(values, "token")
	if token == "" {
		return nil, fmt.Errorf("gitlab: token is required")
	}
	base := tracker.String(values, "url")
	if base == "" {
		base = DefaultURL
	}
	api, err := gl.NewClient(token,
		gl.WithBaseURL(strings.TrimRight(base, "/")),
		gl.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		gl.WithoutRetries(),
	)
	if err != nil {
		return nil, fmt.Errorf("gitlab: %w", err)
	}
	return &Client{
		API:          api,
		Project:      tracker.String(values, schema.IdentKey),
		Labels:       tracker.StringList(values, "labels"),
		Confidential: tracker.Bool(values, "confidential"),
	}, nil
}

// Client talks to one GitLab project.
type Client struct {
	API          *gl.Client
	Project      string
	Labels       []string
	Confidential bool
}

func apiError(resp *gl.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp != nil && resp.Response != nil {
		return tracker.StatusError(resp.StatusCode, err)
	}
	var er *gl.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return tracker.StatusError(er.Response.StatusCode, err)
	}
	return err
}

func (c *Client) Authenticate(ctx context.Context) error {
	user, resp, err := c.API.Users.CurrentUser(gl.WithContext(ctx))
	if err != nil {
		return apiError(resp, err)
	}
	if user.ID == 0 {
		return fmt.Errorf("gitlab: malformed user response")
	}
	return nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*tracker.Project, error) {
	project, resp, err := c.API.Projects.GetProject(id, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, apiError(resp, err)
	}
	return &tracker.Project{ID: strconv.Itoa(project.ID), Name: project.PathWithNamespace}, nil
}

func (c *Client) CreateIssue(ctx context.Context, title, body string, attachments []tracker.Attachment) (*tracker.Issue, error) {
	opts := &gl.CreateIssueOptions{
		Title:        gl.Ptr(title),
		Description:  gl.Ptr(tracker.AppendAttachments(body, attachments)),
		Confidential: gl.Ptr(c.Confidential),
	}
	if len(c.Labels) > 0 {
		labels := gl.LabelOptions(c.Labels)
		opts.Labels = &labels
	}
	issue, resp, err := c.API.Issues.CreateIssue(c.Project, opts, gl.WithContext(ctx))
	if err != nil {
		return nil, apiError(resp, err)
	}
	return &tracker.Issue{ID: strconv.Itoa(issue.IID), URL: issue.WebURL}, nil
}

func (c *Client) IssueURL(issue *tracker.Issue) string {
	return issue.URL
}

func (c *Client) IssueID(issue *tracker.Issue) string {
	return "#" + issue.ID
}
