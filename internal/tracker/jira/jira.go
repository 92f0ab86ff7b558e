// Package jira files reports as Jira issues through go-jira.
package jira

import (
	"context"
	"fmt"
	"strings"
	"time"

	jiraapi "github.com/andygrunwald/go-jira"

	"github.com/firefly-engineering/bountybridge/internal/schema"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

// TypeID is the tracker type identifier.
const TypeID = "jira"

// Type is the Jira tracker type.
type Type struct{}

func (Type) TypeID() string { return TypeID }

func (Type) Schema() schema.Schema {
	return schema.Schema{
		Mandatory: []string{schema.IdentKey, "url", "login"},
		Secret:    []string{"token"},
		Optional: append([]schema.Optional{
			{Key: "issue_type", Default: "Bug"},
			{Key: "labels", Default: "security"},
		}, tracker.TemplateOptions()...),
		Description: tracker.TemplateDescriptions(map[string]string{
			schema.IdentKey: "Project key",
			"url":           "Jira base URL",
			"login":         "Account e-mail",
			"token":         "API token",
			"issue_type":    "Issue type name",
			"labels":        "Comma-separated issue labels",
		}),
	}
}

func (Type) NewClient(values map[string]any) (tracker.Client, error) {
	token := tracker.String(values, "token")
	if token == "" {
		return nil, fmt.Errorf("jira: token is required")
	}
	base := strings.TrimRight(tracker.String(values, "url"), "/")
	if base == "" {
		return nil, fmt.Errorf("jira: url is required")
	}

	auth := jiraapi.BasicAuthTransport{Username: tracker.String(values, "login"), Password: token}
	hc := auth.Client()
	hc.Timeout = 30 * time.Second
	api, err := jiraapi.NewClient(hc, base+"/")
	if err != nil {
		return nil, fmt.Errorf("jira: %w", err)
	}
	return &Client{
		API:       api,
		BaseURL:   base,
		Project:   tracker.String(values, schema.IdentKey),
		IssueType: tracker.String(values, "issue_type"),
		Labels:    tracker.StringList(values, "labels"),
	}, nil
}

// Client talks to one Jira project.
type Client struct {
	API       *jiraapi.Client
	BaseURL   string
	Project   string
	IssueType string
	Labels    []string
}

func apiError(resp *jiraapi.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp != nil && resp.Response != nil {
		return tracker.StatusError(resp.StatusCode, err)
	}
	return err
}

func (c *Client) Authenticate(ctx context.Context) error {
	me, resp, err := c.API.User.GetSelfWithContext(ctx)
	if err != nil {
		return apiError(resp, err)
	}
	if me.AccountID == "" && me.Name == "" {
		return fmt.Errorf("jira: malformed myself response")
	}
	return nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*tracker.Project, error) {
	project, resp, err := c.API.Project.GetWithContext(ctx, id)
	if err != nil {
		return nil, apiError(resp, err)
	}
	return &tracker.Project{ID: project.ID, Name: project.Key}, nil
}

func (c *Client) CreateIssue(ctx context.Context, title, body string, attachments []tracker.Attachment) (*tracker.Issue, error) {
	issue := &jiraapi.Issue{
		Fields: &jiraapi.IssueFields{
			Project:     jiraapi.Project{Key: c.Project},
			Type:        jiraapi.IssueType{Name: c.IssueType},
			Summary:     title,
			Description: tracker.AppendAttachments(body, attachments),
			Labels:      c.Labels,
		},
	}
	created, resp, err := c.API.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		return nil, apiError(resp, err)
	}
	return &tracker.Issue{ID: created.Key, URL: c.BaseURL + "/browse/" + created.Key}, nil
}

func (c *Client) IssueURL(issue *tracker.Issue) string {
	return issue.URL
}

func (c *Client) IssueID(issue *tracker.Issue) string {
	return issue.ID
}
