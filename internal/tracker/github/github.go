// Package github files reports as GitHub issues through go-github.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v69/github"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/schema"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

// TypeID is the tracker type identifier.
const TypeID = "github"

// DefaultURL is the public GitHub API endpoint.
const DefaultURL = "https://api.github.com"

// Type is the GitHub tracker type.
type Type struct{}

func (Type) TypeID() string { return TypeID }

func (Type) Schema() schema.Schema {
	return schema.Schema{
		Mandatory: []string{schema.IdentKey},
		Secret:    []string{"token"},
		Optional: append([]schema.Optional{
			{Key: "url", Default: DefaultURL},
			{Key: "labels", Default: "security"},
		}, tracker.TemplateOptions()...),
		Description: tracker.TemplateDescriptions(map[string]string{
			schema.IdentKey: "Repository (owner/name)",
			"token":         "Personal access token",
			"url":           "API URL",
			"labels":        "Comma-separated issue labels",
		}),
	}
}

func (Type) NewClient(values map[string]any) (tracker.Client, error) {
	token := tracker.String(values, "token")
	if token == "" {
		return nil, fmt.Errorf("github: token is required")
	}
	api := tracker.String(values, "url")
	if api == "" {
		api = DefaultURL
	}
	base, err := url.Parse(strings.TrimRight(api, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("github: invalid url %q: %w", api, err)
	}

	client := gh.NewClient(&http.Client{Timeout: 30 * time.Second}).WithAuthToken(token)
	client.BaseURL = base
	return &Client{
		API:    client,
		Repo:   tracker.String(values, schema.IdentKey),
		Labels: tracker.StringList(values, "labels"),
	}, nil
}

// Client talks to one GitHub repository.
type Client struct {
	API    *gh.Client
	Repo   string
	Labels []string
}

// apiError tags go-github failures with the tracker sentinels.
func apiError(resp *gh.Response, err error) error {
	if err == nil {
		return nil
	}
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return tracker.StatusError(er.Response.StatusCode, err)
	}
	if resp != nil && resp.Response != nil {
		return tracker.StatusError(resp.StatusCode, err)
	}
	return err
}

func splitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("github: repository %q is not owner/name", repo)
	}
	return owner, name, nil
}

func (c *Client) Authenticate(ctx context.Context) error {
	user, resp, err := c.API.Users.Get(ctx, "")
	if err != nil {
		return apiError(resp, err)
	}
	if user.GetLogin() == "" {
		return fmt.Errorf("github: malformed user response")
	}
	return nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*tracker.Project, error) {
	owner, name, err := splitRepo(id)
	if err != nil {
		return nil, err
	}
	repo, resp, err := c.API.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, apiError(resp, err)
	}
	return &tracker.Project{ID: strconv.FormatInt(repo.GetID(), 10), Name: repo.GetFullName()}, nil
}

func (c *Client) CreateIssue(ctx context.Context, title, body string, attachments []tracker.Attachment) (*tracker.Issue, error) {
	owner, name, err := splitRepo(c.Repo)
	if err != nil {
		return nil, err
	}
	req := &gh.IssueRequest{
		Title: gh.Ptr(title),
		Body:  gh.Ptr(tracker.AppendAttachments(body, attachments)),
	}
	if len(c.Labels) > 0 {
		req.Labels = &c.Labels
	}
	issue, resp, err := c.API.Issues.Create(ctx, owner, name, req)
	if err != nil {
		return nil, apiError(resp, err)
	}
	return &tracker.Issue{ID: strconv.Itoa(issue.GetNumber()), URL: issue.GetHTMLURL()}, nil
}

func (c *Client) IssueURL(issue *tracker.Issue) string {
	return issue.URL
}

func (c *Client) IssueID(issue *tracker.Issue) string {
	return "#" + issue.ID
}
