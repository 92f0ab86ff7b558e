// Package tracker defines the contract between bountybridge and the issue
// trackers it posts reports to. Concrete clients live in sub-packages
// (github, gitlab, jira) or are provided by plugins.
package tracker

import (
	"context"
	"fmt"
	"strings"
)

// Attachment is a file referenced by a report.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Issue is an issue created on a tracker.
type Issue struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Project is the remote project or workspace issues are filed into.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client is the interface that tracker backends must implement.
// Implementations return errors wrapping errors.ErrUnauthorized for rejected
// credentials and errors.ErrNotFound for missing projects.
type Client interface {
	// Authenticate verifies the configured credentials.
	Authenticate(ctx context.Context) error

	// GetProject looks up the project identified by id.
	GetProject(ctx context.Context, id string) (*Project, error)

	// CreateIssue files a new issue and returns it.
	CreateIssue(ctx context.Context, title, body string, attachments []Attachment) (*Issue, error)

	// IssueURL returns the browsable URL of an issue.
	IssueURL(issue *Issue) string

	// IssueID returns the tracker-specific identifier of an issue.
	IssueID(issue *Issue) string
}

// AppendAttachments adds a Markdown list of attachment links to body.
// Trackers without native upload support use it to keep attachments reachable.
func AppendAttachments(body string, attachments []Attachment) string {
	if len(attachments) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteString("\n\n**Attachments**\n\n")
	for _, a := range attachments {
		fmt.Fprintf(&b, "- [%s](%s)\n", a.Name, a.URL)
	}
	return b.String()
}
