package tracker

import (
	"context"
	"strings"
	"testing"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/render"
)

func TestAppendAttachments(t *testing.T) {
	if got := AppendAttachments("body", nil); got != "body" {
		t.Errorf("AppendAttachments without attachments = %q, want %q", got, "body")
	}

	got := AppendAttachments("body\n\n", []Attachment{
		{Name: "poc.png", URL: "https://files.test/poc.png"},
		{Name: "log.txt", URL: "https://files.test/log.txt"},
	})
	want := "body\n\n**Attachments**\n\n- [poc.png](https://files.test/poc.png)\n- [log.txt](https://files.test/log.txt)\n"
	if got != want {
		t.Errorf("AppendAttachments = %q, want %q", got, want)
	}
}

func TestMockClient(t *testing.T) {
	ctx := context.Background()
	m := NewMockClient()
	m.Projects = map[string]bool{"acme/app": true}

	if err := m.Authenticate(ctx); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := m.GetProject(ctx, "acme/app"); err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if _, err := m.GetProject(ctx, "acme/other"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetProject unknown = %v, want ErrNotFound", err)
	}

	issue, err := m.CreateIssue(ctx, "title", "body", nil)
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	if m.IssueID(issue) != "1" || !strings.HasSuffix(m.IssueURL(issue), "/issues/1") {
		t.Errorf("unexpected issue %+v", issue)
	}

	want := []string{"Authenticate", "GetProject", "GetProject", "CreateIssue"}
	got := m.Calls()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Calls() = %v, want %v", got, want)
	}
}

func TestDefaultBodyTemplate_Score(t *testing.T) {
	tests := []struct {
		name  string
		score any
		want  string
	}{
		{"number", 7.456, "**Severity:** high (7.5)"},
		{"string", "7.456", "**Severity:** high (7.5)"},
		{"integer", 9, "**Severity:** high (9.0)"},
		{"absent", nil, "**Severity:** high\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			severity := map[string]any{"rating": "high"}
			if tt.score != nil {
				severity["score"] = tt.score
			}
			source := map[string]any{"severity": severity}
			overrides := map[string]any{"id": "42", "report_url": "https://hackerone.com/reports/42"}
			got, err := render.Render("body", DefaultBodyTemplate, source, render.DefaultKeys, overrides)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("body = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
