// Package importer posts new platform reports to the trackers of their
// program.
package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/firefly-engineering/bountybridge/internal/config"
	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/ledger"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/platform"
	"github.com/firefly-engineering/bountybridge/internal/render"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

// Importer walks accounts, programs and reports of a connected tree.
type Importer struct {
	Tree   *config.Tree
	Ledger *ledger.Ledger

	// DryRun renders issues to Out instead of creating them.
	DryRun bool
	Out    io.Writer
}

// Result counts what a run did.
type Result struct {
	Created  int
	Skipped  int
	Rendered int
}

// Issue is a rendered issue.
type Issue struct {
	Title       string
	Body        string
	Attachments []tracker.Attachment
}

// Run imports every report not yet in the ledger. The first failure stops
// the run; issues created before it stay recorded.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	var res Result
	for _, a := range im.Tree.Accounts() {
		client := a.Client()
		if client == nil {
			return res, fmt.Errorf("account %s is not connected", a.Name)
		}
		for _, prog := range a.Programs {
			if err := im.program(ctx, a, client, prog, &res); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func (im *Importer) program(ctx context.Context, a *config.Account, client platform.Client, prog *config.Program, res *Result) error {
	log := logging.With("account", a.Name, "program", prog.Slug)

	reports, err := client.Reports(ctx, prog.Slug)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthorized) {
			return errors.AuthenticationFailed("account", a.Name, err)
		}
		return errors.ProgramNotFound(a.Name, prog.Slug, err)
	}
	trackers := prog.Resolve(im.Tree)
	log.Debug("program reports fetched", "reports", len(reports), "trackers", len(trackers))

	renderer := &render.Renderer{RedirectDomain: platform.Domain(a.APIURL)}
	for _, report := range reports {
		for _, tr := range trackers {
			done, err := im.Ledger.Imported(prog.Slug, report.ID(), tr.Name)
			if err != nil {
				return err
			}
			if done {
				res.Skipped++
				continue
			}

			issue, err := Render(renderer, tr, a.APIURL, prog.Slug, report)
			if err != nil {
				return err
			}
			if im.DryRun {
				im.print(tr, report, issue)
				res.Rendered++
				continue
			}
			if err := im.post(ctx, a, prog, tr, report, issue); err != nil {
				return err
			}
			res.Created++
		}
	}
	return nil
}

func (im *Importer) post(ctx context.Context, a *config.Account, prog *config.Program, tr *config.Tracker, report *platform.Report, issue *Issue) error {
	client := tr.Client()
	if client == nil {
		return fmt.Errorf("tracker %s is not connected", tr.Name)
	}
	created, err := client.CreateIssue(ctx, issue.Title, issue.Body, issue.Attachments)
	if err != nil {
		return fmt.Errorf("tracker %s: failed to create issue for %s: %w", tr.Name, report, err)
	}

	entry := ledger.Entry{
		Account:  a.Name,
		Program:  prog.Slug,
		Report:   report.ID(),
		Tracker:  tr.Name,
		IssueID:  client.IssueID(created),
		IssueURL: client.IssueURL(created),
	}
	if err := im.Ledger.Record(entry); err != nil {
		return err
	}
	logging.Info("issue created", "program", prog.Slug, "report", report.ID(), "tracker", tr.Name, "issue", entry.IssueID)
	logging.UserSuccess("%s %s -> %s %s", prog.Slug, report, tr.Name, entry.IssueURL)
	return nil
}

func (im *Importer) print(tr *config.Tracker, report *platform.Report, issue *Issue) {
	if im.Out == nil {
		return
	}
	fmt.Fprintf(im.Out, "=== %s -> %s\n%s\n\n%s\n", report, tr.Name, issue.Title, issue.Body)
}

// Render renders the issue a tracker would receive for report. Trackers
// without a title or body template use the defaults.
func Render(r *render.Renderer, tr *config.Tracker, apiURL, program string, report *platform.Report) (*Issue, error) {
	overrides := map[string]any{
		"program":    program,
		"id":         report.ID(),
		"report_url": platform.ReportURL(apiURL, report.ID()),
	}

	titleTmpl := tr.Template(tracker.TitleTemplateKey)
	if titleTmpl == "" {
		titleTmpl = tracker.DefaultTitleTemplate
	}
	bodyTmpl := tr.Template(tracker.BodyTemplateKey)
	if bodyTmpl == "" {
		bodyTmpl = tracker.DefaultBodyTemplate
	}

	title, err := r.Render(tr.Name+"."+tracker.TitleTemplateKey, titleTmpl, report, render.DefaultKeys, overrides)
	if err != nil {
		return nil, err
	}
	body, err := r.Render(tr.Name+"."+tracker.BodyTemplateKey, bodyTmpl, report, render.DefaultKeys, overrides)
	if err != nil {
		return nil, err
	}
	return &Issue{Title: title, Body: body, Attachments: Attachments(report)}, nil
}

// Attachments lists the files attached to report.
func Attachments(report *platform.Report) []tracker.Attachment {
	v, ok := report.Attr("attachments")
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []tracker.Attachment
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["file_name"].(string)
		url, _ := m["expiring_url"].(string)
		if url == "" {
			continue
		}
		out = append(out, tracker.Attachment{Name: name, URL: url})
	}
	return out
}
