package config

import (
	"fmt"
	"slices"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
)

// ReferentialWarning reports a dangling tracker reference. It is never fatal:
// the offending reference is dropped and processing continues.
type ReferentialWarning struct {
	Program string
	Tracker string
	Reason  string
}

func (w ReferentialWarning) String() string {
	if w.Program == "" {
		return fmt.Sprintf("tracker %s: %s", w.Tracker, w.Reason)
	}
	return fmt.Sprintf("program %s: tracker %s: %s", w.Program, w.Tracker, w.Reason)
}

// Log writes the warning to the log and to the user.
func (w ReferentialWarning) Log() {
	logging.Warn("dangling tracker reference", "program", w.Program, "tracker", w.Tracker, "reason", w.Reason)
	logging.UserWarning("%s", w)
}

// Warning reasons.
const (
	ReasonUnknown = "no such tracker, reference dropped"
	ReasonRemoved = "tracker was already removed"
)

// Program is a tracked bug-bounty program. Trackers holds tracker names in
// posting order; they are weak references into the owning tree.
type Program struct {
	Slug     string
	Trackers []string
}

// ProgramFromDocument builds a program from its document tracker names.
// Names known reports unresolvable are dropped with a warning; duplicates
// are collapsed. A program left without any tracker is a schema violation.
func ProgramFromDocument(slug string, names []string, known func(string) bool) (*Program, []ReferentialWarning, error) {
	if slug == "" {
		return nil, nil, errors.MissingKeys("program", []string{"slug"})
	}

	p := &Program{Slug: slug}
	var warnings []ReferentialWarning
	for _, name := range names {
		if !known(name) {
			warnings = append(warnings, ReferentialWarning{Program: slug, Tracker: name, Reason: ReasonUnknown})
			continue
		}
		p.Link(name)
	}
	if len(p.Trackers) == 0 {
		return nil, warnings, errors.SchemaViolation(fmt.Sprintf("program %s has no resolvable tracker", slug))
	}
	return p, warnings, nil
}

// HasTracker reports whether the program references name.
func (p *Program) HasTracker(name string) bool {
	return slices.Contains(p.Trackers, name)
}

// Link appends name unless already referenced. It reports whether the list
// changed.
func (p *Program) Link(name string) bool {
	if p.HasTracker(name) {
		return false
	}
	p.Trackers = append(p.Trackers, name)
	return true
}

// Unlink removes name. It reports whether the list changed.
func (p *Program) Unlink(name string) bool {
	i := slices.Index(p.Trackers, name)
	if i < 0 {
		return false
	}
	p.Trackers = slices.Delete(p.Trackers, i, i+1)
	return true
}

// Resolve returns the live trackers of the program in order, skipping
// orphaned references.
func (p *Program) Resolve(tree *Tree) []*Tracker {
	var out []*Tracker
	for _, name := range p.Trackers {
		if t, ok := tree.Tracker(name); ok {
			out = append(out, t)
		}
	}
	return out
}
