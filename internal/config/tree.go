package config

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/platform"
	"github.com/firefly-engineering/bountybridge/internal/plugin"
	"github.com/firefly-engineering/bountybridge/internal/registry"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

// Tree is a whole configuration: trackers owned by name, and accounts owning
// their programs. Programs refer to trackers by name only.
type Tree struct {
	Mode    Mode
	Plugins []plugin.Spec

	trackers map[string]*Tracker
	accounts []*Account
}

// NewTree creates an empty tree.
func NewTree(mode Mode) *Tree {
	return &Tree{Mode: mode, trackers: make(map[string]*Tracker)}
}

// TreeFromDocument builds a tree. Trackers are built first so that program
// references can be checked against them.
func TreeFromDocument(reg *registry.Registry, doc *Document, mode Mode) (*Tree, []ReferentialWarning, error) {
	t := NewTree(mode)
	t.Plugins = doc.Plugins

	for _, name := range slices.Sorted(maps.Keys(doc.Trackers)) {
		raw := doc.Trackers[name]
		typeID, _ := raw[TypeKey].(string)
		if typeID == "" {
			return nil, nil, errors.MissingKeys("tracker "+name, []string{TypeKey})
		}
		tr, err := TrackerFromDocument(reg, name, typeID, raw, mode)
		if err != nil {
			return nil, nil, err
		}
		t.trackers[name] = tr
	}

	var warnings []ReferentialWarning
	for _, name := range slices.Sorted(maps.Keys(doc.Accounts)) {
		a, w, err := AccountFromDocument(name, doc.Accounts[name], mode, t.HasTracker)
		warnings = append(warnings, w...)
		if err != nil {
			return nil, warnings, err
		}
		t.accounts = append(t.accounts, a)
	}
	return t, warnings, nil
}

// ToDocument serializes the tree. Orphaned program references are dropped
// with a warning.
func (t *Tree) ToDocument() (*Document, []ReferentialWarning) {
	doc := &Document{Plugins: t.Plugins}
	if len(t.trackers) > 0 {
		doc.Trackers = make(map[string]map[string]any, len(t.trackers))
		for name, tr := range t.trackers {
			doc.Trackers[name] = tr.ToDocument()
		}
	}
	var warnings []ReferentialWarning
	if len(t.accounts) > 0 {
		doc.Accounts = make(map[string]AccountDocument, len(t.accounts))
		for _, a := range t.accounts {
			ad, w := a.ToDocument(t)
			doc.Accounts[a.Name] = ad
			warnings = append(warnings, w...)
		}
	}
	return doc, warnings
}

// Tracker returns the tracker called name.
func (t *Tree) Tracker(name string) (*Tracker, bool) {
	tr, ok := t.trackers[name]
	return tr, ok
}

// HasTracker reports whether a tracker called name exists.
func (t *Tree) HasTracker(name string) bool {
	_, ok := t.trackers[name]
	return ok
}

// IsOrphan reports whether a program reference to name is dangling.
func (t *Tree) IsOrphan(name string) bool {
	return !t.HasTracker(name)
}

// TrackerNames returns the tracker names, sorted.
func (t *Tree) TrackerNames() []string {
	return slices.Sorted(maps.Keys(t.trackers))
}

// Trackers returns the trackers sorted by name.
func (t *Tree) Trackers() []*Tracker {
	out := make([]*Tracker, 0, len(t.trackers))
	for _, name := range t.TrackerNames() {
		out = append(out, t.trackers[name])
	}
	return out
}

// AddTracker adds tr. Names are unique within a tree.
func (t *Tree) AddTracker(tr *Tracker) error {
	if t.HasTracker(tr.Name) {
		return errors.SchemaViolation(fmt.Sprintf("tracker %s already exists", tr.Name))
	}
	t.trackers[tr.Name] = tr
	return nil
}

// RemoveTracker deletes the tracker called name. Without cascade it refuses
// while programs still reference the tracker. With cascade the remaining
// references become orphaned and are dropped when the tree is serialized.
// Removing an absent tracker only yields a warning.
func (t *Tree) RemoveTracker(name string, cascade bool) (*ReferentialWarning, error) {
	if !t.HasTracker(name) {
		return &ReferentialWarning{Tracker: name, Reason: ReasonRemoved}, nil
	}
	if referrers := t.Referrers(name); len(referrers) > 0 && !cascade {
		slugs := make([]string, len(referrers))
		for i, p := range referrers {
			slugs[i] = p.Slug
		}
		return nil, errors.SchemaViolation(fmt.Sprintf("tracker %s is still used by %s", name, strings.Join(slugs, ", ")))
	}
	delete(t.trackers, name)
	logging.Debug("tracker removed", "tracker", name, "cascade", cascade)
	return nil, nil
}

// Referrers returns the programs referencing name.
func (t *Tree) Referrers(name string) []*Program {
	var out []*Program
	for _, p := range t.Programs() {
		if p.HasTracker(name) {
			out = append(out, p)
		}
	}
	return out
}

// Account returns the account called name.
func (t *Tree) Account(name string) (*Account, bool) {
	for _, a := range t.accounts {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Accounts returns the accounts in order.
func (t *Tree) Accounts() []*Account {
	return t.accounts
}

// AddAccount adds a. Names are unique within a tree.
func (t *Tree) AddAccount(a *Account) error {
	if _, ok := t.Account(a.Name); ok {
		return errors.SchemaViolation(fmt.Sprintf("account %s already exists", a.Name))
	}
	t.accounts = append(t.accounts, a)
	return nil
}

// Programs returns every program of every account.
func (t *Tree) Programs() []*Program {
	var out []*Program
	for _, a := range t.accounts {
		out = append(out, a.Programs...)
	}
	return out
}

// Empty reports whether the tree has neither trackers nor accounts.
func (t *Tree) Empty() bool {
	return len(t.trackers) == 0 && len(t.accounts) == 0
}

// Wipe removes every tracker and account.
func (t *Tree) Wipe() {
	t.trackers = make(map[string]*Tracker)
	t.accounts = nil
}

// Prune drops orphaned references from every program.
func (t *Tree) Prune() []ReferentialWarning {
	var warnings []ReferentialWarning
	for _, p := range t.Programs() {
		for _, name := range slices.Clone(p.Trackers) {
			if t.IsOrphan(name) {
				p.Unlink(name)
				warnings = append(warnings, ReferentialWarning{Program: p.Slug, Tracker: name, Reason: ReasonUnknown})
			}
		}
	}
	return warnings
}

// Validate checks that every program has at least one live tracker.
func (t *Tree) Validate() error {
	for _, a := range t.accounts {
		for _, p := range a.Programs {
			if len(p.Resolve(t)) == 0 {
				return errors.SchemaViolation(fmt.Sprintf("account %s: program %s has no resolvable tracker", a.Name, p.Slug))
			}
		}
	}
	return nil
}

// Merge adds the trackers, accounts and programs of other that t lacks.
// Existing entries win; programs present in both gain the other's trackers.
func (t *Tree) Merge(other *Tree) {
	for _, name := range other.TrackerNames() {
		if t.HasTracker(name) {
			logging.Debug("merge: keeping existing tracker", "tracker", name)
			continue
		}
		t.trackers[name] = other.trackers[name]
	}
	for _, oa := range other.accounts {
		a, ok := t.Account(oa.Name)
		if !ok {
			t.accounts = append(t.accounts, oa)
			continue
		}
		for _, op := range oa.Programs {
			p := a.Program(op.Slug)
			if p == nil {
				a.Programs = append(a.Programs, op)
				continue
			}
			for _, name := range op.Trackers {
				p.Link(name)
			}
		}
	}
	for _, spec := range other.Plugins {
		if !slices.ContainsFunc(t.Plugins, func(s plugin.Spec) bool { return s.Package == spec.Package }) {
			t.Plugins = append(t.Plugins, spec)
		}
	}
}

// Connect connects every tracker, then every account. Trackers referenced by
// no program are connected too so that a broken tracker never goes unnoticed.
func (t *Tree) Connect(ctx context.Context, factory platform.Factory, p tui.Prompter) error {
	for _, tr := range t.Trackers() {
		if err := tr.Connect(ctx, p); err != nil {
			return err
		}
	}
	for _, a := range t.accounts {
		if err := a.Connect(ctx, factory, p); err != nil {
			return err
		}
	}
	return nil
}

// Summary describes the tree in a few lines.
func (t *Tree) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trackers (%d):\n", len(t.trackers))
	for _, tr := range t.Trackers() {
		fmt.Fprintf(&b, "  - %s\n", tr)
	}
	fmt.Fprintf(&b, "Accounts (%d):\n", len(t.accounts))
	for _, a := range t.accounts {
		fmt.Fprintf(&b, "  - %s (%s)\n", a.Name, a.Login)
		progs := slices.Clone(a.Programs)
		sort.SliceStable(progs, func(i, j int) bool { return progs[i].Slug < progs[j].Slug })
		for _, p := range progs {
			fmt.Fprintf(&b, "      %s -> %s\n", p.Slug, strings.Join(p.Trackers, ", "))
		}
	}
	return b.String()
}
