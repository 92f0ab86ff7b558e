package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/firefly-engineering/bountybridge/internal/config"
	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

// NoneToken, given as keep set and confirmed, wipes the whole document.
const NoneToken = "none"

// MaxKeepAttempts bounds how often an invalid keep set is asked again.
const MaxKeepAttempts = 5

// Editor mutates a configuration tree on behalf of the user. It is the only
// component that removes trackers while programs still reference them.
type Editor struct {
	Tree     *config.Tree
	Prompter tui.Prompter

	state       State
	wiped       bool
	addDisabled bool
}

// New creates an editor over tree in the Clean state.
func New(tree *config.Tree, p tui.Prompter) *Editor {
	return &Editor{Tree: tree, Prompter: p}
}

// State returns the current state.
func (e *Editor) State() State {
	return e.state
}

// Wiped reports whether the user wiped the document.
func (e *Editor) Wiped() bool {
	return e.wiped
}

func (e *Editor) transition(to State) error {
	if !CanTransition(e.state, to) {
		return illegalTransition(e.state, to)
	}
	logging.Debug("editor transition", "from", e.state, "to", to)
	e.state = to
	return nil
}

// Begin moves a clean editor to Editing.
func (e *Editor) Begin() error {
	return e.transition(Editing)
}

// ReconcileAll walks every program once. A wipe stops the walk; the
// remaining programs no longer exist.
func (e *Editor) ReconcileAll() error {
	if err := e.transition(Reconciling); err != nil {
		return err
	}
	for _, prog := range e.Tree.Programs() {
		if err := e.ReconcileProgram(prog); err != nil {
			return err
		}
		if e.wiped {
			return nil
		}
	}
	return nil
}

// ReconcileProgram asks which trackers prog keeps, optionally deletes the
// dropped ones, reorders the kept ones in answer order and offers to link
// further trackers. Indices refer to the list as shown, even if a cascade
// delete changes the tree in between.
func (e *Editor) ReconcileProgram(prog *config.Program) error {
	if e.state != Reconciling {
		return illegalTransition(e.state, Reconciling)
	}
	if e.wiped {
		return nil
	}

	snapshot := slices.Clone(prog.Trackers)
	if len(snapshot) > 0 {
		e.Prompter.Show(fmt.Sprintf("Trackers of %s:\n%s", prog.Slug, tui.Enumerate(e.labels(snapshot))))

		keep, wipe, err := e.askKeepSet(prog.Slug, len(snapshot))
		if err != nil {
			return err
		}
		if wipe {
			e.Tree.Wipe()
			e.wiped = true
			logging.Info("document wiped", "program", prog.Slug)
			logging.UserWarning("Configuration wiped: every tracker and account was removed")
			return nil
		}

		kept := make([]string, len(keep))
		for i, idx := range keep {
			kept[i] = snapshot[idx]
		}
		var dropped []string
		for _, name := range snapshot {
			if !slices.Contains(kept, name) {
				dropped = append(dropped, name)
			}
		}
		if len(dropped) > 0 {
			if err := e.dropTrackers(prog.Slug, dropped); err != nil {
				return err
			}
		}
		prog.Trackers = kept
	}

	return e.offerAdditions(prog)
}

func (e *Editor) labels(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		if e.Tree.IsOrphan(name) {
			out[i] = name + " (missing)"
			continue
		}
		out[i] = name
	}
	return out
}

func (e *Editor) askKeepSet(slug string, count int) ([]int, bool, error) {
	label := fmt.Sprintf("Trackers to keep for %s (indices, empty keeps all, %q wipes everything):", slug, NoneToken)
	for range MaxKeepAttempts {
		answer, err := e.Prompter.Ask(label, "")
		if err != nil {
			return nil, false, err
		}
		answer = strings.TrimSpace(answer)
		switch answer {
		case "":
			return allIndices(count), false, nil
		case NoneToken:
			wipe, err := e.Prompter.Confirm("Wipe the whole configuration?", false)
			if err != nil {
				return nil, false, err
			}
			if wipe {
				return nil, true, nil
			}
			logging.UserInfo("Wipe cancelled")
			continue
		}
		keep, err := parseIndices(answer, count)
		if err == nil {
			return keep, false, nil
		}
		logging.UserWarning("Invalid selection: %v", err)
	}
	return nil, false, errors.ValidationError(fmt.Sprintf("program %s: no valid keep set after %d attempts", slug, MaxKeepAttempts))
}

// dropTrackers unlinks dropped from the program and, if confirmed, deletes
// them from the tree as well.
func (e *Editor) dropTrackers(slug string, dropped []string) error {
	del, err := e.Prompter.Confirm(fmt.Sprintf("Also delete %s from the configuration?", strings.Join(dropped, ", ")), false)
	if err != nil {
		return err
	}
	if !del {
		logging.Debug("trackers detached", "program", slug, "trackers", dropped)
		return nil
	}
	for _, name := range dropped {
		w, err := e.Tree.RemoveTracker(name, true)
		if err != nil {
			return err
		}
		if w != nil {
			w.Program = slug
			w.Log()
			continue
		}
		logging.UserSuccess("Tracker %s deleted", name)
	}
	return nil
}

func (e *Editor) offerAdditions(prog *config.Program) error {
	if e.addDisabled {
		return nil
	}
	var candidates []string
	for _, name := range e.Tree.TrackerNames() {
		if !prog.HasTracker(name) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	e.Prompter.Show(fmt.Sprintf("Other trackers:\n%s", tui.Enumerate(candidates)))
	answer, err := e.Prompter.Ask(fmt.Sprintf("Trackers to add to %s (indices, empty for none):", prog.Slug), "")
	if err != nil {
		return err
	}
	if strings.TrimSpace(answer) == "" {
		return nil
	}
	idx, err := parseIndices(answer, len(candidates))
	if err != nil {
		logging.UserWarning("Invalid selection: %v; no tracker added", err)
		e.addDisabled = true
		return nil
	}
	for _, i := range idx {
		prog.Link(candidates[i])
	}
	return nil
}

// DropEmptyPrograms removes programs left without a live tracker, which a
// document cannot hold.
func (e *Editor) DropEmptyPrograms() []string {
	var dropped []string
	for _, a := range e.Tree.Accounts() {
		for _, p := range slices.Clone(a.Programs) {
			if len(p.Resolve(e.Tree)) > 0 {
				continue
			}
			a.RemoveProgram(p.Slug)
			dropped = append(dropped, p.Slug)
			logging.Warn("program dropped", "account", a.Name, "program", p.Slug)
			logging.UserWarning("Program %s has no tracker left and was removed", p.Slug)
		}
	}
	return dropped
}

// Commit prunes the tree and writes it to path.
func (e *Editor) Commit(store *config.Store, path string) error {
	if !CanTransition(e.state, Persisted) {
		return illegalTransition(e.state, Persisted)
	}
	for _, w := range e.Tree.Prune() {
		w.Log()
	}
	e.DropEmptyPrograms()

	doc, _ := e.Tree.ToDocument()
	if err := store.Save(path, doc); err != nil {
		return err
	}
	e.state = Persisted
	logging.Info("configuration saved", "path", path)
	return nil
}

// Discard abandons the session.
func (e *Editor) Discard() error {
	return e.transition(Discarded)
}
