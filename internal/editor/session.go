package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/firefly-engineering/bountybridge/internal/config"
	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/platform"
	"github.com/firefly-engineering/bountybridge/internal/plugin"
	"github.com/firefly-engineering/bountybridge/internal/registry"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

// Session drives the configure command: it creates a document from scratch
// or edits an existing one, then asks before saving.
type Session struct {
	Registry *registry.Registry
	Prompter tui.Prompter
	Store    *config.Store
	Loader   *plugin.Loader
	Factory  platform.Factory
	Path     string
	Mode     config.Mode
}

// Run executes the session. It returns the editor so callers can inspect
// the final state.
func (s *Session) Run(ctx context.Context) (*Editor, error) {
	tree, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	e := New(tree, s.Prompter)
	if err := e.Begin(); err != nil {
		return nil, err
	}

	if tree.Empty() {
		s.Prompter.Show(fmt.Sprintf("Creating %s", s.Path))
		if err := s.create(ctx, tree); err != nil {
			return nil, err
		}
	} else {
		s.Prompter.Show(fmt.Sprintf("Editing %s\n%s", s.Path, tree.Summary()))
		if err := s.edit(ctx, tree); err != nil {
			return nil, err
		}
		if err := e.ReconcileAll(); err != nil {
			return nil, err
		}
	}

	if !e.Wiped() {
		s.Prompter.Show(tree.Summary())
	}
	save, err := s.Prompter.Confirm(fmt.Sprintf("Save configuration to %s?", s.Path), true)
	if err != nil {
		return nil, err
	}
	if !save {
		logging.UserInfo("Configuration left unchanged")
		return e, e.Discard()
	}
	if err := e.Commit(s.Store, s.Path); err != nil {
		return nil, err
	}
	logging.UserSuccess("Configuration saved to %s", s.Path)
	return e, nil
}

// load reads the existing document, registering its plugins first. A
// missing document yields an empty tree.
func (s *Session) load(ctx context.Context) (*config.Tree, error) {
	if !s.Store.Exists(s.Path) {
		return config.NewTree(s.Mode), nil
	}
	doc, err := s.Store.Load(s.Path)
	if err != nil {
		return nil, err
	}
	if len(doc.Plugins) > 0 {
		if _, err := s.Loader.Register(ctx, s.Registry, doc.ExpandedPlugins()); err != nil {
			return nil, err
		}
	}
	tree, warnings, err := config.TreeFromDocument(s.Registry, doc, s.Mode)
	for _, w := range warnings {
		w.Log()
	}
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *Session) create(ctx context.Context, tree *config.Tree) error {
	if err := s.addTrackers(ctx, tree, true); err != nil {
		return err
	}
	return s.addAccounts(ctx, tree, true)
}

func (s *Session) edit(ctx context.Context, tree *config.Tree) error {
	if err := s.addTrackers(ctx, tree, false); err != nil {
		return err
	}
	for _, a := range tree.Accounts() {
		more, err := s.Prompter.Confirm(fmt.Sprintf("Add programs to account %s?", a.Name), false)
		if err != nil {
			return err
		}
		if !more {
			continue
		}
		if err := a.Connect(ctx, s.Factory, s.Prompter); err != nil {
			return err
		}
		if err := s.addPrograms(ctx, tree, a); err != nil {
			return err
		}
	}
	return s.addAccounts(ctx, tree, false)
}

// addTrackers creates trackers until the user declines. With first set the
// first tracker is not optional.
func (s *Session) addTrackers(ctx context.Context, tree *config.Tree, first bool) error {
	for {
		if !first {
			more, err := s.Prompter.Confirm("Add a tracker?", false)
			if err != nil || !more {
				return err
			}
		}
		first = false

		tr, err := s.newTracker(ctx, tree)
		if err != nil {
			return err
		}
		if err := tree.AddTracker(tr); err != nil {
			return err
		}
		logging.UserSuccess("Tracker %s added", tr.Name)
	}
}

func (s *Session) newTracker(ctx context.Context, tree *config.Tree) (*config.Tracker, error) {
	name, err := s.askName("Tracker name:", func(n string) bool { return tree.HasTracker(n) })
	if err != nil {
		return nil, err
	}
	types := s.Registry.Types()
	labels := make([]string, len(types))
	for i, t := range types {
		labels[i] = registry.DisplayName(t)
	}
	i, err := s.Prompter.Choose("Tracker type:", labels)
	if err != nil {
		return nil, err
	}
	return config.TrackerFromInteractiveSession(ctx, s.Registry, s.Prompter, name, types[i], s.Mode)
}

func (s *Session) addAccounts(ctx context.Context, tree *config.Tree, first bool) error {
	for {
		if !first {
			more, err := s.Prompter.Confirm("Add a platform account?", false)
			if err != nil || !more {
				return err
			}
		}
		first = false

		name, err := s.askName("Account name:", func(n string) bool {
			_, ok := tree.Account(n)
			return ok
		})
		if err != nil {
			return err
		}
		a, err := config.AccountFromInteractiveSession(s.Prompter, name, s.Mode)
		if err != nil {
			return err
		}
		if err := a.Connect(ctx, s.Factory, s.Prompter); err != nil {
			return err
		}
		if err := s.addPrograms(ctx, tree, a); err != nil {
			return err
		}
		if err := tree.AddAccount(a); err != nil {
			return err
		}
		logging.UserSuccess("Account %s added", a.Name)
	}
}

// addPrograms adds programs to a connected account until the user declines.
// Each program is checked against the platform before being linked.
func (s *Session) addPrograms(ctx context.Context, tree *config.Tree, a *config.Account) error {
	for {
		slug, err := s.Prompter.Ask(fmt.Sprintf("Program handle for %s (empty to finish):", a.Name), "")
		if err != nil {
			return err
		}
		slug = strings.TrimSpace(slug)
		if slug == "" {
			return nil
		}
		if a.Program(slug) != nil {
			logging.UserWarning("Program %s is already configured", slug)
			continue
		}
		if err := a.CheckProgram(ctx, slug); err != nil {
			if errors.GetExitCode(err) != errors.ExitProgramAccess {
				return err
			}
			logging.UserWarning("%v", err)
			continue
		}

		names, err := s.pickTrackers(tree, slug)
		if err != nil {
			return err
		}
		a.Programs = append(a.Programs, &config.Program{Slug: slug, Trackers: names})
		logging.UserSuccess("Program %s linked to %s", slug, strings.Join(names, ", "))
	}
}

func (s *Session) pickTrackers(tree *config.Tree, slug string) ([]string, error) {
	names := tree.TrackerNames()
	if len(names) == 0 {
		return nil, errors.SchemaViolation(fmt.Sprintf("program %s: no tracker configured", slug))
	}
	s.Prompter.Show(fmt.Sprintf("Trackers:\n%s", tui.Enumerate(names)))
	for range config.MaxAttempts {
		answer, err := s.Prompter.Ask(fmt.Sprintf("Trackers for %s (indices, empty for all):", slug), "")
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(answer) == "" {
			return names, nil
		}
		idx, err := parseIndices(answer, len(names))
		if err != nil {
			logging.UserWarning("Invalid selection: %v", err)
			continue
		}
		out := make([]string, len(idx))
		for i, n := range idx {
			out[i] = names[n]
		}
		return out, nil
	}
	return nil, errors.ValidationError(fmt.Sprintf("program %s: no valid tracker selection", slug))
}

func (s *Session) askName(label string, taken func(string) bool) (string, error) {
	for range config.MaxAttempts {
		name, err := s.Prompter.Ask(label, "")
		if err != nil {
			return "", err
		}
		name = strings.TrimSpace(name)
		if err := config.ValidateName(name); err != nil {
			logging.UserWarning("%v", err)
			continue
		}
		if taken(name) {
			logging.UserWarning("%s is already in use", name)
			continue
		}
		return name, nil
	}
	return "", errors.ValidationError(fmt.Sprintf("no valid answer for %q", strings.TrimSuffix(label, ":")))
}
