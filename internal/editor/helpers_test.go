package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/bountybridge/internal/config"
	"github.com/firefly-engineering/bountybridge/internal/registry"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Register(tracker.NewMockType("mock")))
	return reg
}

// newTree builds a tree with the given trackers and programs of one
// account called main.
func newTree(t *testing.T, trackers []string, programs map[string][]string) *config.Tree {
	t.Helper()
	doc := &config.Document{
		Trackers: make(map[string]map[string]any),
		Accounts: map[string]config.AccountDocument{
			"main": {Login: "alice", APIURL: "https://api.hackerone.com/v1"},
		},
	}
	for _, name := range trackers {
		doc.Trackers[name] = map[string]any{config.TypeKey: "mock", "project": "P-" + name}
	}
	acc := doc.Accounts["main"]
	for _, slug := range []string{"acme", "globex", "initech"} {
		if names, ok := programs[slug]; ok {
			acc.Programs = append(acc.Programs, config.ProgramDocument{Slug: slug, Trackers: names})
		}
	}
	doc.Accounts["main"] = acc

	tree, _, err := config.TreeFromDocument(newRegistry(t), doc, config.Interactive)
	require.NoError(t, err)
	return tree
}

func program(t *testing.T, tree *config.Tree, slug string) *config.Program {
	t.Helper()
	acc, ok := tree.Account("main")
	require.True(t, ok)
	p := acc.Program(slug)
	require.NotNil(t, p, "program %s", slug)
	return p
}
