package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/system"
)

func TestStore_LoadMissing(t *testing.T) {
	s := &Store{FS: system.NewMockFS()}
	_, err := s.Load("/etc/bountybridge.yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ExitDocumentMissing, errors.GetExitCode(err))
}

func TestStore_SaveLoad(t *testing.T) {
	fs := system.NewMockFS()
	s := &Store{FS: fs}
	doc := &Document{Trackers: map[string]map[string]any{"gh": {"type": "github", "project": "acme/app"}}}

	require.NoError(t, s.Save("/home/alice/.config/bb/bountybridge.yaml", doc))
	assert.True(t, fs.IsDir("/home/alice/.config/bb"))

	info, err := fs.Stat("/home/alice/.config/bb/bountybridge.yaml")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().String())

	got, err := s.Load("/home/alice/.config/bb/bountybridge.yaml")
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.True(t, s.Exists("/home/alice/.config/bb/bountybridge.yaml"))
}

func TestStore_SaveKeepsEnvironmentReferences(t *testing.T) {
	t.Setenv("GH_TOKEN", "s3cr3t")
	t.Setenv("BB_PASSWORD", "hunter2")
	reg, _ := newTestRegistry(t)

	fs := system.NewMockFS()
	fs.AddFile("/etc/bb.yaml", []byte(`trackers:
  gh:
    type: mock
    project: acme/app
    token: ${GH_TOKEN}
accounts:
  main:
    login: alice
    password: ${BB_PASSWORD}
`), 0600)
	s := &Store{FS: fs}

	doc, err := s.Load("/etc/bb.yaml")
	require.NoError(t, err)
	tree, _, err := TreeFromDocument(reg, doc, NonInteractive)
	require.NoError(t, err)

	gh, ok := tree.Tracker("gh")
	require.True(t, ok)
	token, _ := gh.Value("token")
	assert.Equal(t, "s3cr3t", token)
	acct, ok := tree.Account("main")
	require.True(t, ok)
	assert.Equal(t, "hunter2", acct.Password)

	out, _ := tree.ToDocument()
	require.NoError(t, s.Save("/etc/bb.yaml", out))

	data, err := fs.ReadFile("/etc/bb.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "${GH_TOKEN}")
	assert.Contains(t, string(data), "${BB_PASSWORD}")
	assert.NotContains(t, string(data), "s3cr3t")
	assert.NotContains(t, string(data), "hunter2")
}

func TestStore_LoadInvalid(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/c.yaml", []byte("trackers: [x"), 0600)
	_, err := (&Store{FS: fs}).Load("/c.yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ExitValidation, errors.GetExitCode(err))
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"gh", "jira-main", "team.tracker_2"} {
		assert.NoError(t, ValidateName(name), name)
	}
	for _, name := range []string{"", "-lead", "has space", "slash/name"} {
		assert.Error(t, ValidateName(name), name)
	}
}

func TestNewPaths(t *testing.T) {
	p := NewPaths("conf.toml", "/var/lib/bb")
	assert.Equal(t, "/var/lib/bb/imports.jsonl", p.LedgerFile)

	t.Setenv(ConfigEnvVar, "/etc/bb.yaml")
	assert.Equal(t, "/etc/bb.yaml", DefaultPaths().ConfigFile)
}
