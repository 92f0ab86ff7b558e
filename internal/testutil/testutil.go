// Package testutil provides test utilities for integration tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/bountybridge/internal/app"
	"github.com/firefly-engineering/bountybridge/internal/config"
	"github.com/firefly-engineering/bountybridge/internal/platform"
	"github.com/firefly-engineering/bountybridge/internal/registry"
	"github.com/firefly-engineering/bountybridge/internal/system"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

// MockTrackerType is the tracker type the fixtures use.
const MockTrackerType = "mock"

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	Paths    *config.Paths
	Tracker  tracker.MockType
	Platform *platform.MockClient
	Prompter *tui.ScriptedPrompter
	App      *app.App
	cleanup  func()
}

// NewTestEnv creates a test environment with a mock tracker type, a mock
// platform and a scripted prompter. The document and ledger live in a
// temporary directory.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	paths := config.NewPaths(filepath.Join(tmpDir, "bountybridge.yaml"), filepath.Join(tmpDir, "state"))

	mock := tracker.NewMockType(MockTrackerType)
	reg := registry.New()
	if err := reg.Register(mock); err != nil {
		t.Fatalf("Failed to register mock tracker type: %v", err)
	}

	pm := platform.NewMockClient()
	prompter := tui.NewScriptedPrompter()

	testApp := app.New(
		app.WithPaths(paths),
		app.WithRegistry(reg),
		app.WithPrompter(prompter),
		app.WithFS(system.DefaultFS()),
		app.WithPlatformFactory(pm.Factory()),
	)

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(testApp)

	env := &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		Paths:    paths,
		Tracker:  mock,
		Platform: pm,
		Prompter: prompter,
		App:      testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
	t.Cleanup(env.Cleanup)

	return env
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// Answer queues prompter answers.
func (e *TestEnv) Answer(answers ...string) {
	e.Prompter.Answers = append(e.Prompter.Answers, answers...)
}

// WriteFixture copies a document fixture to the configured document path.
func (e *TestEnv) WriteFixture(name string) {
	e.T.Helper()

	data, err := LoadFixture(name)
	if err != nil {
		e.T.Fatalf("Failed to load fixture %s: %v", name, err)
	}
	if err := os.WriteFile(e.Paths.ConfigFile, data, 0600); err != nil {
		e.T.Fatalf("Failed to write document: %v", err)
	}
}

// AddPrograms makes programs accessible on the mock platform.
func (e *TestEnv) AddPrograms(slugs ...string) {
	for _, slug := range slugs {
		if _, ok := e.Platform.Programs[slug]; !ok {
			e.Platform.Programs[slug] = nil
		}
	}
}

// AddReport adds a report to a program of the mock platform.
func (e *TestEnv) AddReport(program, id string, attributes map[string]any) {
	e.Platform.Programs[program] = append(e.Platform.Programs[program], platform.NewReport(id, attributes))
}

// Document loads the document at the configured path.
func (e *TestEnv) Document() *config.Document {
	e.T.Helper()

	doc, err := e.App.Store().Load(e.Paths.ConfigFile)
	if err != nil {
		e.T.Fatalf("Failed to load document: %v", err)
	}
	return doc
}

// DocumentExists reports whether a document was written.
func (e *TestEnv) DocumentExists() bool {
	return e.App.Store().Exists(e.Paths.ConfigFile)
}
