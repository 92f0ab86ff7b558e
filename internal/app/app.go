// Package app provides the application context for bountybridge.
// It allows dependency injection for testing.
package app

import (
	"context"

	"github.com/firefly-engineering/bountybridge/internal/config"
	"github.com/firefly-engineering/bountybridge/internal/editor"
	"github.com/firefly-engineering/bountybridge/internal/ledger"
	"github.com/firefly-engineering/bountybridge/internal/logging"
	"github.com/firefly-engineering/bountybridge/internal/platform"
	"github.com/firefly-engineering/bountybridge/internal/plugin"
	"github.com/firefly-engineering/bountybridge/internal/registry"
	"github.com/firefly-engineering/bountybridge/internal/system"
	"github.com/firefly-engineering/bountybridge/internal/tracker/github"
	"github.com/firefly-engineering/bountybridge/internal/tracker/gitlab"
	"github.com/firefly-engineering/bountybridge/internal/tracker/jira"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *config.Paths

	// Registry holds the tracker types, compiled-in and plugin-provided
	Registry *registry.Registry

	// Prompter asks the user for input
	Prompter tui.Prompter

	// FS is the file system the document and the ledger live on
	FS system.FileSystem

	// Loader loads plugin tracker types
	Loader *plugin.Loader

	// PlatformFactory creates bug bounty platform clients
	PlatformFactory platform.Factory
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *config.Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithRegistry sets a custom tracker registry. Built-in types are not added.
func WithRegistry(reg *registry.Registry) Option {
	return func(a *App) {
		a.Registry = reg
	}
}

// WithPrompter sets a custom prompter
func WithPrompter(p tui.Prompter) Option {
	return func(a *App) {
		a.Prompter = p
	}
}

// WithFS sets a custom file system
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithLoader sets a custom plugin loader
func WithLoader(l *plugin.Loader) Option {
	return func(a *App) {
		a.Loader = l
	}
}

// WithPlatformFactory sets a custom platform client factory
func WithPlatformFactory(f platform.Factory) Option {
	return func(a *App) {
		a.PlatformFactory = f
	}
}

// New creates a new App with the given options.
// Dependencies not provided are set to their production defaults.
func New(opts ...Option) *App {
	app := &App{
		Paths:           config.DefaultPaths(),
		FS:              system.DefaultFS(),
		PlatformFactory: platform.NewHTTPClient,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Registry == nil {
		app.Registry = BuiltinRegistry()
	}
	if app.Prompter == nil {
		app.Prompter = tui.NewTerminalPrompter()
	}
	if app.Loader == nil {
		app.Loader = plugin.NewLoader()
	}

	return app
}

// BuiltinRegistry returns a registry holding the compiled-in tracker types.
func BuiltinRegistry() *registry.Registry {
	reg := registry.New()
	for _, impl := range []registry.Implementation{github.Type{}, gitlab.Type{}, jira.Type{}} {
		if err := reg.Register(impl); err != nil {
			logging.Error("failed to register tracker type", "type", impl.TypeID(), "error", err)
		}
	}
	return reg
}

// Store returns the document store
func (a *App) Store() *config.Store {
	return &config.Store{FS: a.FS}
}

// Ledger returns the import ledger under the state directory
func (a *App) Ledger() *ledger.Ledger {
	return ledger.New(a.Paths.LedgerFile, a.FS)
}

// LoadTree loads the configuration document, registering its plugins first.
// Dangling references are reported and dropped.
func (a *App) LoadTree(ctx context.Context, mode config.Mode) (*config.Tree, error) {
	doc, err := a.Store().Load(a.Paths.ConfigFile)
	if err != nil {
		return nil, err
	}
	if len(doc.Plugins) > 0 {
		impls, err := a.Loader.Register(ctx, a.Registry, doc.ExpandedPlugins())
		if err != nil {
			return nil, err
		}
		logging.Debug("plugins registered", "count", len(impls))
	}

	tree, warnings, err := config.TreeFromDocument(a.Registry, doc, mode)
	for _, w := range warnings {
		w.Log()
	}
	return tree, err
}

// Session returns a configure session on the app's document
func (a *App) Session(mode config.Mode) *editor.Session {
	return &editor.Session{
		Registry: a.Registry,
		Prompter: a.Prompter,
		Store:    a.Store(),
		Loader:   a.Loader,
		Factory:  a.PlatformFactory,
		Path:     a.Paths.ConfigFile,
		Mode:     mode,
	}
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
