// Package app provides the application context for bountybridge.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Paths           *config.Paths      // Document and state paths
//	    Registry        *registry.Registry // Tracker types
//	    Prompter        tui.Prompter       // User input
//	    FS              system.FileSystem  // Document and ledger storage
//	    Loader          *plugin.Loader     // Plugin tracker types
//	    PlatformFactory platform.Factory   // Bug bounty platform clients
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithFS(system.NewMockFS()),
//	    app.WithPrompter(tui.NewScriptedPrompter("y")),
//	    app.WithPlatformFactory(mock.Factory()),
//	)
//
// # Available Options
//
//	WithPaths(paths)           // Custom path configuration
//	WithRegistry(reg)          // Custom tracker registry
//	WithPrompter(p)            // Custom prompter
//	WithFS(fs)                 // Custom file system
//	WithLoader(loader)         // Custom plugin loader
//	WithPlatformFactory(f)     // Custom platform client factory
package app
