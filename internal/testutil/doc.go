// Package testutil provides test fixtures and utilities.
//
// # Fixtures
//
// Configuration documents are embedded using go:embed:
//
//	fixtures/valid.yaml     // two trackers, two programs
//	fixtures/valid.toml     // the TOML encoding
//	fixtures/dangling.yaml  // a program referencing a missing tracker
//	fixtures/invalid.yaml   // a tracker without a type
//
// Every fixture uses the "mock" tracker type, see tracker.NewMockType.
//
//	doc, err := testutil.ValidDocument()
//	data, err := testutil.LoadFixture("valid.toml")
//
// # Test Environment
//
// NewTestEnv installs an app.App whose document lives in a temporary
// directory, with a mock tracker type, a mock platform and a scripted
// prompter:
//
//	env := testutil.NewTestEnv(t)
//	env.WriteFixture("valid.yaml")
//	env.AddPrograms("acme", "globex")
//	env.Answer("n", "n", "n", "", "")
package testutil
