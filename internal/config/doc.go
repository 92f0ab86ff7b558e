// Package config holds the in-memory configuration tree and its document
// form.
//
// # Configuration Tree
//
// A Tree owns two collections:
//
//   - Trackers: named, typed issue tracker configurations. The type selects
//     an implementation in the registry, whose schema decides which keys are
//     mandatory, secret or optional.
//   - Accounts: bug bounty platform credentials, each owning the programs it
//     imports from.
//
// Programs refer to trackers by name only:
//
//	type Program struct {
//	    Slug     string   // Platform program handle
//	    Trackers []string // Names of trackers receiving its reports
//	}
//
// Removing a tracker with cascade leaves the references of other programs
// dangling. They are reported as ReferentialWarning values and dropped when
// the tree is pruned or serialized.
//
// # Documents
//
// A Document is read from YAML or TOML, picked by file extension:
//
//	trackers:
//	  gh:
//	    type: github
//	    project: acme/app
//	    token: ${GITHUB_TOKEN}
//	accounts:
//	  main:
//	    login: alice
//	    programs:
//	      - slug: acme
//	        trackers: [gh]
//
// ${VAR} references to set environment variables are expanded when trackers
// and accounts are built, and written back unchanged on save.
//
// # Modes
//
// In Interactive mode secrets are never written to disk and missing values are
// prompted for. NonInteractive mode requires every secret in the document.
package config
