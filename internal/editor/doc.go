// Package editor implements the interactive edit session behind the
// configure command.
//
// An Editor moves through Clean, Editing, Reconciling and finally Persisted
// or Discarded. During reconciliation every program is visited once and the
// user picks which trackers it keeps, by index:
//
//	Trackers of acme:
//	  1. github
//	  2. jira (missing)
//	Trackers to keep for acme (indices, empty keeps all, "none" wipes everything): 1
//
// Dropped trackers are only detached unless the user confirms deleting them
// from the configuration.
package editor
