// Package logging provides logging utilities for bountybridge.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("resolving tracker", "name", name, "type", typeID)
//	logging.Warn("dangling tracker reference", "program", slug, "tracker", ref)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Connecting tracker %s...", name)
//	logging.UserSuccess("Configuration saved to %s", path)
//	logging.UserWarning("Tracker %s is not defined, dropping it", name)
//	logging.UserError("Failed to render report %s: %v", id, err)
//
// Output destinations:
//   - UserInfo, UserSuccess: Stdout (os.Stdout by default)
//   - UserWarning, UserError: Stderr (os.Stderr by default)
//
// # Status Indicators
//
// User functions prepend status indicators styled with lipgloss:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
