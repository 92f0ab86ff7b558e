// Package errors provides typed errors with exit codes for bountybridge.
//
// # Error Types
//
// BridgeError is the base error type that wraps an error with an exit code:
//
//	type BridgeError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess         = 0    // Success
//	ExitGeneralError    = 1    // General/unknown errors, render failures
//	ExitLoginFailed     = 100  // Tracker or account authentication failed
//	ExitProgramAccess   = 110  // Project or program not accessible
//	ExitValidation      = 120  // Schema violations and plugin load failures
//	ExitDocumentMissing = 130  // Configuration document does not exist
//
// # Error Constructors
//
//	errors.MissingKeys("tracker gh (github)", []string{"project"})
//	errors.AuthenticationFailed("tracker", "gh", err)
//	errors.ProjectNotFound("tracker", "gh", "acme/app", err)
//	errors.RenderFailed(tmpl, err)
//
// Clients signal conditions with the ErrNotFound and ErrUnauthorized sentinels,
// which callers map onto the constructors above.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
