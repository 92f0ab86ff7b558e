package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for bountybridge
const (
	ExitSuccess         = 0
	ExitGeneralError    = 1
	ExitLoginFailed     = 100
	ExitProgramAccess   = 110
	ExitValidation      = 120
	ExitDocumentMissing = 130
)

// Sentinel conditions reported by tracker and platform clients.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// BridgeError is the base error type for bountybridge
type BridgeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *BridgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *BridgeError) ExitCode() int {
	return e.Code
}

// New creates a new BridgeError
func New(code int, message string) *BridgeError {
	return &BridgeError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a BridgeError
func Wrap(code int, message string, cause error) *BridgeError {
	return &BridgeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// MissingKeysError is a schema violation naming the keys absent from an entity.
type MissingKeysError struct {
	Owner string
	Keys  []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("%s: missing mandatory keys: %s", e.Owner, strings.Join(e.Keys, ", "))
}

// Common error constructors

// MissingKeys returns a schema violation for keys absent from a configuration entity.
func MissingKeys(owner string, keys []string) *BridgeError {
	return Wrap(ExitValidation, "invalid configuration", &MissingKeysError{Owner: owner, Keys: keys})
}

// SchemaViolation returns an error for any other malformed configuration.
func SchemaViolation(message string) *BridgeError {
	return New(ExitValidation, message)
}

// UnknownType returns an error when no tracker implementation declares typeID.
func UnknownType(typeID string) *BridgeError {
	return Wrap(ExitValidation, fmt.Sprintf("unknown tracker type %q", typeID), ErrNotFound)
}

// AmbiguousType returns an error when several implementations declare typeID.
func AmbiguousType(typeID string, count int) *BridgeError {
	return New(ExitValidation, fmt.Sprintf("tracker type %q is declared by %d implementations", typeID, count))
}

// AuthenticationFailed returns an error for rejected credentials on a tracker or account.
func AuthenticationFailed(kind, name string, cause error) *BridgeError {
	return Wrap(ExitLoginFailed, fmt.Sprintf("%s %s: authentication failed", kind, name), cause)
}

// ProjectNotFound returns an error when a tracker's project is not reachable.
func ProjectNotFound(kind, name, project string, cause error) *BridgeError {
	return Wrap(ExitProgramAccess, fmt.Sprintf("%s %s: project %q not accessible", kind, name, project), cause)
}

// ProgramNotFound returns an error when an account cannot access a program.
func ProgramNotFound(account, slug string, cause error) *BridgeError {
	return Wrap(ExitProgramAccess, fmt.Sprintf("account %s: program %q not accessible", account, slug), cause)
}

// PathNotFound returns an error for a missing plugin search path.
func PathNotFound(path string) *BridgeError {
	return New(ExitValidation, fmt.Sprintf("plugin search path not found: %s", path))
}

// PluginLoadFailed returns an error for a plugin module that could not be loaded.
func PluginLoadFailed(module string, cause error) *BridgeError {
	return Wrap(ExitValidation, fmt.Sprintf("failed to load plugin module %s", module), cause)
}

// RenderFailed returns an error for a template that could not be rendered.
func RenderFailed(template string, cause error) *BridgeError {
	return Wrap(ExitGeneralError, fmt.Sprintf("failed to render template %q", template), cause)
}

// DocumentNotFound returns an error for a missing configuration document.
func DocumentNotFound(path string) *BridgeError {
	return New(ExitDocumentMissing, fmt.Sprintf("configuration document not found: %s", path))
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *BridgeError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var bridgeErr *BridgeError
	if errors.As(err, &bridgeErr) {
		return bridgeErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
