// Package platform talks to the bug-bounty platform reports are imported from.
//
// The HTTP client speaks the platform's JSON:API flavoured REST API using
// basic authentication. Accounts with MFA enabled send a fresh TOTP code in
// the X-OTP header of every request.
package platform

import (
	"context"
	"net/url"
	"strings"
)

// DefaultAPIURL is the public platform API endpoint.
const DefaultAPIURL = "https://api.hackerone.com/v1"

// Credentials identifies an account on the platform.
type Credentials struct {
	APIURL    string
	Login     string
	Password  string
	MFASecret string
}

// Program is a bug-bounty program visible to an account.
type Program struct {
	ID     string
	Handle string
	Name   string
}

// Client is the subset of the platform API used by bountybridge.
type Client interface {
	// Authenticate checks the credentials.
	Authenticate(ctx context.Context) error

	// Program returns the program with the given handle.
	Program(ctx context.Context, slug string) (*Program, error)

	// Reports returns every report of a program, oldest first.
	Reports(ctx context.Context, slug string) ([]*Report, error)
}

// Factory creates a client for a set of credentials.
type Factory func(Credentials) Client

// Domain returns the web domain of the platform behind apiURL, which is also
// the domain of the redirect links embedded in report bodies.
func Domain(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "api.")
}

// ReportURL returns the web URL of a report.
func ReportURL(apiURL, id string) string {
	domain := Domain(apiURL)
	if domain == "" {
		return ""
	}
	return "https://" + domain + "/reports/" + id
}
