package config

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/platform"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

func testAccountDoc() AccountDocument {
	return AccountDocument{
		Login:      "alice",
		APIURL:     "https://api.hackerone.com/v1",
		MFAEnabled: true,
		Password:   "pw",
		MFASecret:  "JBSWY3DPEHPK3PXP",
		Programs: []ProgramDocument{
			{Slug: "acme", Trackers: []string{"a"}},
			{Slug: "globex", Trackers: []string{"a", "gone"}},
		},
	}
}

func TestAccountFromDocument(t *testing.T) {
	a, warnings, err := AccountFromDocument("main", testAccountDoc(), NonInteractive, knownSet("a"))
	require.NoError(t, err)

	assert.Equal(t, "alice", a.Login)
	assert.Equal(t, "pw", a.Password)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", a.MFASecret)
	require.Len(t, a.Programs, 2)
	assert.Equal(t, []string{"a"}, a.Programs[1].Trackers)
	require.Len(t, warnings, 1)
	assert.Equal(t, "gone", warnings[0].Tracker)
}

func TestAccountFromDocument_Interactive(t *testing.T) {
	a, _, err := AccountFromDocument("main", testAccountDoc(), Interactive, knownSet("a"))
	require.NoError(t, err)
	assert.Empty(t, a.Password)
	assert.Empty(t, a.MFASecret)
	assert.True(t, a.SecretsPresentButNotAllowed)
}

func TestAccountFromDocument_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AccountDocument)
		mode   Mode
		keys   []string
	}{
		{"missing login", func(d *AccountDocument) { d.Login = "" }, Interactive, []string{"login"}},
		{"missing secrets", func(d *AccountDocument) { d.Password = ""; d.MFASecret = "" }, NonInteractive, []string{"mfa_secret", "password"}},
		{"bad url", func(d *AccountDocument) { d.APIURL = "::not a url" }, Interactive, nil},
		{"duplicate program", func(d *AccountDocument) { d.Programs = append(d.Programs, d.Programs[0]) }, Interactive, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testAccountDoc()
			tt.mutate(&doc)
			_, _, err := AccountFromDocument("main", doc, tt.mode, knownSet("a"))
			require.Error(t, err)
			assert.Equal(t, errors.ExitValidation, errors.GetExitCode(err))
			if tt.keys != nil {
				var missing *errors.MissingKeysError
				require.True(t, errors.As(err, &missing), "got %v", err)
				assert.Equal(t, tt.keys, missing.Keys)
			}
		})
	}
}

func TestAccountFromDocument_DefaultAPIURL(t *testing.T) {
	doc := testAccountDoc()
	doc.APIURL = ""
	a, _, err := AccountFromDocument("main", doc, Interactive, knownSet("a"))
	require.NoError(t, err)
	assert.Equal(t, platform.DefaultAPIURL, a.APIURL)
}

func TestAccount_Connect(t *testing.T) {
	a, _, err := AccountFromDocument("main", testAccountDoc(), NonInteractive, knownSet("a"))
	require.NoError(t, err)

	mock := platform.NewMockClient()
	mock.Programs["acme"] = nil
	mock.Programs["globex"] = nil

	require.NoError(t, a.Connect(context.Background(), mock.Factory(), nil))
	assert.Equal(t, "JBSWY3DPEHPK3PXP", mock.Credentials.MFASecret)
	assert.Equal(t, []string{"Authenticate", "Program acme", "Program globex"}, mock.CallLog)
	assert.NotNil(t, a.Client())
}

func TestAccount_ConnectProgramNotFound(t *testing.T) {
	a, _, err := AccountFromDocument("main", testAccountDoc(), NonInteractive, knownSet("a"))
	require.NoError(t, err)

	mock := platform.NewMockClient()
	mock.Programs["acme"] = nil

	err = a.Connect(context.Background(), mock.Factory(), nil)
	require.Error(t, err)
	assert.Equal(t, errors.ExitProgramAccess, errors.GetExitCode(err))
	assert.Contains(t, err.Error(), "globex")
}

func TestAccount_ConnectInteractiveRetry(t *testing.T) {
	a, _, err := AccountFromDocument("main", testAccountDoc(), Interactive, knownSet("a"))
	require.NoError(t, err)

	mock := platform.NewMockClient()
	mock.Programs["acme"] = nil
	mock.Programs["globex"] = nil
	mock.SetError("Authenticate", fmt.Errorf("rejected: %w", errors.ErrUnauthorized))

	// password and MFA secret per attempt
	p := tui.NewScriptedPrompter("p1", "s1", "p2", "s2", "p3", "s3")
	err = a.Connect(context.Background(), mock.Factory(), p)
	require.Error(t, err)
	assert.Equal(t, errors.ExitLoginFailed, errors.GetExitCode(err))
	assert.Zero(t, p.Remaining())
	assert.Equal(t, "p3", mock.Credentials.Password)
}

func TestAccountFromInteractiveSession(t *testing.T) {
	p := tui.NewScriptedPrompter("alice", "", "n")
	a, err := AccountFromInteractiveSession(p, "main", Interactive)
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Login)
	assert.Equal(t, platform.DefaultAPIURL, a.APIURL)
	assert.False(t, a.MFAEnabled)
	assert.Empty(t, a.Password)

	p = tui.NewScriptedPrompter("bob", "https://bugs.test/api", "y", "pw", "seed")
	a, err = AccountFromInteractiveSession(p, "other", NonInteractive)
	require.NoError(t, err)
	assert.Equal(t, "pw", a.Password)
	assert.Equal(t, "seed", a.MFASecret)
}

func TestAccount_ToDocument(t *testing.T) {
	reg, _ := newTestRegistry(t)
	tree := NewTree(Interactive)
	tr, err := TrackerFromDocument(reg, "a", "mock", rawTracker("p"), Interactive)
	require.NoError(t, err)
	require.NoError(t, tree.AddTracker(tr))

	a, _, err := AccountFromDocument("main", testAccountDoc(), Interactive, knownSet("a"))
	require.NoError(t, err)
	a.Programs[0].Link("orphan")

	doc, warnings := a.ToDocument(tree)
	assert.Empty(t, doc.Password)
	assert.Equal(t, []string{"a"}, doc.Programs[0].Trackers)
	require.Len(t, warnings, 1)
	assert.Equal(t, "orphan", warnings[0].Tracker)
}
