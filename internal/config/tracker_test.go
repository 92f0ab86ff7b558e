package config

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/bountybridge/internal/errors"
	"github.com/firefly-engineering/bountybridge/internal/tracker"
	"github.com/firefly-engineering/bountybridge/internal/tui"
)

func TestTrackerFromDocument(t *testing.T) {
	reg, mock := newTestRegistry(t)

	tr, err := TrackerFromDocument(reg, "yt", "mock", rawTracker("SEC", "token", "t0k"), NonInteractive)
	require.NoError(t, err)

	assert.Equal(t, "SEC", tr.Project())
	v, _ := tr.Value("url")
	assert.Equal(t, "https://tracker.test", v, "defaults applied")
	assert.Equal(t, tracker.DefaultTitleTemplate, tr.Template(tracker.TitleTemplateKey))
	assert.False(t, tr.SecretsPresentButNotAllowed)
	assert.Nil(t, tr.Client())
	assert.Zero(t, *mock.Created, "no client before Connect")
}

func TestTrackerFromDocument_MissingKeys(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		mode Mode
		want []string
	}{
		{"missing project interactive", map[string]any{}, Interactive, []string{"project"}},
		{"missing project and token", map[string]any{"url": "x"}, NonInteractive, []string{"project", "token"}},
		{"missing token only", map[string]any{"project": "p"}, NonInteractive, []string{"token"}},
		{"empty project", map[string]any{"project": "", "token": "t"}, NonInteractive, []string{"project"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, mock := newTestRegistry(t)
			_, err := TrackerFromDocument(reg, "yt", "mock", tt.raw, tt.mode)
			require.Error(t, err)

			var missing *errors.MissingKeysError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tt.want, missing.Keys)
			assert.Contains(t, missing.Owner, "mock")
			assert.Zero(t, *mock.Created)
		})
	}
}

func TestTrackerFromDocument_SecretsIgnoredInteractively(t *testing.T) {
	reg, _ := newTestRegistry(t)

	tr, err := TrackerFromDocument(reg, "yt", "mock", rawTracker("SEC", "token", "leaked"), Interactive)
	require.NoError(t, err)
	assert.True(t, tr.SecretsPresentButNotAllowed)
	_, ok := tr.Value("token")
	assert.False(t, ok)
	assert.NotContains(t, tr.ToDocument(), "token")
}

func TestTrackerFromDocument_UnknownType(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := TrackerFromDocument(reg, "yt", "nope", nil, Interactive)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Equal(t, errors.ExitValidation, errors.GetExitCode(err))
}

func TestTrackerFromDocument_InvalidName(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := TrackerFromDocument(reg, "bad name", "mock", rawTracker("p"), Interactive)
	require.Error(t, err)
	assert.Equal(t, errors.ExitValidation, errors.GetExitCode(err))
}

func TestTracker_RoundTrip(t *testing.T) {
	for _, mode := range []Mode{Interactive, NonInteractive} {
		t.Run(mode.String(), func(t *testing.T) {
			reg, _ := newTestRegistry(t)
			raw := rawTracker("SEC", "token", "t0k", "url", "https://yt.test", tracker.TitleTemplateKey, "{{ .title }}")

			tr, err := TrackerFromDocument(reg, "yt", "mock", raw, mode)
			require.NoError(t, err)

			doc := tr.ToDocument()
			again, err := TrackerFromDocument(reg, "yt", "mock", doc, mode)
			require.NoError(t, err)

			assert.Equal(t, tr.Values(), again.Values())
			assert.Equal(t, doc, again.ToDocument())
			_, hasToken := doc["token"]
			assert.Equal(t, mode.PersistSecrets(), hasToken)
			assert.Equal(t, "mock", doc[TypeKey])
		})
	}
}

func TestTracker_Connect(t *testing.T) {
	reg, mock := newTestRegistry(t)
	mock.Client.Projects = map[string]bool{"SEC": true}

	tr, err := TrackerFromDocument(reg, "yt", "mock", rawTracker("SEC", "token", "t"), NonInteractive)
	require.NoError(t, err)

	require.NoError(t, tr.Connect(context.Background(), nil))
	assert.Same(t, mock.Client, tr.Client())
	assert.Equal(t, []string{"Authenticate", "GetProject"}, mock.Client.Calls())
}

func TestTracker_ConnectFailuresNonInteractive(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*tracker.MockClient)
		wantCode int
	}{
		{
			name:     "authentication",
			setup:    func(c *tracker.MockClient) { c.SetError("Authenticate", errors.ErrUnauthorized) },
			wantCode: errors.ExitLoginFailed,
		},
		{
			name:     "project not found",
			setup:    func(c *tracker.MockClient) { c.Projects = map[string]bool{} },
			wantCode: errors.ExitProgramAccess,
		},
		{
			name:     "project forbidden",
			setup:    func(c *tracker.MockClient) { c.SetError("GetProject", fmt.Errorf("x: %w", errors.ErrUnauthorized)) },
			wantCode: errors.ExitLoginFailed,
		},
		{
			name:     "client construction",
			setup:    func(c *tracker.MockClient) { c.SetError("NewClient", fmt.Errorf("bad url")) },
			wantCode: errors.ExitValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, mock := newTestRegistry(t)
			tt.setup(mock.Client)

			tr, err := TrackerFromDocument(reg, "yt", "mock", rawTracker("SEC", "token", "t"), NonInteractive)
			require.NoError(t, err)

			p := tui.NewScriptedPrompter()
			err = tr.Connect(context.Background(), p)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetExitCode(err))
			assert.Contains(t, err.Error(), "yt")
			assert.Nil(t, tr.Client())
			assert.Empty(t, p.Transcript, "non-interactive sessions never prompt")
		})
	}
}

func TestTracker_ConnectRetriesInteractively(t *testing.T) {
	reg, mock := newTestRegistry(t)
	mock.Client.SetError("Authenticate", errors.ErrUnauthorized)

	tr, err := TrackerFromDocument(reg, "yt", "mock", rawTracker("SEC"), Interactive)
	require.NoError(t, err)

	p := tui.NewScriptedPrompter("bad1", "bad2", "bad3", "never-asked")
	err = tr.Connect(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, errors.ExitLoginFailed, errors.GetExitCode(err))
	assert.Equal(t, 1, p.Remaining(), "retries are capped")
	assert.Equal(t, MaxAttempts, *mock.Created)
}

func TestTracker_ConnectRecoversInteractively(t *testing.T) {
	reg, mock := newTestRegistry(t)
	mock.Client.Projects = map[string]bool{"SEC2": true}

	tr, err := TrackerFromDocument(reg, "yt", "mock", rawTracker("SEC"), Interactive)
	require.NoError(t, err)

	// token, then corrected project after the not-found failure, then token again
	p := tui.NewScriptedPrompter("tok", "SEC2", "tok")
	require.NoError(t, tr.Connect(context.Background(), p))
	assert.Equal(t, "SEC2", tr.Project())
	assert.Zero(t, p.Remaining())
	_, stored := tr.Value("token")
	assert.False(t, stored, "interactive secrets are not stored")
}

func TestTrackerFromInteractiveSession(t *testing.T) {
	reg, mock := newTestRegistry(t)

	// project, url (default), title template (default), then token
	p := tui.NewScriptedPrompter("SEC", "", "", "tok")
	tr, err := TrackerFromInteractiveSession(context.Background(), reg, p, "yt", "mock", Interactive)
	require.NoError(t, err)

	assert.Equal(t, "SEC", tr.Project())
	v, _ := tr.Value("url")
	assert.Equal(t, "https://tracker.test", v)
	assert.Equal(t, tracker.DefaultBodyTemplate, tr.Template(tracker.BodyTemplateKey))
	assert.NotNil(t, tr.Client())
	assert.Equal(t, 1, *mock.Created)
	assert.NotContains(t, tr.ToDocument(), "token")
}

func TestTrackerFromInteractiveSession_PersistsSecrets(t *testing.T) {
	reg, _ := newTestRegistry(t)

	p := tui.NewScriptedPrompter("SEC", "", "", "tok")
	tr, err := TrackerFromInteractiveSession(context.Background(), reg, p, "yt", "mock", NonInteractive)
	require.NoError(t, err)
	assert.Equal(t, "tok", tr.ToDocument()["token"])
}

func TestTrackerFromInteractiveSession_RequiresValues(t *testing.T) {
	reg, _ := newTestRegistry(t)

	p := tui.NewScriptedPrompter("", "", "")
	_, err := TrackerFromInteractiveSession(context.Background(), reg, p, "yt", "mock", Interactive)
	require.Error(t, err)
	assert.Contains(t, p.Output(), "A value is required.")
}
