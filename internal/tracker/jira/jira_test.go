package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/bountybridge/internal/errors"
)

func TestSchemaIsValid(t *testing.T) {
	s := Type{}.Schema()
	require.NoError(t, s.Validate())
}

func TestClient_Flow(t *testing.T) {
	var created struct {
		Fields map[string]any `json:"fields"`
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/api/2/myself", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "sec@acme.test" || pass != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"accountId":"abc"}`))
	})
	mux.HandleFunc("GET /rest/api/2/project/{key}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("key") != "SEC" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errorMessages":["No project could be found"]}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"100","key":"SEC","name":"Security"}`))
	})
	mux.HandleFunc("POST /rest/api/2/issue", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&created)
		_, _ = w.Write([]byte(`{"id":"10001","key":"SEC-12"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	c, err := Type{}.NewClient(map[string]any{
		"project": "SEC", "url": srv.URL, "login": "sec@acme.test", "token": "tok", "issue_type": "Bug",
	})
	require.NoError(t, err)

	require.NoError(t, c.Authenticate(ctx))
	project, err := c.GetProject(ctx, "SEC")
	require.NoError(t, err)
	assert.Equal(t, "SEC", project.Name)

	_, err = c.GetProject(ctx, "NOPE")
	assert.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)

	issue, err := c.CreateIssue(ctx, "IDOR", "body", nil)
	require.NoError(t, err)
	assert.Equal(t, "SEC-12", c.IssueID(issue))
	assert.Equal(t, srv.URL+"/browse/SEC-12", c.IssueURL(issue))
	assert.Equal(t, "IDOR", created.Fields["summary"])
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := Type{}.NewClient(map[string]any{"project": "SEC", "url": srv.URL, "login": "sec@acme.test", "token": "old"})
	require.NoError(t, err)
	err = c.Authenticate(context.Background())
	assert.True(t, errors.Is(err, errors.ErrUnauthorized), "got %v", err)
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := Type{}.NewClient(map[string]any{"project": "SEC", "token": "tok"})
	assert.Error(t, err)
}
