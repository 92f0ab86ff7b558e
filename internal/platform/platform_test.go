package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firefly-engineering/bountybridge/internal/errors"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func newTestClient(t *testing.T, mux *http.ServeMux, mfa bool) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	creds := Credentials{APIURL: srv.URL + "/v1/", Login: "alice", Password: "pw"}
	if mfa {
		creds.MFASecret = testSecret
	}
	c := NewHTTPClient(creds).(*HTTPClient)
	c.HTTP = srv.Client()
	c.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "hackerone.com", Domain("https://api.hackerone.com/v1"))
	assert.Equal(t, "bugs.example.com", Domain("https://bugs.example.com/api"))
	assert.Equal(t, "", Domain("not a url"))
	assert.Equal(t, "https://hackerone.com/reports/42", ReportURL(DefaultAPIURL, "42"))
}

func TestHTTPClient_Authenticate(t *testing.T) {
	want, err := totp.GenerateCode(testSecret, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/me", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "pw" || r.Header.Get("X-OTP") != want {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"data":{"id":"7","type":"user"}}`))
	})

	c := newTestClient(t, mux, true)
	assert.NoError(t, c.Authenticate(context.Background()))

	c.Credentials.Password = "wrong"
	err = c.Authenticate(context.Background())
	assert.True(t, errors.Is(err, errors.ErrUnauthorized), "got %v", err)
}

func TestHTTPClient_Program(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/programs/acme", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"12","type":"program","attributes":{"handle":"acme","name":"Acme Corp"}}}`))
	})

	c := newTestClient(t, mux, false)
	p, err := c.Program(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, &Program{ID: "12", Handle: "acme", Name: "Acme Corp"}, p)

	_, err = c.Program(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
}

func TestHTTPClient_ReportsPaginates(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/reports", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "acme", r.URL.Query().Get("filter[program][]"))
		page := map[string]any{
			"data": []map[string]any{{"id": "1", "type": "report", "attributes": map[string]any{"title": "first"}}},
			"links": map[string]any{"next": srvURL + "/v1/reports/page2"},
		}
		json.NewEncoder(w).Encode(page)
	})
	mux.HandleFunc("GET /v1/reports/page2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"2","type":"report","attributes":{"title":"second"}}],"links":{}}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	c := NewHTTPClient(Credentials{APIURL: srv.URL + "/v1", Login: "a", Password: "b"}).(*HTTPClient)
	c.HTTP = srv.Client()

	reports, err := c.Reports(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "first", reports[0].Title())
	assert.Equal(t, "2", reports[1].ID())
}

func TestReport_Attr(t *testing.T) {
	var res resource
	payload := `{
		"id": "99",
		"type": "report",
		"attributes": {"title": "XSS", "state": "triaged", "disclosed_at": null},
		"relationships": {
			"severity": {"data": {"id": "5", "type": "severity", "attributes": {"rating": "high", "score": 7.456}}},
			"weakness": {"data": null},
			"attachments": {"data": [{"id": "a1", "type": "attachment", "attributes": {"file_name": "poc.png"}}]}
		}
	}`
	require.NoError(t, json.Unmarshal([]byte(payload), &res))
	r := &Report{res: res}

	tests := []struct {
		name   string
		want   any
		wantOK bool
	}{
		{"id", "99", true},
		{"title", "XSS", true},
		{"disclosed_at", nil, false},
		{"weakness", nil, false},
		{"nope", nil, false},
	}
	for _, tt := range tests {
		got, ok := r.Attr(tt.name)
		assert.Equal(t, tt.wantOK, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	sev, ok := r.Attr("severity")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"id": "5", "rating": "high", "score": 7.456}, sev)

	att, ok := r.Attr("attachments")
	require.True(t, ok)
	assert.Equal(t, []any{map[string]any{"id": "a1", "file_name": "poc.png"}}, att)
}

func TestMockClient(t *testing.T) {
	m := NewMockClient()
	m.Programs["acme"] = []*Report{NewReport("1", map[string]any{"title": "t"})}

	c := m.Factory()(Credentials{Login: "bob"})
	require.NoError(t, c.Authenticate(context.Background()))
	assert.Equal(t, "bob", m.Credentials.Login)

	_, err := c.Program(context.Background(), "other")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	reports, err := c.Reports(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, []string{"Authenticate", "Program other", "Reports acme"}, m.CallLog)
}
