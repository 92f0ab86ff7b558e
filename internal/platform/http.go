package platform

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/firefly-engineering/bountybridge/internal/tracker"
)

// maxPages bounds report pagination.
const maxPages = 100

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	HTTP        tracker.HTTPDoer
	Credentials Credentials

	// Now returns the time used for TOTP codes.
	Now func() time.Time
}

// NewHTTPClient creates a client for creds. It has the signature of a
// Factory.
func NewHTTPClient(creds Credentials) Client {
	if creds.APIURL == "" {
		creds.APIURL = DefaultAPIURL
	}
	creds.APIURL = strings.TrimRight(creds.APIURL, "/")
	return &HTTPClient{
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		Credentials: creds,
		Now:         time.Now,
	}
}

func (c *HTTPClient) header() (http.Header, error) {
	h := http.Header{}
	auth := c.Credentials.Login + ":" + c.Credentials.Password
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
	if c.Credentials.MFASecret != "" {
		code, err := totp.GenerateCode(c.Credentials.MFASecret, c.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to generate one-time code: %w", err)
		}
		h.Set("X-OTP", code)
	}
	return h, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, out any) error {
	h, err := c.header()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = c.Credentials.APIURL + endpoint
	}
	return tracker.DoJSON(ctx, c.HTTP, http.MethodGet, endpoint, h, nil, out)
}

func (c *HTTPClient) Authenticate(ctx context.Context) error {
	var me struct {
		Data resource `json:"data"`
	}
	if err := c.get(ctx, "/me", &me); err != nil {
		return err
	}
	if me.Data.ID == "" {
		return fmt.Errorf("malformed identity response")
	}
	return nil
}

func (c *HTTPClient) Program(ctx context.Context, slug string) (*Program, error) {
	var resp struct {
		Data resource `json:"data"`
	}
	if err := c.get(ctx, "/programs/"+url.PathEscape(slug), &resp); err != nil {
		return nil, err
	}
	p := &Program{ID: resp.Data.ID, Handle: slug}
	if v, ok := resp.Data.Attributes["handle"].(string); ok && v != "" {
		p.Handle = v
	}
	if v, ok := resp.Data.Attributes["name"].(string); ok {
		p.Name = v
	}
	return p, nil
}

func (c *HTTPClient) Reports(ctx context.Context, slug string) ([]*Report, error) {
	q := url.Values{}
	q.Set("filter[program][]", slug)
	q.Set("page[size]", "100")
	q.Set("sort", "reports.created_at")
	next := "/reports?" + q.Encode()

	var reports []*Report
	for page := 0; next != "" && page < maxPages; page++ {
		var resp struct {
			Data  []resource `json:"data"`
			Links struct {
				Next string `json:"next"`
			} `json:"links"`
		}
		if err := c.get(ctx, next, &resp); err != nil {
			return nil, fmt.Errorf("failed to list reports of %s: %w", slug, err)
		}
		for _, res := range resp.Data {
			reports = append(reports, &Report{res: res})
		}
		next = resp.Links.Next
	}
	return reports, nil
}
