// Package jira implements the worklog ledger port on the Jira REST API v3.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/example/gapfill/internal/ports/secondary"
)

// User represents the authenticated Jira user.
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Issue represents a Jira issue as returned by a search.
type Issue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// SearchResult represents one page of a /search/jql response.
type SearchResult struct {
	Issues        []Issue `json:"issues"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
	IsLast        bool    `json:"isLast"`
}

// Worklog represents a single worklog of an issue.
type Worklog struct {
	ID               string          `json:"id"`
	Author           User            `json:"author"`
	Started          string          `json:"started"`
	TimeSpentSeconds int             `json:"timeSpentSeconds"`
	Comment          json.RawMessage `json:"comment"`
}

// WorklogPage represents one page of an issue's worklogs.
type WorklogPage struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Worklogs   []Worklog `json:"worklogs"`
}

// Client provides HTTP access to a Jira instance.
type Client struct {
	URL        string
	Username   string
	APIToken   string
	HTTPClient *http.Client

	// Location is the zone worklogs are started in. Defaults to time.Local.
	Location *time.Location

	mu sync.Mutex
	me *User
}

// NewClient creates a new Jira client.
func NewClient(url, username, apiToken string) *Client {
	return &Client{
		URL:      strings.TrimSuffix(url, "/"),
		Username: username,
		APIToken: apiToken,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Location: time.Local,
	}
}

// Myself returns the authenticated user. The result is cached.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.me != nil {
		return c.me, nil
	}

	body, err := c.doRequest(ctx, http.MethodGet, c.URL+"/rest/api/3/myself", nil)
	if err != nil {
		return nil, fmt.Errorf("get current user: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, malformed("user", err)
	}
	if user.AccountID == "" {
		return nil, fmt.Errorf("%w: user without accountId", secondary.ErrMalformedResponse)
	}
	c.me = &user
	return c.me, nil
}

// SearchIssues queries Jira using JQL and returns all matching issues,
// following nextPageToken until the last page.
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]Issue, error) {
	var allIssues []Issue
	token := ""

	for {
		params := url.Values{
			"jql":        {jql},
			"fields":     {"summary"},
			"maxResults": {"100"},
		}
		if token != "" {
			params.Set("nextPageToken", token)
		}

		apiURL := fmt.Sprintf("%s/rest/api/3/search/jql?%s", c.URL, params.Encode())

		body, err := c.doRequest(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("search issues: %w", err)
		}

		var result SearchResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, malformed("search response", err)
		}

		allIssues = append(allIssues, result.Issues...)

		if result.IsLast || result.NextPageToken == "" || result.NextPageToken == token {
			break
		}
		token = result.NextPageToken
	}

	return allIssues, nil
}

// IssueWorklogs returns every worklog of an issue, handling pagination.
func (c *Client) IssueWorklogs(ctx context.Context, key string) ([]Worklog, error) {
	var all []Worklog
	startAt := 0

	for {
		apiURL := fmt.Sprintf("%s/rest/api/3/issue/%s/worklog?startAt=%d&maxResults=%d",
			c.URL, url.PathEscape(key), startAt, 1000)

		body, err := c.doRequest(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("get worklogs of %s: %w", key, err)
		}

		var page WorklogPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, malformed("worklog response", err)
		}

		all = append(all, page.Worklogs...)

		if len(page.Worklogs) == 0 || startAt+len(page.Worklogs) >= page.Total {
			break
		}
		startAt += len(page.Worklogs)
	}

	return all, nil
}

// AddWorklog posts a worklog to an issue.
func (c *Client) AddWorklog(ctx context.Context, key string, started time.Time, seconds int, comment string) error {
	payload := map[string]interface{}{
		"started":          started.Format(startedLayout),
		"timeSpentSeconds": seconds,
	}
	if adf := PlainTextToADF(comment); adf != nil {
		payload["comment"] = adf
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal worklog request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/3/issue/%s/worklog", c.URL, url.PathEscape(key))
	if _, err := c.doRequest(ctx, http.MethodPost, apiURL, data); err != nil {
		return fmt.Errorf("add worklog to %s: %w", key, err)
	}
	return nil
}

// doRequest executes an authenticated HTTP request and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, apiURL string, body []byte) ([]byte, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("jira URL not configured")
	}
	if c.APIToken == "" {
		return nil, fmt.Errorf("jira API token not configured")
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gapfill/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: jira API returned %d", secondary.ErrUnauthorized, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jira API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// setAuth sets the appropriate authentication header on the request.
func (c *Client) setAuth(req *http.Request) {
	if c.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.APIToken))
		req.Header.Set("Authorization", "Basic "+auth)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}
}

func malformed(what string, err error) error {
	return fmt.Errorf("parse %s: %w: %w", what, secondary.ErrMalformedResponse, err)
}
