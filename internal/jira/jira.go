// Package jira is a small Jira Cloud REST client for reading issues,
// running JQL searches, and listing saved filters.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kdeal/misc/internal/config"
	"github.com/kdeal/misc/internal/log"
)

const defaultSearchMaxResults = 50

// Issue is the minimal issue representation.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary     string       `json:"summary"`
	Description *Document    `json:"description"`
	Status      Status       `json:"status"`
	Assignee    *User        `json:"assignee"`
	Reporter    *User        `json:"reporter"`
	Created     string       `json:"created"`
	Updated     string       `json:"updated"`
	Priority    *Priority    `json:"priority"`
	IssueType   IssueType    `json:"issuetype"`
	Project     Project      `json:"project"`
	Comment     CommentBlock `json:"comment"`
}

type CommentBlock struct {
	Comments []Comment `json:"comments"`
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

type Status struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	StatusCategory StatusCategory `json:"statusCategory"`
}

type StatusCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type Priority struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type IssueType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

type Comment struct {
	ID      string   `json:"id"`
	Body    Document `json:"body"`
	Author  User     `json:"author"`
	Created string   `json:"created"`
	Updated string   `json:"updated"`
}

// Filter is a saved Jira search.
type Filter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	JQL         string `json:"jql"`
	Description string `json:"description"`
}

// DisplayName is the label shown in the filter select prompt.
func (f Filter) DisplayName() string {
	if f.Description == "" {
		return f.Name
	}
	return fmt.Sprintf("%s - %s", f.Name, f.Description)
}

// Client talks to one Jira Cloud instance with basic auth.
type Client struct {
	apiBase    string
	email      string
	apiToken   string
	httpClient *http.Client
}

func NewClient(instanceURL, email, apiToken string) *Client {
	return &Client{
		apiBase:    strings.TrimRight(instanceURL, "/") + "/rest/api/3",
		email:      email,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientFromConfig builds a client from the jira config section,
// resolving the API token secret reference.
func NewClientFromConfig(cfg config.Config) (*Client, error) {
	if cfg.Jira == nil {
		return nil, fmt.Errorf("jira configuration not found, add a jira section to your config file")
	}

	apiToken, err := config.ResolveSecret(cfg.Jira.APIToken)
	if err != nil {
		return nil, fmt.Errorf("resolving jira api token: %w", err)
	}
	return NewClient(cfg.Jira.InstanceURL, cfg.Jira.Email, apiToken), nil
}

func (c *Client) apiGet(ctx context.Context, out any, query url.Values, pathSegments ...string) error {
	apiURL, err := url.JoinPath(c.apiBase, pathSegments...)
	if err != nil {
		return fmt.Errorf("building jira api url: %w", err)
	}
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")

	log.Debug(log.CatJira, "jira api request", "url", apiURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("querying jira api at %s: %w", strings.Join(pathSegments, "/"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("jira api returned %s for %s: %s", resp.Status, strings.Join(pathSegments, "/"), strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing jira api response: %w", err)
	}
	return nil
}

// GetIssue fetches one issue by key.
func (c *Client) GetIssue(ctx context.Context, issueKey string) (Issue, error) {
	var issue Issue
	if err := c.apiGet(ctx, &issue, nil, "issue", issueKey); err != nil {
		return Issue{}, fmt.Errorf("fetching issue %q, check that the key exists and you can view it: %w", issueKey, err)
	}
	return issue, nil
}

// SearchIssues runs a JQL query. maxResults <= 0 uses the default.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]Issue, error) {
	if maxResults <= 0 {
		maxResults = defaultSearchMaxResults
	}
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("maxResults", strconv.Itoa(maxResults))

	var searchResponse struct {
		Issues []Issue `json:"issues"`
	}
	if err := c.apiGet(ctx, &searchResponse, query, "search"); err != nil {
		return nil, fmt.Errorf("searching jira issues with jql %q: %w", jql, err)
	}
	return searchResponse.Issues, nil
}

// GetFilter fetches one saved filter by ID.
func (c *Client) GetFilter(ctx context.Context, filterID string) (Filter, error) {
	var filter Filter
	if err := c.apiGet(ctx, &filter, nil, "filter", filterID); err != nil {
		return Filter{}, fmt.Errorf("fetching jira filter %q: %w", filterID, err)
	}
	return filter, nil
}

// GetFavouriteFilters lists the user's favourite saved filters.
func (c *Client) GetFavouriteFilters(ctx context.Context) ([]Filter, error) {
	var filters []Filter
	if err := c.apiGet(ctx, &filters, nil, "filter", "favourite"); err != nil {
		return nil, fmt.Errorf("fetching favourite jira filters: %w", err)
	}
	return filters, nil
}

// FormatDate turns a Jira timestamp into "YYYY-MM-DD HH:MM:SS",
// dropping sub-second precision and the timezone.
func FormatDate(dateStr string) string {
	datePart, rest, found := strings.Cut(dateStr, "T")
	if !found {
		return dateStr
	}

	timePart := rest
	if i := strings.IndexAny(timePart, "+-Z"); i >= 0 {
		timePart = timePart[:i]
	}
	if i := strings.Index(timePart, "."); i >= 0 {
		timePart = timePart[:i]
	}
	return datePart + " " + timePart
}
