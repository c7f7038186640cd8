// Package github is a minimal GitHub API client covering the pull
// request lookups and comment listings the CLI needs. It speaks to
// github.com and GitHub Enterprise hosts.
package github

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
	"github.com/kdeal/misc/internal/git"
	"github.com/kdeal/misc/internal/log"
)

// PullRequest is the minimal pull request representation.
type PullRequest struct {
	Number   int     `json:"number"`
	MergedAt *string `json:"merged_at"`
	HTMLURL  string  `json:"html_url"`
}

// Merged reports whether the pull request has been merged.
func (p PullRequest) Merged() bool {
	return p.MergedAt != nil && *p.MergedAt != ""
}

type User struct {
	Login string `json:"login"`
	Type  string `json:"type"`
}

// IssueComment is a timeline comment on a PR.
type IssueComment struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	User      User   `json:"user"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	HTMLURL   string `json:"html_url"`
}

// ReviewComment is a diff comment on a PR. IsResolved is filled from
// the review thread lookup and stays nil when that lookup fails.
type ReviewComment struct {
	ID                int64   `json:"id"`
	Body              string  `json:"body"`
	User              User    `json:"user"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	HTMLURL           string  `json:"html_url"`
	Path              string  `json:"path"`
	Line              *int    `json:"line"`
	OriginalLine      *int    `json:"original_line"`
	OriginalStartLine *int    `json:"original_start_line"`
	DiffHunk          string  `json:"diff_hunk"`
	InReplyToID       *int64  `json:"in_reply_to_id"`
	Side              string  `json:"side"`
	StartLine         *int    `json:"start_line"`
	StartSide         *string `json:"start_side"`
	CommitID          string  `json:"commit_id"`
	OriginalCommitID  string  `json:"original_commit_id"`

	IsResolved *bool `json:"-"`
}

// PrComments holds both comment kinds for a pull request.
type PrComments struct {
	IssueComments  []IssueComment
	ReviewComments []ReviewComment
}

// Client talks to the GitHub REST and GraphQL APIs for one host.
type Client struct {
	apiBase    string
	graphqlURL string
	token      string
	httpClient *http.Client
}

// NewClient builds a client for the host. github.com uses the
// api.github.com base, anything else is treated as GitHub Enterprise.
func NewClient(host, token string) *Client {
	apiBase := "https://api.github.com"
	graphqlURL := "https://api.github.com/graphql"
	if host != "github.com" {
		apiBase = fmt.Sprintf("https://%s/api/v3", host)
		graphqlURL = fmt.Sprintf("https://%s/api/graphql", host)
	}
	return &Client{
		apiBase:    apiBase,
		graphqlURL: graphqlURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientForRemote resolves the host and token for a git remote URL.
func NewClientForRemote(remoteURL string, cfg config.Config) (*Client, error) {
	host, err := git.HostFromRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}
	tokenRef, ok := cfg.GithubToken(host)
	if !ok {
		return nil, fmt.Errorf("github token not configured for host %q, add it to your config file", host)
	}
	token, err := config.ResolveSecret(tokenRef)
	if err != nil {
		return nil, fmt.Errorf("resolving github token for host %q: %w", host, err)
	}
	return NewClient(host, token), nil
}

func (c *Client) apiGet(ctx context.Context, out any, pathSegments ...string) error {
	apiURL, err := url.JoinPath(c.apiBase, pathSegments...)
	if err != nil {
		return fmt.Errorf("building github api url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", "wkfl")
	req.Header.Set("Accept", "application/vnd.github+json")

	log.Debug(log.CatGithub, "github api request", "url", apiURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("querying github api at %s: %w", strings.Join(pathSegments, "/"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("github api returned %s for %s: %s", resp.Status, strings.Join(pathSegments, "/"), strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing github api response: %w", err)
	}
	return nil
}

// PullRequestsForCommit lists pull requests associated with a commit.
func (c *Client) PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]PullRequest, error) {
	var prs []PullRequest
	if err := c.apiGet(ctx, &prs, "repos", owner, repo, "commits", sha, "pulls"); err != nil {
		return nil, fmt.Errorf("looking up pull requests for commit %s: %w", sha, err)
	}
	return prs, nil
}

// PRComments fetches both timeline and review comments for a pull
// request. Review thread resolution is looked up best effort.
func (c *Client) PRComments(ctx context.Context, owner, repo string, number int) (PrComments, error) {
	issueComments, err := c.issueComments(ctx, owner, repo, number)
	if err != nil {
		return PrComments{}, err
	}
	reviewComments, err := c.reviewComments(ctx, owner, repo, number)
	if err != nil {
		return PrComments{}, err
	}

	if err := c.annotateResolved(ctx, owner, repo, number, reviewComments); err != nil {
		log.Warn(log.CatGithub, "review thread resolution lookup failed", "pr", number, "error", err)
	}

	return PrComments{IssueComments: issueComments, ReviewComments: reviewComments}, nil
}

func (c *Client) issueComments(ctx context.Context, owner, repo string, number int) ([]IssueComment, error) {
	var comments []IssueComment
	err := c.apiGet(ctx, &comments, "repos", owner, repo, "issues", strconv.Itoa(number), "comments")
	if err != nil {
		return nil, fmt.Errorf("fetching comments for pr #%d: %w", number, err)
	}
	return comments, nil
}

func (c *Client) reviewComments(ctx context.Context, owner, repo string, number int) ([]ReviewComment, error) {
	var comments []ReviewComment
	err := c.apiGet(ctx, &comments, "repos", owner, repo, "pulls", strconv.Itoa(number), "comments")
	if err != nil {
		return nil, fmt.Errorf("fetching review comments for pr #%d: %w", number, err)
	}
	return comments, nil
}

// IsBotUser reports whether a comment author looks like automation
// rather than a reviewer.
func IsBotUser(login, userType string) bool {
	return userType == "Bot" || strings.HasPrefix(login, "service") || strings.HasSuffix(login, "[bot]")
}
