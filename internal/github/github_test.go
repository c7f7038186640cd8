package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Client{
		apiBase:    server.URL,
		graphqlURL: server.URL + "/graphql",
		token:      "test-token",
		httpClient: server.Client(),
	}
}

func TestNewClient_APIBase(t *testing.T) {
	client := NewClient("github.com", "tok")
	assert.Equal(t, "https://api.github.com", client.apiBase)
	assert.Equal(t, "https://api.github.com/graphql", client.graphqlURL)

	enterprise := NewClient("github.example.com", "tok")
	assert.Equal(t, "https://github.example.com/api/v3", enterprise.apiBase)
	assert.Equal(t, "https://github.example.com/api/graphql", enterprise.graphqlURL)
}

func TestPullRequestsForCommit(t *testing.T) {
	mergedAt := "2026-08-01T12:00:00Z"
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/alice/tool/commits/abc123/pulls", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		_ = json.NewEncoder(w).Encode([]PullRequest{
			{Number: 42, MergedAt: &mergedAt, HTMLURL: "https://github.com/alice/tool/pull/42"},
			{Number: 43, HTMLURL: "https://github.com/alice/tool/pull/43"},
		})
	}))

	prs, err := client.PullRequestsForCommit(context.Background(), "alice", "tool", "abc123")
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.True(t, prs[0].Merged())
	assert.False(t, prs[1].Merged())
}

func TestPullRequestsForCommit_APIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Bad credentials"}`, http.StatusUnauthorized)
	}))

	_, err := client.PullRequestsForCommit(context.Background(), "alice", "tool", "abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Bad credentials")
}

func TestPRComments_AnnotatesResolution(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/alice/tool/issues/7/comments":
			_ = json.NewEncoder(w).Encode([]IssueComment{
				{ID: 1, Body: "looks good", User: User{Login: "bob", Type: "User"}},
			})
		case "/repos/alice/tool/pulls/7/comments":
			_ = json.NewEncoder(w).Encode([]ReviewComment{
				{ID: 100, Body: "rename this", User: User{Login: "carol", Type: "User"}},
				{ID: 200, Body: "nit", User: User{Login: "carol", Type: "User"}},
				{ID: 300, Body: "orphan", User: User{Login: "dave", Type: "User"}},
			})
		case "/graphql":
			assert.Equal(t, http.MethodPost, r.Method)
			var req graphqlRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req.Query, "reviewThreads")

			_, _ = w.Write([]byte(`{"data": {"repository": {"pullRequest": {"reviewThreads": {"nodes": [
				{"isResolved": true, "comments": {"nodes": [{"databaseId": 100}]}},
				{"isResolved": false, "comments": {"nodes": [{"databaseId": 200}]}}
			]}}}}}`))
		default:
			t.Errorf("unexpected request path %q", r.URL.Path)
		}
	}))

	comments, err := client.PRComments(context.Background(), "alice", "tool", 7)
	require.NoError(t, err)
	require.Len(t, comments.IssueComments, 1)
	require.Len(t, comments.ReviewComments, 3)

	require.NotNil(t, comments.ReviewComments[0].IsResolved)
	assert.True(t, *comments.ReviewComments[0].IsResolved)
	require.NotNil(t, comments.ReviewComments[1].IsResolved)
	assert.False(t, *comments.ReviewComments[1].IsResolved)
	assert.Nil(t, comments.ReviewComments[2].IsResolved, "comment outside any thread stays unknown")
}

func TestPRComments_ResolutionLookupFailureIsNotFatal(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/alice/tool/issues/7/comments":
			_, _ = w.Write([]byte("[]"))
		case "/repos/alice/tool/pulls/7/comments":
			_ = json.NewEncoder(w).Encode([]ReviewComment{{ID: 100, Body: "hm"}})
		case "/graphql":
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))

	comments, err := client.PRComments(context.Background(), "alice", "tool", 7)
	require.NoError(t, err)
	require.Len(t, comments.ReviewComments, 1)
	assert.Nil(t, comments.ReviewComments[0].IsResolved)
}

func TestIsBotUser(t *testing.T) {
	tests := []struct {
		name     string
		login    string
		userType string
		want     bool
	}{
		{"bot type", "renovate", "Bot", true},
		{"bot suffix", "dependabot[bot]", "User", true},
		{"service prefix", "service-deploys", "User", true},
		{"human", "alice", "User", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBotUser(tt.login, tt.userType))
		})
	}
}

func TestPullLookup_CachesAcrossInstances(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode([]PullRequest{{Number: 5}})
	}))
	cacheDir := t.TempDir()

	lookup, err := NewPullLookup(client, cacheDir, false)
	require.NoError(t, err)
	prs, err := lookup.ForCommit(context.Background(), "alice", "tool", "abc123")
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, 5, prs[0].Number)

	// A fresh lookup reads the persisted cache instead of the API.
	lookup, err = NewPullLookup(client, cacheDir, false)
	require.NoError(t, err)
	prs, err = lookup.ForCommit(context.Background(), "alice", "tool", "abc123")
	require.NoError(t, err)
	require.Len(t, prs, 1)
	assert.Equal(t, 1, calls)
}

func TestPullLookup_SkipCache(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte("[]"))
	}))

	lookup, err := NewPullLookup(client, t.TempDir(), true)
	require.NoError(t, err)
	for range 2 {
		_, err := lookup.ForCommit(context.Background(), "alice", "tool", "abc123")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestClientTimeoutConfigured(t *testing.T) {
	client := NewClient("github.com", "tok")
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}
