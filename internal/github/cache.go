package github

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kdeal/misc/internal/cachemanager"
)

const pullsCacheFile = "github_pulls.json"
const pullsCacheTTL = time.Hour

type commitRef struct {
	Owner string
	Repo  string
	SHA   string
}

// PullLookup answers commit-to-PR lookups through an on-disk cache,
// which keeps branch pruning from re-querying the API every run.
type PullLookup struct {
	readThrough *cachemanager.ReadThrough[string, []PullRequest, commitRef]
}

// NewPullLookup builds a cached lookup persisted under cacheDir. With
// skipCache set every lookup goes straight to the API.
func NewPullLookup(client *Client, cacheDir string, skipCache bool) (*PullLookup, error) {
	cache, err := cachemanager.NewFile[string, []PullRequest](filepath.Join(cacheDir, pullsCacheFile))
	if err != nil {
		return nil, err
	}

	readThrough := cachemanager.NewReadThrough[string, []PullRequest, commitRef](
		cache,
		func(ctx context.Context, ref commitRef) ([]PullRequest, error) {
			return client.PullRequestsForCommit(ctx, ref.Owner, ref.Repo, ref.SHA)
		},
		skipCache,
	)
	return &PullLookup{readThrough: readThrough}, nil
}

// ForCommit returns the pull requests associated with a commit.
func (l *PullLookup) ForCommit(ctx context.Context, owner, repo, sha string) ([]PullRequest, error) {
	key := fmt.Sprintf("%s/%s@%s", owner, repo, sha)
	return l.readThrough.Get(ctx, key, commitRef{Owner: owner, Repo: repo, SHA: sha}, pullsCacheTTL)
}
