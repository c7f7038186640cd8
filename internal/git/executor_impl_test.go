package git

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gitCmd runs git in dir, failing the test on error.
func gitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// initRepo creates a repo with one commit on main.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitCmd(t, dir, "init", "-b", "main")
	gitCmd(t, dir, "config", "user.email", "test@example.com")
	gitCmd(t, dir, "config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi\n"), 0o644))
	gitCmd(t, dir, "add", ".")
	gitCmd(t, dir, "commit", "-m", "initial")
	return dir
}

// cloneRepo clones src so the clone has a working origin remote.
func cloneRepo(t *testing.T, src string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "clone")
	cmd := exec.Command("git", "clone", src, dir)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git clone: %s", out)
	gitCmd(t, dir, "config", "user.email", "test@example.com")
	gitCmd(t, dir, "config", "user.name", "Test")
	return dir
}

func TestRealExecutor_IsGitRepo(t *testing.T) {
	t.Run("in git repo", func(t *testing.T) {
		executor := NewRealExecutor(initRepo(t))
		assert.True(t, executor.IsGitRepo())
	})

	t.Run("not in git repo", func(t *testing.T) {
		executor := NewRealExecutor(t.TempDir())
		assert.False(t, executor.IsGitRepo())
	})
}

func TestRealExecutor_CurrentBranch(t *testing.T) {
	executor := NewRealExecutor(initRepo(t))

	branch, err := executor.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestRealExecutor_DefaultBranch(t *testing.T) {
	t.Run("local main", func(t *testing.T) {
		executor := NewRealExecutor(initRepo(t))

		branch, err := executor.DefaultBranch()
		require.NoError(t, err)
		assert.Equal(t, "main", branch)
	})

	t.Run("from remote HEAD", func(t *testing.T) {
		origin := initRepo(t)
		executor := NewRealExecutor(cloneRepo(t, origin))

		branch, err := executor.DefaultBranch()
		require.NoError(t, err)
		assert.Equal(t, "main", branch)
	})
}

func TestRealExecutor_OnDefaultBranch(t *testing.T) {
	dir := initRepo(t)
	executor := NewRealExecutor(dir)

	on, err := executor.OnDefaultBranch()
	require.NoError(t, err)
	assert.True(t, on)

	gitCmd(t, dir, "checkout", "-b", "feature")
	on, err = executor.OnDefaultBranch()
	require.NoError(t, err)
	assert.False(t, on)
}

func TestRealExecutor_HasUncommittedChanges(t *testing.T) {
	dir := initRepo(t)
	executor := NewRealExecutor(dir)

	changes, err := executor.HasUncommittedChanges()
	require.NoError(t, err)
	assert.False(t, changes)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644))
	changes, err = executor.HasUncommittedChanges()
	require.NoError(t, err)
	assert.True(t, changes)
}

func TestRealExecutor_SwitchBranchFromDefault(t *testing.T) {
	origin := initRepo(t)
	dir := cloneRepo(t, origin)
	executor := NewRealExecutor(dir)

	require.NoError(t, executor.SwitchBranchFromDefault("kdeal/PROJ-1_fix"))

	branch, err := executor.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "kdeal/PROJ-1_fix", branch)
}

func TestRealExecutor_SwitchBranchFromDefault_DirtyTree(t *testing.T) {
	origin := initRepo(t)
	dir := cloneRepo(t, origin)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dirty.txt"), []byte("x"), 0o644))
	executor := NewRealExecutor(dir)

	err := executor.SwitchBranchFromDefault("feature")
	assert.Error(t, err)
}

func TestRealExecutor_RemoveCurrentBranch(t *testing.T) {
	origin := initRepo(t)
	dir := cloneRepo(t, origin)
	executor := NewRealExecutor(dir)
	require.NoError(t, executor.SwitchBranchFromDefault("doomed"))

	require.NoError(t, executor.RemoveCurrentBranch())

	branch, err := executor.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	branches, err := executor.ListBranches()
	require.NoError(t, err)
	for _, b := range branches {
		assert.NotEqual(t, "doomed", b.Name)
	}
}

func TestRealExecutor_RemoveCurrentBranch_RefusesDefault(t *testing.T) {
	executor := NewRealExecutor(initRepo(t))

	err := executor.RemoveCurrentBranch()
	assert.Error(t, err)
}

func TestRealExecutor_ListBranches(t *testing.T) {
	dir := initRepo(t)
	gitCmd(t, dir, "branch", "zeta")
	gitCmd(t, dir, "branch", "alpha")
	executor := NewRealExecutor(dir)

	branches, err := executor.ListBranches()
	require.NoError(t, err)
	require.Len(t, branches, 3)

	assert.Equal(t, "main", branches[0].Name, "current branch sorts first")
	assert.True(t, branches[0].IsCurrent)
	assert.NotEmpty(t, branches[0].Hash)
	assert.Equal(t, "alpha", branches[1].Name)
	assert.Equal(t, "zeta", branches[2].Name)
}

func TestRealExecutor_Worktrees(t *testing.T) {
	origin := initRepo(t)
	dir := cloneRepo(t, origin)
	executor := NewRealExecutor(dir)

	path, err := executor.CreateWorktree("wt1", "kdeal/wt1")
	require.NoError(t, err)
	assert.DirExists(t, path)

	worktrees, err := executor.ListWorktrees()
	require.NoError(t, err)
	require.Len(t, worktrees, 1)
	assert.Equal(t, "wt1", worktrees[0].Name)
	assert.Equal(t, "kdeal/wt1", worktrees[0].Branch)

	require.NoError(t, executor.RemoveWorktree("wt1"))
	worktrees, err = executor.ListWorktrees()
	require.NoError(t, err)
	assert.Empty(t, worktrees)
}

func TestRealExecutor_RemoteURL(t *testing.T) {
	t.Run("existing remote", func(t *testing.T) {
		origin := initRepo(t)
		executor := NewRealExecutor(cloneRepo(t, origin))

		url, err := executor.RemoteURL("origin")
		require.NoError(t, err)
		assert.Equal(t, origin, url)
	})

	t.Run("missing remote", func(t *testing.T) {
		executor := NewRealExecutor(initRepo(t))

		url, err := executor.RemoteURL("origin")
		require.NoError(t, err)
		assert.Empty(t, url)
	})
}

func TestRealExecutor_CommitSHA(t *testing.T) {
	executor := NewRealExecutor(initRepo(t))

	sha, err := executor.CommitSHA("HEAD")
	require.NoError(t, err)
	assert.Len(t, sha, 40)
}

func TestParseGitError(t *testing.T) {
	tests := []struct {
		name    string
		stderr  string
		wantErr error
	}{
		{"branch exists", "fatal: a branch named 'x' already exists", ErrBranchAlreadyExists},
		{"checked out", "fatal: 'x' is already checked out at '/tmp/x'", ErrBranchAlreadyCheckedOut},
		{"path exists", "fatal: '/tmp/x' already exists", ErrPathAlreadyExists},
		{"not a repo", "fatal: not a git repository", ErrNotGitRepo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseGitError(tt.stderr, errors.New("exit status 128"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseWorktreeList(t *testing.T) {
	output := "worktree /repos/proj\nHEAD aaaa\nbranch refs/heads/main\n\n" +
		"worktree /repos/proj/wt1\nHEAD bbbb\nbranch refs/heads/feature\n\n" +
		"worktree /repos/proj/wt2\nHEAD cccc\ndetached\n"

	worktrees := parseWorktreeList(output)

	require.Len(t, worktrees, 3)
	assert.Equal(t, "proj", worktrees[0].Name)
	assert.Equal(t, "main", worktrees[0].Branch)
	assert.Equal(t, "wt1", worktrees[1].Name)
	assert.Equal(t, "feature", worktrees[1].Branch)
	assert.Equal(t, "wt2", worktrees[2].Name)
	assert.Empty(t, worktrees[2].Branch, "detached worktree has no branch")
}
