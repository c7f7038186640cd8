package git

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kdeal/misc/internal/log"
)

// Git-specific errors surfaced to the workflow commands.
var (
	// ErrBranchAlreadyExists indicates the branch name is taken.
	ErrBranchAlreadyExists = errors.New("branch already exists")

	// ErrBranchAlreadyCheckedOut indicates the branch is checked out in another worktree.
	ErrBranchAlreadyCheckedOut = errors.New("branch already checked out in another worktree")

	// ErrPathAlreadyExists indicates the worktree path already exists.
	ErrPathAlreadyExists = errors.New("worktree path already exists")

	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrNoRemote indicates the repository has no such remote.
	ErrNoRemote = errors.New("remote does not exist")
)

// Compile-time check that RealExecutor implements Executor.
var _ Executor = (*RealExecutor)(nil)

// RealExecutor implements Executor by executing actual git commands.
type RealExecutor struct {
	workDir string
}

// NewRealExecutor creates a new RealExecutor. An empty workDir uses the
// process working directory.
func NewRealExecutor(workDir string) *RealExecutor {
	return &RealExecutor{workDir: workDir}
}

// runGit executes a git command and returns an error if it fails.
func (e *RealExecutor) runGit(args ...string) error {
	_, err := e.runGitOutput(args...)
	return err
}

// runGitOutput executes a git command and returns stdout and any error.
func (e *RealExecutor) runGitOutput(args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.Command("git", args...)
	if e.workDir != "" {
		cmd.Dir = e.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug(log.CatGit, "running git", "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", parseGitError(stderrStr, err)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// parseGitError converts git stderr messages to specific error types.
func parseGitError(stderr string, originalErr error) error {
	stderrLower := strings.ToLower(stderr)

	// fatal: a branch named '<name>' already exists
	if strings.Contains(stderrLower, "branch named") && strings.Contains(stderrLower, "already exists") {
		return fmt.Errorf("%w: %s", ErrBranchAlreadyExists, stderr)
	}

	// fatal: '<branch>' is already checked out
	if strings.Contains(stderrLower, "is already checked out") ||
		strings.Contains(stderrLower, "already checked out at") {
		return fmt.Errorf("%w: %s", ErrBranchAlreadyCheckedOut, stderr)
	}

	// fatal: '<path>' already exists
	if strings.Contains(stderrLower, "already exists") {
		return fmt.Errorf("%w: %s", ErrPathAlreadyExists, stderr)
	}

	if strings.Contains(stderrLower, "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotGitRepo, stderr)
	}

	return fmt.Errorf("git error: %s: %w", stderr, originalErr)
}

// IsGitRepo checks if the working directory is inside a git repository.
func (e *RealExecutor) IsGitRepo() bool {
	err := e.runGit("rev-parse", "--git-dir")
	return err == nil
}

// IsWorktree checks if the working directory is a linked worktree.
func (e *RealExecutor) IsWorktree() (bool, error) {
	gitDir, err := e.runGitOutput("rev-parse", "--git-dir")
	if err != nil {
		return false, err
	}

	// In a linked worktree the git dir lives under
	// <main>/.git/worktrees/<name>.
	if strings.Contains(filepath.ToSlash(gitDir), "/worktrees/") {
		return true, nil
	}

	// Otherwise .git at the toplevel is a file for worktrees and a
	// directory for the main checkout.
	var gitPath string
	if filepath.IsAbs(gitDir) {
		gitPath = gitDir
	} else if e.workDir != "" {
		gitPath = filepath.Join(e.workDir, gitDir)
	} else {
		gitPath = gitDir
	}

	info, err := os.Stat(gitPath)
	if err != nil {
		return false, fmt.Errorf("failed to stat git dir: %w", err)
	}
	return !info.IsDir(), nil
}

// IsBareRepo checks if the repository is a bare repository.
func (e *RealExecutor) IsBareRepo() (bool, error) {
	output, err := e.runGitOutput("rev-parse", "--is-bare-repository")
	if err != nil {
		return false, err
	}
	return output == "true", nil
}

// UsesWorktrees reports whether this repo follows a worktree layout.
func (e *RealExecutor) UsesWorktrees() (bool, error) {
	bare, err := e.IsBareRepo()
	if err != nil {
		return false, err
	}
	if bare {
		return true, nil
	}
	return e.IsWorktree()
}

// RepoRoot returns the repository root directory.
func (e *RealExecutor) RepoRoot() (string, error) {
	bare, err := e.IsBareRepo()
	if err != nil {
		return "", err
	}
	if bare {
		// Bare repos have no worktree; the root is the directory holding
		// the git dir (worktree layouts keep a bare .git at the base).
		gitDir, err := e.runGitOutput("rev-parse", "--absolute-git-dir")
		if err != nil {
			return "", err
		}
		return filepath.Dir(gitDir), nil
	}
	return e.runGitOutput("rev-parse", "--show-toplevel")
}

// CurrentBranch returns the name of the current branch.
func (e *RealExecutor) CurrentBranch() (string, error) {
	output, err := e.runGitOutput("branch", "--show-current")
	if err == nil && output != "" {
		return output, nil
	}

	// Fallback: parse symbolic-ref
	output, err = e.runGitOutput("symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return output, nil
}

// DefaultBranch detects the default branch name using multiple strategies.
func (e *RealExecutor) DefaultBranch() (string, error) {
	// 1. Check remote HEAD (works for cloned repos)
	// Returns: refs/remotes/origin/main -> extract "main"
	if ref, err := e.runGitOutput("symbolic-ref", "refs/remotes/origin/HEAD"); err == nil && ref != "" {
		parts := strings.Split(ref, "/")
		return parts[len(parts)-1], nil
	}

	// 2. Check which of main/master exists locally
	if err := e.runGit("show-ref", "--verify", "--quiet", "refs/heads/main"); err == nil {
		return "main", nil
	}
	if err := e.runGit("show-ref", "--verify", "--quiet", "refs/heads/master"); err == nil {
		return "master", nil
	}

	// 3. Fallback
	return "main", nil
}

// OnDefaultBranch checks if the current branch is the default branch.
func (e *RealExecutor) OnDefaultBranch() (bool, error) {
	currentBranch, err := e.CurrentBranch()
	if err != nil {
		return false, err
	}
	defaultBranch, err := e.DefaultBranch()
	if err != nil {
		return false, err
	}
	return currentBranch == defaultBranch, nil
}

// HasUncommittedChanges checks for staged or unstaged changes.
func (e *RealExecutor) HasUncommittedChanges() (bool, error) {
	output, err := e.runGitOutput("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return output != "", nil
}

// CommitSHA resolves a ref to its full SHA.
func (e *RealExecutor) CommitSHA(ref string) (string, error) {
	return e.runGitOutput("rev-parse", ref)
}

// createBranchFromDefault fetches the default branch from origin and
// creates a new branch pointing at it. Returns the default branch name.
func (e *RealExecutor) createBranchFromDefault(name string) (string, error) {
	defaultBranch, err := e.DefaultBranch()
	if err != nil {
		return "", err
	}
	if err := e.runGit("fetch", "origin", defaultBranch); err != nil {
		return "", fmt.Errorf("fetching default branch from origin: %w", err)
	}
	if err := e.runGit("branch", name, "origin/"+defaultBranch); err != nil {
		return "", err
	}
	return defaultBranch, nil
}

// SwitchBranchFromDefault creates a branch off the fetched default and
// checks it out.
func (e *RealExecutor) SwitchBranchFromDefault(name string) error {
	changes, err := e.HasUncommittedChanges()
	if err != nil {
		return err
	}
	if changes {
		return fmt.Errorf("repository has uncommitted changes, commit or stash them first")
	}
	if _, err := e.createBranchFromDefault(name); err != nil {
		return err
	}
	return e.runGit("checkout", name)
}

// RemoveBranch deletes a local branch.
func (e *RealExecutor) RemoveBranch(name string) error {
	return e.runGit("branch", "-D", name)
}

// RemoveCurrentBranch checks out the default branch and deletes the
// branch that was current.
func (e *RealExecutor) RemoveCurrentBranch() error {
	current, err := e.CurrentBranch()
	if err != nil {
		return err
	}
	defaultBranch, err := e.DefaultBranch()
	if err != nil {
		return err
	}
	if current == defaultBranch {
		return fmt.Errorf("refusing to delete the default branch %q", defaultBranch)
	}
	if err := e.runGit("checkout", defaultBranch); err != nil {
		return err
	}
	return e.RemoveBranch(current)
}

// ListBranches returns all local branches with their head SHAs, current
// branch first then alphabetically.
func (e *RealExecutor) ListBranches() ([]BranchInfo, error) {
	output, err := e.runGitOutput("branch", "--format=%(HEAD)%(refname:short) %(objectname)")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	if output == "" {
		return nil, nil
	}

	var branches []BranchInfo
	var currentBranch *BranchInfo

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}

		isCurrent := false
		switch line[0] {
		case '*':
			isCurrent = true
			line = line[1:]
		case ' ':
			line = line[1:]
		}

		name, hash, _ := strings.Cut(line, " ")
		branch := BranchInfo{Name: name, Hash: hash, IsCurrent: isCurrent}
		if isCurrent {
			currentBranch = &branch
		} else {
			branches = append(branches, branch)
		}
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})
	if currentBranch != nil {
		branches = append([]BranchInfo{*currentBranch}, branches...)
	}
	return branches, nil
}

// CreateWorktree creates a branch off the fetched default and adds a
// worktree for it under the repo root.
func (e *RealExecutor) CreateWorktree(name, branch string) (string, error) {
	if _, err := e.createBranchFromDefault(branch); err != nil {
		return "", err
	}
	root, err := e.RepoRoot()
	if err != nil {
		return "", err
	}
	path := filepath.Join(root, name)
	if err := e.runGit("worktree", "add", path, branch); err != nil {
		return "", err
	}
	return path, nil
}

// RemoveWorktree removes the named worktree, falling back to --force.
func (e *RealExecutor) RemoveWorktree(name string) error {
	if err := e.runGit("worktree", "remove", name); err != nil {
		return e.runGit("worktree", "remove", "--force", name)
	}
	return nil
}

// ListWorktrees returns information about all worktrees, excluding the
// main (or bare) entry.
func (e *RealExecutor) ListWorktrees() ([]WorktreeInfo, error) {
	output, err := e.runGitOutput("worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	all := parseWorktreeList(output)
	if len(all) > 0 {
		// The first entry is the main checkout or the bare repo itself.
		all = all[1:]
	}
	return all, nil
}

// parseWorktreeList parses the porcelain output of git worktree list.
// Format:
//
//	worktree /path/to/worktree
//	HEAD <sha>
//	branch refs/heads/branch-name
//	<blank line>
func parseWorktreeList(output string) []WorktreeInfo {
	var worktrees []WorktreeInfo
	var current WorktreeInfo

	flush := func() {
		if current.Path != "" {
			current.Name = filepath.Base(current.Path)
			worktrees = append(worktrees, current)
		}
		current = WorktreeInfo{}
	}

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "worktree":
			current.Path = value
		case "HEAD":
			current.HEAD = value
		case "branch":
			current.Branch = strings.TrimPrefix(value, "refs/heads/")
		}
	}
	flush()

	return worktrees
}

// RemoteURL returns the URL of the named remote, or empty when the
// remote doesn't exist.
func (e *RealExecutor) RemoteURL(name string) (string, error) {
	output, err := e.runGitOutput("remote", "get-url", name)
	if err != nil {
		stderrStr := err.Error()
		if strings.Contains(strings.ToLower(stderrStr), "no such remote") {
			return "", nil
		}
		return "", err
	}
	return output, nil
}

// Clone clones a repository into path.
func (e *RealExecutor) Clone(url, path string) error {
	return e.runGit("clone", url, path)
}
