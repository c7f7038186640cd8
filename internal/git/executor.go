package git

// BranchInfo holds information about a local git branch.
type BranchInfo struct {
	Name      string // Branch name (e.g., "main", "kdeal/PROJ-123_fix")
	Hash      string // Full SHA of the branch head
	IsCurrent bool   // True if this is the currently checked out branch
}

// WorktreeInfo holds information about a git worktree.
type WorktreeInfo struct {
	Name   string // Directory name of the worktree
	Path   string // Absolute path
	Branch string // Checked out branch, empty when detached
	HEAD   string // SHA the worktree is on
}

// Executor defines the git operations the workflow commands need.
// This abstraction allows for easy testing with fake implementations.
type Executor interface {
	// IsGitRepo reports whether the working directory is inside a repo.
	IsGitRepo() bool
	// IsWorktree reports whether the working directory is a linked
	// worktree rather than the main checkout.
	IsWorktree() (bool, error)
	IsBareRepo() (bool, error)
	// UsesWorktrees reports whether workflows should create worktrees
	// instead of switching branches (bare or worktree-based repos).
	UsesWorktrees() (bool, error)
	// RepoRoot returns the top of the repository. For bare repos this is
	// the directory holding the git dir; worktrees resolve to their own
	// checkout root.
	RepoRoot() (string, error)

	CurrentBranch() (string, error)
	// DefaultBranch detects the default branch name.
	// Order: remote HEAD, then main/master existence, then "main".
	DefaultBranch() (string, error)
	OnDefaultBranch() (bool, error)
	HasUncommittedChanges() (bool, error)
	// CommitSHA resolves a ref to a full SHA.
	CommitSHA(ref string) (string, error)

	// SwitchBranchFromDefault fetches the default branch from origin and
	// checks out a new branch based on it.
	SwitchBranchFromDefault(name string) error
	RemoveBranch(name string) error
	// RemoveCurrentBranch checks out the default branch and deletes the
	// branch that was current.
	RemoveCurrentBranch() error
	ListBranches() ([]BranchInfo, error)

	// CreateWorktree fetches the default branch, creates branch based on
	// it and adds a worktree named name under the repo root.
	// Returns the worktree path.
	CreateWorktree(name, branch string) (string, error)
	RemoveWorktree(name string) error
	ListWorktrees() ([]WorktreeInfo, error)

	// RemoteURL returns the URL for the named remote. Returns an empty
	// string and nil error if the remote doesn't exist.
	RemoteURL(name string) (string, error)
	Clone(url, path string) error
}
