package repos

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeRepo creates dir with a VCS marker directory inside root.
func makeRepo(t *testing.T, root, name, marker string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, marker), 0o755))
	return dir
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	git := makeRepo(t, root, "proj-a", ".git")
	jj := makeRepo(t, root, "proj-b", ".jj")
	nested := makeRepo(t, root, filepath.Join("work", "proj-c"), ".git")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "deeper"), 0o755))

	repositories, err := Discover(root)
	require.NoError(t, err)

	assert.Equal(t, []string{git, jj, nested}, repositories)
}

func TestDiscover_StopsAtRepoRoot(t *testing.T) {
	root := t.TempDir()
	outer := makeRepo(t, root, "outer", ".git")
	// A repo nested inside another repo is not reported separately.
	makeRepo(t, root, filepath.Join("outer", "vendored"), ".git")

	repositories, err := Discover(root)
	require.NoError(t, err)

	assert.Equal(t, []string{outer}, repositories)
}

func TestDiscover_SkipsDotDirectories(t *testing.T) {
	root := t.TempDir()
	makeRepo(t, root, filepath.Join(".cache", "hidden"), ".git")

	repositories, err := Discover(root)
	require.NoError(t, err)

	assert.Empty(t, repositories)
}

func TestDiscover_MissingRoot(t *testing.T) {
	repositories, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, repositories)
}

func TestDiscover_FollowsSymlinkedDirs(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := makeRepo(t, outside, "real", ".git")
	link := filepath.Join(root, "linked")
	require.NoError(t, os.Symlink(target, link))

	repositories, err := Discover(root)
	require.NoError(t, err)

	assert.Equal(t, []string{link}, repositories)
}

func TestNames(t *testing.T) {
	root := filepath.Join("/", "home", "me", "repos")
	repositories := []string{
		filepath.Join(root, "proj-a"),
		filepath.Join(root, "work", "proj-c"),
	}

	assert.Equal(t, []string{"proj-a", filepath.Join("work", "proj-c")}, Names(root, repositories))
}
