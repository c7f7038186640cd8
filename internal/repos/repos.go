// Package repos discovers version-controlled repositories under the
// configured repositories directory.
package repos

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// isRepo reports whether the directory holds metadata for a supported
// VCS. Both Git and Jujutsu checkouts count.
func isRepo(dir string) bool {
	for _, marker := range []string{".git", ".jj"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// subDirectories lists child directories, skipping dotfiles and
// resolving symlinks.
func subDirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var dirs []string
	for _, entry := range entries {
		name := entry.Name()
		if name == "" || name[0] == '.' {
			continue
		}
		path := filepath.Join(dir, name)

		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil || !info.IsDir() {
				continue
			}
		} else if !entry.IsDir() {
			continue
		}
		dirs = append(dirs, path)
	}
	return dirs, nil
}

// Discover walks the directory tree and returns every repository root,
// sorted. Directories below a repository root are not descended into.
func Discover(root string) ([]string, error) {
	var repositories []string
	toCheck := []string{root}

	for len(toCheck) > 0 {
		dir := toCheck[len(toCheck)-1]
		toCheck = toCheck[:len(toCheck)-1]

		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if isRepo(dir) {
			repositories = append(repositories, dir)
			continue
		}
		subs, err := subDirectories(dir)
		if err != nil {
			return nil, err
		}
		toCheck = append(toCheck, subs...)
	}

	sort.Strings(repositories)
	return repositories, nil
}

// Names returns the repository paths relative to root, for display.
func Names(root string, repositories []string) []string {
	names := make([]string, len(repositories))
	for i, repo := range repositories {
		rel, err := filepath.Rel(root, repo)
		if err != nil {
			rel = filepath.Base(repo)
		}
		names[i] = rel
	}
	return names
}
