package git

import (
	"fmt"
	"net/url"
	"strings"
)

// HostFromRemoteURL extracts the host from a git remote URL. Both
// ssh ("git@host:owner/repo.git") and http(s) forms are handled.
func HostFromRemoteURL(remoteURL string) (string, error) {
	if host, _, ok := splitSSHRemote(remoteURL); ok {
		return host, nil
	}
	parsed, err := url.Parse(remoteURL)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("can't determine host from remote url %q", remoteURL)
	}
	return parsed.Hostname(), nil
}

// OwnerRepoFromRemoteURL extracts the owner and repository name from a
// git remote URL.
func OwnerRepoFromRemoteURL(remoteURL string) (owner, repo string, err error) {
	path := ""
	if _, sshPath, ok := splitSSHRemote(remoteURL); ok {
		path = sshPath
	} else {
		parsed, perr := url.Parse(remoteURL)
		if perr != nil || parsed.Host == "" {
			return "", "", fmt.Errorf("can't parse remote url %q", remoteURL)
		}
		path = strings.TrimPrefix(parsed.Path, "/")
	}

	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("remote url %q has no owner/repo path", remoteURL)
	}
	// Deeply nested paths (GitHub Enterprise subgroups) keep the last
	// two segments.
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// RepoFromRemoteURL extracts just the repository name from a remote URL.
func RepoFromRemoteURL(remoteURL string) (string, error) {
	_, repo, err := OwnerRepoFromRemoteURL(remoteURL)
	return repo, err
}

// splitSSHRemote handles scp-like syntax: [user@]host:path.
func splitSSHRemote(remoteURL string) (host, path string, ok bool) {
	if strings.Contains(remoteURL, "://") {
		return "", "", false
	}
	head, tail, found := strings.Cut(remoteURL, ":")
	if !found || strings.Contains(head, "/") {
		return "", "", false
	}
	if _, h, found := strings.Cut(head, "@"); found {
		head = h
	}
	return head, tail, true
}
