package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// IsGitURL reports whether path looks like a remote repository rather than a
// local directory.
func IsGitURL(path string) bool {
	return strings.HasSuffix(path, ".git") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

// LocalPath maps a repository URL to its checkout under baseDir, as
// baseDir/<host>/<repo path>. Both https and scp-like ssh URLs are accepted.
// The result never leaves baseDir/<host>.
func LocalPath(baseDir, repoURL string) (string, error) {
	host, repoPath, err := splitURL(repoURL)
	if err != nil {
		return "", err
	}
	if host == "" || host == "." || host == ".." || strings.ContainsAny(host, `/\`) {
		return "", fmt.Errorf("git URL has an invalid host: %s", repoURL)
	}

	repoPath = strings.TrimSuffix(repoPath, ".git")
	hostDir := filepath.Join(baseDir, host)
	localPath := filepath.Join(hostDir, repoPath)

	rel, err := filepath.Rel(hostDir, localPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("git URL has no repository path inside %s: %s", hostDir, repoURL)
	}
	return localPath, nil
}

func splitURL(repoURL string) (host, repoPath string, err error) {
	parsedURL, err := url.Parse(repoURL)
	if err == nil && (parsedURL.Scheme == "https" || parsedURL.Scheme == "http") {
		return parsedURL.Host, parsedURL.Path, nil
	}
	// git@host:owner/repo.git
	if user, rest, ok := strings.Cut(repoURL, "@"); ok && user != "" {
		if host, repoPath, ok := strings.Cut(rest, ":"); ok && host != "" && repoPath != "" {
			return host, repoPath, nil
		}
	}
	return "", "", fmt.Errorf("could not parse git URL: %s", repoURL)
}

// Sync clones a git repository if it doesn't exist at the given path,
// or pulls the latest changes if it does.
func Sync(ctx context.Context, repoURL, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Info("Cloning repository", "url", repoURL, "path", localPath)
		if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
			return fmt.Errorf("failed to create parent of %s: %w", localPath, err)
		}
		_, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{
			URL:   repoURL,
			Depth: 1,
		})
		if err != nil {
			return fmt.Errorf("failed to clone repo %s: %w", repoURL, err)
		}
		slog.Info("Clone successful", "url", repoURL)

	case err == nil:
		slog.Info("Pulling latest changes", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("failed to open existing repo at %s: %w", localPath, err)
		}

		worktree, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree for repo at %s: %w", localPath, err)
		}

		err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("failed to pull changes for repo at %s: %w", localPath, err)
		}
		slog.Info("Pull successful (or already up-to-date)", "path", localPath)

	default:
		return fmt.Errorf("error checking path %s: %w", localPath, err)
	}

	return nil
}
