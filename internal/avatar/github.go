// Package avatar resolves contact avatars from GitHub profiles.
package avatar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// Resolver turns a GitHub handle into an avatar URL
type Resolver interface {
	Resolve(ctx context.Context, handle string) (string, error)
}

// GitHubResolver looks up users through the GitHub REST API
type GitHubResolver struct {
	client *github.Client
}

// NewGitHubResolver creates a resolver. token and enterpriseURL are optional.
func NewGitHubResolver(token, enterpriseURL string) (*GitHubResolver, error) {
	client := github.NewClient(&http.Client{Timeout: 10 * time.Second})
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if enterpriseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(enterpriseURL, enterpriseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
	}
	return &GitHubResolver{client: client}, nil
}

// NormalizeHandle strips a leading "@" and surrounding whitespace
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// Resolve returns the avatar URL of the GitHub user named handle
func (r *GitHubResolver) Resolve(ctx context.Context, handle string) (string, error) {
	login := NormalizeHandle(handle)
	if login == "" {
		return "", fmt.Errorf("github handle is required")
	}

	user, _, err := r.client.Users.Get(ctx, login)
	if err != nil {
		return "", fmt.Errorf("failed to get github user %s: %w", login, err)
	}

	avatarURL := user.GetAvatarURL()
	if avatarURL == "" {
		return "", fmt.Errorf("github user %s has no avatar", login)
	}
	return avatarURL, nil
}
