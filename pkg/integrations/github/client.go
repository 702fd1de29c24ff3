// Package github provides access to GitHub repository content for the
// dependency scan pipeline: resolving a repository reference to a file
// tree, locating lockfiles, and fetching file contents.
package github

import (
	"regexp"
	"strings"
	"time"

	"github.com/sandijean90/SecurityAgent/pkg/cache"
	apperrors "github.com/sandijean90/SecurityAgent/pkg/errors"
	"github.com/sandijean90/SecurityAgent/pkg/integrations"
)

// Regex patterns for GitHub resource validation.
var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// Client provides access to GitHub repository trees and content.
// Requests are unauthenticated unless a token is supplied; public repos
// work either way, authenticated requests get higher rate limits.
//
// All methods are safe for concurrent use.
type Client struct {
	api     *integrations.Client
	baseURL string
}

// NewClient creates a content client. The token may be empty. Responses
// are cached in backend for ttl; pass a [cache.NullCache] to disable.
func NewClient(token string, backend cache.Cache, ttl time.Duration) *Client {
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		api:     integrations.NewClient(backend, ttl, headers),
		baseURL: "https://api.github.com",
	}
}

// WithBaseURL points the client at a different API root, e.g. a GitHub
// Enterprise instance. Returns the client for chaining.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

func validateRepoRef(ref RepoRef) error {
	if !validOwner.MatchString(ref.Owner) {
		return apperrors.New(apperrors.ErrCodeInvalidRepoURL, "invalid owner %q", ref.Owner)
	}
	if !validRepo.MatchString(ref.Name) {
		return apperrors.New(apperrors.ErrCodeInvalidRepoURL, "invalid repository name %q", ref.Name)
	}
	return nil
}
