package github

import (
	"net/url"
	"strings"

	"github.com/sandijean90/SecurityAgent/pkg/errors"
)

// ParseRepoURL parses a repository locator of the form
// https://github.com/<owner>/<repo>[.git][/tree/<ref>[/...]] into a RepoRef.
// When no /tree/<ref> segment is present the ref defaults to [DefaultRef].
// Malformed locators (missing owner/repo, non-GitHub host, non-HTTP scheme)
// fail validation before any network call.
func ParseRepoURL(raw string) (RepoRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return RepoRef{}, errors.Wrap(errors.ErrCodeInvalidRepoURL, err, "unparseable repository URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return RepoRef{}, errors.New(errors.ErrCodeInvalidRepoURL, "repository URL must use http or https: %q", raw)
	}
	if u.Hostname() != "github.com" && u.Hostname() != "www.github.com" {
		return RepoRef{}, errors.New(errors.ErrCodeInvalidRepoURL, "repository URL must point at github.com: %q", raw)
	}

	var parts []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	if len(parts) < 2 {
		return RepoRef{}, errors.New(errors.ErrCodeInvalidRepoURL, "could not parse owner/repo from %q", raw)
	}

	ref := RepoRef{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
		Ref:   DefaultRef,
	}
	if len(parts) >= 4 && parts[2] == "tree" && parts[3] != "" {
		ref.Ref = parts[3]
	}

	if err := validateRepoRef(ref); err != nil {
		return RepoRef{}, err
	}
	return ref, nil
}
