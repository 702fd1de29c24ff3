package github

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/sandijean90/SecurityAgent/pkg/integrations"
)

// FindLockfiles resolves ref to a recursive tree listing and returns the
// paths of every blob whose path ends with suffix, plus whether the
// provider truncated the listing.
//
// A missing repository or ref is terminal and surfaces as
// [integrations.ErrNotFound]. When the listing is truncated and the partial
// page contained no matches, the walker falls back to an explicit traversal
// of the tree, visiting each subtree exactly once. Per-subtree failures
// during the fallback are skipped; the traversal is best-effort.
func (c *Client) FindLockfiles(ctx context.Context, ref RepoRef, suffix string) ([]string, bool, error) {
	var tr treeResponse
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", c.baseURL, ref.Owner, ref.Name, ref.Ref)
	key := fmt.Sprintf("github:tree:%s@%s", ref, ref.Ref)
	err := c.api.Cached(ctx, key, false, &tr, func() error {
		return c.api.Get(ctx, url, &tr)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: %s@%s", integrations.ErrNotFound, ref, ref.Ref)
		}
		return nil, false, err
	}

	var paths []string
	for _, e := range tr.Tree {
		if e.Type == "blob" && strings.HasSuffix(e.Path, suffix) {
			paths = append(paths, e.Path)
		}
	}

	if tr.Truncated && len(paths) == 0 {
		// The ref is a symbolic name; the traversal must start from the
		// concrete tree SHA the listing resolved it to.
		paths = c.walkTree(ctx, ref, tr.SHA, suffix)
	}

	return paths, tr.Truncated, nil
}

// walkTree performs the truncation-recovery traversal: a work queue of
// subtree SHAs seeded from the resolved root, guarded by a visited set so
// each subtree is fetched at most once even when reachable via multiple
// parent paths. Returned paths are rooted at the repository root.
func (c *Client) walkTree(ctx context.Context, ref RepoRef, rootSHA, suffix string) []string {
	if rootSHA == "" {
		return nil
	}

	type node struct {
		sha    string
		prefix string
	}

	var paths []string
	queue := []node{{sha: rootSHA}}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		n := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if visited[n.sha] {
			continue
		}
		visited[n.sha] = true

		var tr treeResponse
		url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s", c.baseURL, ref.Owner, ref.Name, n.sha)
		key := "github:tree:" + ref.String() + ":" + n.sha
		err := c.api.Cached(ctx, key, false, &tr, func() error {
			return c.api.Get(ctx, url, &tr)
		})
		if err != nil {
			// Best-effort: an unreachable subtree is skipped, not fatal.
			continue
		}

		for _, e := range tr.Tree {
			full := path.Join(n.prefix, e.Path)
			switch {
			case e.Type == "tree" && e.SHA != "":
				queue = append(queue, node{sha: e.SHA, prefix: full})
			case e.Type == "blob" && strings.HasSuffix(full, suffix):
				paths = append(paths, full)
			}
		}
	}

	return paths
}
