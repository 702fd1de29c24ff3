package github

// RepoRef identifies a repository at a ref. Immutable once parsed from a
// locator URL.
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	Ref   string `json:"ref"` // branch, tag, or SHA; DefaultRef when unspecified
}

// String returns the "owner/name" form of the reference.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// DefaultRef is the sentinel for the repository's default branch.
const DefaultRef = "HEAD"

// treeResponse is the git trees API response. SHA is the concrete tree
// identifier the ref resolved to; Truncated reports a cut-short listing.
type treeResponse struct {
	SHA       string      `json:"sha"`
	Truncated bool        `json:"truncated"`
	Tree      []treeEntry `json:"tree"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // "blob" or "tree"
	SHA  string `json:"sha"`
}

// contentResponse is the contents API response for a single file.
type contentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Size     int    `json:"size"`
}
