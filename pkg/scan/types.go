package scan

import (
	"github.com/sandijean90/SecurityAgent/pkg/lockfile"
)

// Stats summarizes the discovery stage of a scan.
type Stats struct {
	// UniqueCount is the number of packages after deduplication.
	UniqueCount int `json:"unique_pkgs"`

	// SkippedLocalCount counts local path dependencies that carry no
	// registry identity and are excluded from vulnerability lookup.
	SkippedLocalCount int `json:"skipped_local"`

	// Truncated reports whether the provider cut the tree listing short.
	Truncated bool `json:"truncated"`
}

// Result is the output of the dependency-discovery stage. It exists only
// for the duration of one scan invocation; nothing is persisted and every
// scan recomputes it from scratch.
type Result struct {
	// Repository is the "owner/repo" form of the scanned repository.
	Repository string `json:"repo"`

	// Ref is the branch, tag, or SHA that was scanned ("HEAD" for the
	// default branch).
	Ref string `json:"ref"`

	// FilesScanned lists every lockfile path that yielded packages.
	FilesScanned []string `json:"files_scanned"`

	// Packages is the deduplicated package set, in first-encountered order.
	Packages lockfile.Packages `json:"packages"`

	Stats Stats `json:"stats"`
}
