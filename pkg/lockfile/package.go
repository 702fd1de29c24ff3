// Package lockfile parses uv.lock dependency lockfiles into a normalized
// package model and deduplicates packages across files.
//
// # Package Model
//
// Parsed entries are one of three variants, expressed as an explicit sum
// type rather than a flat record with optional fields:
//   - [Released]: a registry package with name, version, and ecosystem
//   - [VCS]: a version-control dependency pinned to a repo URL and commit
//   - [Local]: a path dependency with no registry identity
//
// Released names are normalized per PEP 503 so that the same logical
// package spelled Foo_Bar, foo.bar, or FOO-BAR always compares equal.
//
// # Parsing Strategy
//
// Parsing is two pure strategies tried in sequence: a structured TOML
// parse of the [[package]] array of tables, and a permissive regex scan
// that salvages name/version pairs when the document is malformed. The
// fallback never emits VCS or Local entries.
package lockfile

// Kind discriminates the package variants.
type Kind string

// Package variant kinds.
const (
	KindReleased Kind = "released"
	KindVCS      Kind = "vcs"
	KindLocal    Kind = "local"
)

// Package is the tagged union over lockfile entry variants.
// Implementations are *Released, *VCS, and *Local.
type Package interface {
	// Kind returns the variant tag.
	Kind() Kind

	// SourcePaths lists every lockfile path that referenced this logical
	// package. After deduplication the slice holds the union across files.
	SourcePaths() []string

	// Scope is the dependency group label ("default", "dev", ...), or ""
	// when the lockfile does not record one.
	Scope() string

	// Direct reports whether the dependency is a direct one.
	// Nil means the lockfile does not say.
	Direct() *bool

	// key computes the deduplication identity for this package.
	key() identity

	// absorb merges another package with the same identity into this one:
	// sourcePaths are unioned and missing scope/direct are backfilled.
	absorb(other Package)
}

// attrs holds the fields shared by all variants.
type attrs struct {
	ScopeLabel string   `json:"scope,omitempty"`
	IsDirect   *bool    `json:"direct,omitempty"`
	Paths      []string `json:"paths"`
}

func (a *attrs) SourcePaths() []string { return a.Paths }
func (a *attrs) Scope() string         { return a.ScopeLabel }
func (a *attrs) Direct() *bool         { return a.IsDirect }

// absorbAttrs unions paths and backfills scope/direct. Missing-field
// backfill is the rule, not first-write-wins: an empty scope or nil direct
// on the receiver adopts the incoming value.
func (a *attrs) absorbAttrs(other Package) {
	seen := make(map[string]bool, len(a.Paths))
	for _, p := range a.Paths {
		seen[p] = true
	}
	for _, p := range other.SourcePaths() {
		if !seen[p] {
			seen[p] = true
			a.Paths = append(a.Paths, p)
		}
	}
	if a.ScopeLabel == "" {
		a.ScopeLabel = other.Scope()
	}
	if a.IsDirect == nil {
		a.IsDirect = other.Direct()
	}
}

// Released is a registry package suitable for vulnerability queries.
// Name is always normalized (lowercase, separator runs collapsed to "-")
// and Name, Version, and Ecosystem are never empty.
type Released struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Ecosystem string `json:"ecosystem"`
	attrs
}

func (p *Released) Kind() Kind { return KindReleased }

func (p *Released) key() identity {
	return identity{class: "released", a: p.Name, b: p.Version, c: p.Ecosystem}
}

func (p *Released) absorb(other Package) { p.absorbAttrs(other) }

// VCS is a version-control dependency. RepoURL and CommitRef are always
// set when the entry came from a well-formed source table; either may be
// empty for degenerate entries, which still dedupe by their own key.
type VCS struct {
	VCSType   string `json:"vcs"`
	RepoURL   string `json:"repo_url"`
	CommitRef string `json:"commit"`
	attrs
}

func (p *VCS) Kind() Kind { return KindVCS }

func (p *VCS) key() identity {
	return identity{class: "vcs", a: p.VCSType, b: p.RepoURL, c: p.CommitRef}
}

func (p *VCS) absorb(other Package) { p.absorbAttrs(other) }

// Local is a path dependency with no identity beyond being flagged local.
// Local packages are excluded from vulnerability lookup entirely.
type Local struct {
	attrs
}

func (p *Local) Kind() Kind { return KindLocal }

func (p *Local) key() identity {
	return identity{class: "other", a: string(KindLocal)}
}

func (p *Local) absorb(other Package) { p.absorbAttrs(other) }

// identity is the composite deduplication key. The class field keeps
// dissimilar unidentified entries from collapsing into each other.
type identity struct {
	class      string
	a, b, c, d string
}
