package lockfile

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// EcosystemPyPI is the ecosystem for every released package in a uv.lock
// file; the format belongs to the Python packaging world.
const EcosystemPyPI = "PyPI"

// nameVersionPairs salvages `name = "..."` / `version = "..."` pairs within
// one record span from documents the TOML parser rejects.
var nameVersionPairs = regexp.MustCompile(
	`(?msi)^\s*name\s*=\s*["']([^"']+)["'].*?^\s*version\s*=\s*["']([^"']+)["']`)

// Parse converts raw lockfile text into normalized packages, not yet
// deduplicated. Every emitted package carries path as its sole source path.
//
// It first attempts a structured TOML parse of the [[package]] array of
// tables. If the document is malformed or lacks a package array, it falls
// back to a permissive regex scan that only recovers released packages.
// A well-formed document with an empty package array parses to zero
// packages without triggering the fallback.
func Parse(data []byte, path string) []Package {
	if pkgs, ok := parseStructured(data, path); ok {
		return pkgs
	}
	return parseFallback(data, path)
}

type lockDocument struct {
	Packages []lockEntry `toml:"package"`
}

type lockEntry struct {
	Name    string      `toml:"name"`
	Version string      `toml:"version"`
	Source  sourceTable `toml:"source"`

	// Scope labels: uv writes groups, older lockfiles a single category.
	Groups   []string `toml:"groups"`
	Category string   `toml:"category"`

	// direct arrives as a bool or as the strings "true"/"false".
	Direct any `toml:"direct"`

	// VCS info occasionally sits on the entry instead of the source table.
	VCS    string `toml:"vcs"`
	URL    string `toml:"url"`
	Commit string `toml:"commit"`

	Path string `toml:"path"`
}

type sourceTable struct {
	Type string `toml:"type"`

	// The repository URL appears under one of three keys depending on the
	// writer.
	URL        string `toml:"url"`
	Repository string `toml:"repository"`
	Repo       string `toml:"repo"`

	// Same for the pinned commit.
	ResolvedReference string `toml:"resolved_reference"`
	Commit            string `toml:"commit"`
	Rev               string `toml:"rev"`
}

// parseStructured attempts the TOML table-of-tables parse. ok is false when
// the document is malformed or has no package array, signalling the caller
// to try the fallback strategy.
func parseStructured(data []byte, path string) ([]Package, bool) {
	var doc lockDocument
	md, err := toml.Decode(string(data), &doc)
	if err != nil || !md.IsDefined("package") {
		return nil, false
	}

	var pkgs []Package
	for _, entry := range doc.Packages {
		if p := classify(entry, path); p != nil {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs, true
}

// classify applies the variant rules in order: Released, then VCS, then
// Local; unrecognized entries are dropped.
func classify(entry lockEntry, path string) Package {
	common := attrs{
		ScopeLabel: scopeOf(entry),
		IsDirect:   directOf(entry.Direct),
		Paths:      []string{path},
	}

	if entry.Name != "" && entry.Version != "" {
		return &Released{
			Name:      NormalizeName(entry.Name),
			Version:   entry.Version,
			Ecosystem: EcosystemPyPI,
			attrs:     common,
		}
	}

	srcType := strings.ToLower(entry.Source.Type)
	if srcType == "git" || srcType == "vcs" || entry.VCS != "" {
		repoURL := firstNonEmpty(entry.Source.URL, entry.Source.Repository, entry.Source.Repo, entry.URL)
		commit := firstNonEmpty(entry.Source.ResolvedReference, entry.Source.Commit, entry.Source.Rev, entry.Commit)
		return &VCS{
			VCSType:   "git",
			RepoURL:   repoURL,
			CommitRef: commit,
			attrs:     common,
		}
	}

	if entry.Path != "" {
		return &Local{attrs: common}
	}

	return nil
}

// parseFallback scans raw text for name/version pins. It exists purely to
// salvage simple cases from malformed documents and never extracts VCS or
// local entries.
func parseFallback(data []byte, path string) []Package {
	var pkgs []Package
	for _, m := range nameVersionPairs.FindAllStringSubmatch(string(data), -1) {
		pkgs = append(pkgs, &Released{
			Name:      NormalizeName(m[1]),
			Version:   m[2],
			Ecosystem: EcosystemPyPI,
			attrs:     attrs{Paths: []string{path}},
		})
	}
	return pkgs
}

func scopeOf(entry lockEntry) string {
	if len(entry.Groups) > 0 {
		return entry.Groups[0]
	}
	return entry.Category
}

// directOf normalizes the direct marker: bool stays, "true"/"false" strings
// convert, anything else is treated as unset.
func directOf(v any) *bool {
	switch d := v.(type) {
	case bool:
		return &d
	case string:
		switch strings.ToLower(d) {
		case "true":
			t := true
			return &t
		case "false":
			f := false
			return &f
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
