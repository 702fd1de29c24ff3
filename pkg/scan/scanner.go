// Package scan orchestrates the dependency vulnerability discovery
// pipeline: lockfile discovery across a repository tree, parsing into the
// normalized package model, deduplication, purl encoding, and batched
// vulnerability lookup.
//
// Control flow is Walker → Parser → Deduplicator → Encoder → Batch Client;
// every stage is a pure transformation except the walker and the batch
// client, which perform network I/O. Only locator validation and a missing
// repository/ref abort a scan; everything else degrades into diminished
// results plus diagnostics on the report.
package scan

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sandijean90/SecurityAgent/pkg/integrations/github"
	"github.com/sandijean90/SecurityAgent/pkg/integrations/ossindex"
	"github.com/sandijean90/SecurityAgent/pkg/lockfile"
	"github.com/sandijean90/SecurityAgent/pkg/observability"
	"github.com/sandijean90/SecurityAgent/pkg/purl"
)

// DefaultLockfileSuffix selects the lockfile family the parser understands.
const DefaultLockfileSuffix = "uv.lock"

// Scanner ties the pipeline stages together. It is stateless apart from
// its clients; one Scanner can serve many scans concurrently, and each
// scan owns its own intermediate lists and report.
type Scanner struct {
	GitHub *github.Client
	Vulns  *ossindex.Client

	// Suffix is the lockfile path suffix to discover.
	Suffix string

	Logger *log.Logger
}

// New creates a Scanner with the default lockfile suffix.
// A nil logger falls back to log.Default().
func New(gh *github.Client, vulns *ossindex.Client, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{
		GitHub: gh,
		Vulns:  vulns,
		Suffix: DefaultLockfileSuffix,
		Logger: logger,
	}
}

// Scan runs the discovery stage: resolve the locator, walk the repository
// tree for lockfiles, fetch and parse each one, and deduplicate the
// result. Unreachable individual lockfiles are skipped; a missing
// repository or ref is a terminal error.
func (s *Scanner) Scan(ctx context.Context, repoURL string) (*Result, error) {
	ref, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	observability.Scan().OnScanStart(ctx, ref.String())
	start := time.Now()

	paths, truncated, err := s.GitHub.FindLockfiles(ctx, ref, s.Suffix)
	if err != nil {
		observability.Scan().OnDiscoveryComplete(ctx, ref.String(), 0, 0, time.Since(start), err)
		return nil, err
	}
	s.Logger.Debug("located lockfiles", "repo", ref.String(), "count", len(paths), "truncated", truncated)

	var (
		filesScanned []string
		parsed       []lockfile.Package
	)
	for _, p := range paths {
		raw, err := s.GitHub.FetchFile(ctx, ref, p)
		if err != nil {
			// Best-effort: a single unreachable lockfile doesn't fail the scan.
			s.Logger.Debug("skipping unreachable lockfile", "path", p, "err", err)
			continue
		}
		pkgs := lockfile.Parse(raw, p)
		if len(pkgs) == 0 {
			continue
		}
		filesScanned = append(filesScanned, p)
		parsed = append(parsed, pkgs...)
	}

	deduped := lockfile.Dedupe(parsed)
	result := &Result{
		Repository:   ref.String(),
		Ref:          ref.Ref,
		FilesScanned: filesScanned,
		Packages:     deduped,
		Stats: Stats{
			UniqueCount:       len(deduped),
			SkippedLocalCount: lockfile.CountLocal(deduped),
			Truncated:         truncated,
		},
	}

	observability.Scan().OnDiscoveryComplete(ctx, ref.String(), len(filesScanned), len(deduped), time.Since(start), nil)
	s.Logger.Info("scanned repository",
		"repo", ref.String(),
		"ref", ref.Ref,
		"files", len(filesScanned),
		"packages", len(deduped),
		"duration", time.Since(start).Round(time.Millisecond))

	return result, nil
}

// Report runs the lookup stage over a deduplicated package set. Packages
// that cannot be encoded as a purl (VCS, local, malformed) are excluded
// before batching. The returned report never represents a hard failure;
// diagnostics accumulate in Report.Errors.
func (s *Scanner) Report(ctx context.Context, pkgs []lockfile.Package) *ossindex.Report {
	coords := Coordinates(pkgs)
	start := time.Now()

	report := s.Vulns.ComponentReports(ctx, coords)

	vulnerable := 0
	for _, r := range report.Results {
		if len(r.Vulnerabilities) > 0 {
			vulnerable++
		}
	}

	observability.Scan().OnLookupComplete(ctx, len(coords), vulnerable, report.RateLimited, time.Since(start))
	s.Logger.Info("vulnerability lookup complete",
		"coordinates", len(coords),
		"vulnerable", vulnerable,
		"rate_limited", report.RateLimited,
		"errors", len(report.Errors),
		"duration", time.Since(start).Round(time.Millisecond))

	return report
}

// Coordinates encodes the released packages of pkgs as purl strings,
// preserving input order. VCS and local packages have no locator and are
// excluded from vulnerability lookup entirely.
func Coordinates(pkgs []lockfile.Package) []string {
	var coords []string
	for _, p := range pkgs {
		if c, ok := purl.FromPackage(p); ok {
			coords = append(coords, c)
		}
	}
	return coords
}
