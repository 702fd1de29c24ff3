// Package purl encodes packages as package-URL (purl) coordinate strings
// of the form pkg:<type>/<name>@<version>, the identifier format consumed
// by vulnerability databases.
package purl

import (
	"fmt"
	"strings"

	"github.com/sandijean90/SecurityAgent/pkg/errors"
	"github.com/sandijean90/SecurityAgent/pkg/lockfile"
)

// ecosystemTypes maps human-facing ecosystem names to purl type values.
// Unknown ecosystems pass through lowercased unchanged.
var ecosystemTypes = map[string]string{
	"PyPI":     "pypi",
	"NPM":      "npm",
	"npm":      "npm",
	"Maven":    "maven",
	"NuGet":    "nuget",
	"RubyGems": "gem",
	"Cargo":    "cargo",
	"Conda":    "conda",
	"Golang":   "golang",
	"CRAN":     "cran",
	"RPM":      "rpm",
	"Swift":    "swift",
}

// Coordinate encodes an ecosystem/name/version triple as a purl string.
// It fails when name or version is empty; such packages cannot be looked up.
func Coordinate(ecosystem, name, version string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New(errors.ErrCodeInvalidPackage, "package name is empty")
	}
	if strings.TrimSpace(version) == "" {
		return "", errors.New(errors.ErrCodeInvalidPackage, "package version is empty")
	}
	t, ok := ecosystemTypes[ecosystem]
	if !ok {
		t = strings.ToLower(ecosystem)
	}
	return fmt.Sprintf("pkg:%s/%s@%s", t, name, version), nil
}

// FromPackage encodes a released package as a purl coordinate.
// VCS and local packages have no locator; ok is false for them and for
// released packages missing a name or version.
func FromPackage(p lockfile.Package) (string, bool) {
	rel, isReleased := p.(*lockfile.Released)
	if !isReleased {
		return "", false
	}
	coord, err := Coordinate(rel.Ecosystem, rel.Name, rel.Version)
	if err != nil {
		return "", false
	}
	return coord, true
}
