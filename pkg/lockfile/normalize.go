package lockfile

import (
	"regexp"
	"strings"
)

// separatorRuns matches runs of the characters PEP 503 treats as
// equivalent separators in package names.
var separatorRuns = regexp.MustCompile(`[-_.]+`)

// NormalizeName converts a package name to its canonical PEP 503 form:
// lowercase with runs of "-", "_", and "." collapsed to a single "-".
// Foo_Bar, foo.bar, and FOO-BAR all normalize to "foo-bar".
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return separatorRuns.ReplaceAllString(n, "-")
}
