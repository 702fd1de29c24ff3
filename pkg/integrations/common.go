// Package integrations provides HTTP clients for the external providers the
// scan pipeline consumes.
//
// Each provider has its own subpackage:
//
//   - [github]: repository tree listing and file content retrieval
//   - [ossindex]: Sonatype OSS Index vulnerability lookups
//
// The [Client] type provides the shared GET-with-caching plumbing used by
// the GitHub client. Retries are deliberately not part of this layer;
// the OSS Index batch client owns its own retry policy via
// [github.com/sandijean90/SecurityAgent/pkg/httputil.Retry].
//
// [github]: github.com/sandijean90/SecurityAgent/pkg/integrations/github
// [ossindex]: github.com/sandijean90/SecurityAgent/pkg/integrations/ossindex
package integrations

import (
	"errors"
	"net/http"
	"time"
)

// Default timeout for a single provider request, distinct from any
// inter-retry backoff delay.
const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a repository, ref, or file doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
	// unexpected status codes).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the standard per-request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
