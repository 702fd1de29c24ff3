package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sandijean90/SecurityAgent/pkg/cache"
	"github.com/sandijean90/SecurityAgent/pkg/integrations/github"
	"github.com/sandijean90/SecurityAgent/pkg/integrations/ossindex"
	"github.com/sandijean90/SecurityAgent/pkg/scan"
)

// defaultCacheTTL bounds how long GitHub tree and content responses are
// reused between runs.
const defaultCacheTTL = 15 * time.Minute

// scanFlags are shared by the scan and report commands.
type scanFlags struct {
	suffix      string
	githubToken string
	noCache     bool
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.suffix, "suffix", scan.DefaultLockfileSuffix, "lockfile path suffix to discover")
	cmd.Flags().StringVar(&f.githubToken, "github-token", os.Getenv("GITHUB_TOKEN"), "GitHub API token (defaults to $GITHUB_TOKEN)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the GitHub response cache")
}

func newScanCmd() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan <repo-url>",
		Short: "Discover and deduplicate pinned dependencies in a repository",
		Long: `Scan walks the repository tree for uv.lock files, parses each into
normalized packages, and prints the deduplicated result as JSON.

Examples:
  securityagent scan https://github.com/owner/repo
  securityagent scan https://github.com/owner/repo/tree/main -v`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			scanner := newScanner(flags, nil, logger)

			result, err := scanner.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	flags.register(cmd)
	return cmd
}

// newScanner builds a Scanner from command-line flags. vulns may be nil
// for discovery-only commands.
func newScanner(flags *scanFlags, vulns *ossindex.Client, logger *charmlog.Logger) *scan.Scanner {
	gh := github.NewClient(flags.githubToken, newCache(flags.noCache), defaultCacheTTL)
	s := scan.New(gh, vulns, logger)
	if flags.suffix != "" {
		s.Suffix = flags.suffix
	}
	return s
}

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using the XDG standard
// (~/.cache/securityagent/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
