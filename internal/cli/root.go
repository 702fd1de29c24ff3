// Package cli implements the securityagent command-line interface.
//
// The CLI wraps the scan pipeline for direct use: discovering lockfiles in
// a GitHub repository, looking up vulnerabilities against OSS Index, and
// serving both over HTTP for the agent surface. All commands support
// --verbose (-v) for debug-level logging; loggers travel through
// context.Context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sandijean90/SecurityAgent/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "securityagent"

// Execute runs the securityagent CLI and returns an error if any command
// fails. This is the main entry point for the CLI application.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "Scan repository dependencies for known vulnerabilities",
		Long:         `securityagent discovers dependency lockfiles in a GitHub repository, normalizes and deduplicates the pinned packages, and checks them against the Sonatype OSS Index vulnerability database.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newScanCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
