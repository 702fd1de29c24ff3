package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sandijean90/SecurityAgent/pkg/integrations/ossindex"
)

// ossFlags configure the OSS Index lookup stage.
type ossFlags struct {
	email         string
	token         string
	maxBatchSize  int
	maxRetries    int
	backoffBase   float64
	maxConcurrent int
}

func (f *ossFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", os.Getenv("OSSINDEX_EMAIL"), "OSS Index account email (defaults to $OSSINDEX_EMAIL)")
	cmd.Flags().StringVar(&f.token, "token", os.Getenv("OSSINDEX_TOKEN"), "OSS Index API token (defaults to $OSSINDEX_TOKEN)")
	cmd.Flags().IntVar(&f.maxBatchSize, "batch-size", ossindex.DefaultMaxBatchSize, "maximum coordinates per lookup request")
	cmd.Flags().IntVar(&f.maxRetries, "retries", ossindex.DefaultMaxRetries, "attempts per lookup batch")
	cmd.Flags().Float64Var(&f.backoffBase, "backoff-base", ossindex.DefaultBackoffBase, "exponential backoff base in seconds")
	cmd.Flags().IntVar(&f.maxConcurrent, "concurrency", ossindex.DefaultMaxConcurrent, "maximum in-flight lookup requests")
}

func (f *ossFlags) client() *ossindex.Client {
	c := ossindex.NewClient(f.email, f.token)
	c.MaxBatchSize = f.maxBatchSize
	c.MaxRetries = f.maxRetries
	c.BackoffBase = f.backoffBase
	c.MaxConcurrent = f.maxConcurrent
	return c
}

func newReportCmd() *cobra.Command {
	scanOpts := &scanFlags{}
	ossOpts := &ossFlags{}

	cmd := &cobra.Command{
		Use:   "report <repo-url>",
		Short: "Scan a repository and report known vulnerabilities",
		Long: `Report runs the full pipeline: discover lockfiles, deduplicate the
pinned packages, and look the released ones up against Sonatype OSS Index.

Authenticated lookups get higher rate limits; set $OSSINDEX_EMAIL and
$OSSINDEX_TOKEN or pass --email/--token.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			scanner := newScanner(scanOpts, ossOpts.client(), logger)

			result, err := scanner.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report := scanner.Report(cmd.Context(), result.Packages)

			return printJSON(struct {
				Scan   any `json:"scan"`
				Report any `json:"report"`
			}{result, report})
		},
	}

	scanOpts.register(cmd)
	ossOpts.register(cmd)
	return cmd
}
