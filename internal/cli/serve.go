package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandijean90/SecurityAgent/internal/api"
	"github.com/sandijean90/SecurityAgent/pkg/session"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	scanOpts := &scanFlags{}
	ossOpts := &ossFlags{}
	var (
		addr      string
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan pipeline over HTTP",
		Long: `Serve exposes the pipeline as a small JSON API: POST /api/v1/scan to
discover packages, POST /api/v1/report to look them up. Scan results are
held per session so report calls can reuse them; sessions live in memory
unless --redis points at a Redis instance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			sessions, err := newSessionStore(cmd.Context(), redisAddr)
			if err != nil {
				return err
			}
			defer sessions.Close()

			scanner := newScanner(scanOpts, ossOpts.client(), logger)
			server := api.NewServer(scanner, sessions, logger)

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", os.Getenv("REDIS_ADDR"), "Redis address for session storage (defaults to $REDIS_ADDR; empty uses in-memory)")
	scanOpts.register(cmd)
	ossOpts.register(cmd)
	return cmd
}

func newSessionStore(ctx context.Context, redisAddr string) (session.Store, error) {
	if redisAddr == "" {
		return session.NewMemoryStore(), nil
	}
	return session.NewRedisStore(ctx, session.RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}
