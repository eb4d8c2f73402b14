package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"defikit/internal/metrics"
	"defikit/internal/ptyt"
	"defikit/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			deps := server.Deps{
				Logger:  a.logger,
				Prices:  a.oracle(),
				Clock:   ptyt.SystemClock{},
				Metrics: metrics.NewRegistry(),
			}
			if a.cfg.Database.Enabled {
				repo, err := a.repository(ctx)
				if err != nil {
					return err
				}
				defer repo.Close()
				deps.Repo = repo
			} else {
				a.logger.Info("Scenario store disabled")
			}

			srv := server.New(a.cfg.Server, deps)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
