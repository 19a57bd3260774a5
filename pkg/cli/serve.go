package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/habib-lab/habib/pkg/cli/config"
	httpctrl "github.com/habib-lab/habib/pkg/controller/http"
	"github.com/habib-lab/habib/pkg/service/embedding"
	"github.com/habib-lab/habib/pkg/usecase"
	"github.com/habib-lab/habib/pkg/utils/errutil"
	"github.com/habib-lab/habib/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.AppConfig
	var repoCfg config.Repository
	var llmCfg config.LLM
	var retrievalCfg config.Retrieval

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HABIB_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, retrievalCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Load subject configuration and build registry
			registry, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load subject configuration")
			}

			if err := retrievalCfg.Validate(); err != nil {
				return goerr.Wrap(err, "invalid retrieval configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				errutil.Handle(ctx, repo.Close(), "failed to close repository")
			}()

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}
			logging.Default().LogAttrs(ctx, slog.LevelInfo, "LLM configuration", llmCfg.LogAttrs()...)
			logging.Default().LogAttrs(ctx, slog.LevelInfo, "Retrieval configuration", retrievalCfg.LogAttrs()...)

			embedder, err := embedding.New(llmClient, embedding.WithDimension(retrievalCfg.Dimension()))
			if err != nil {
				return goerr.Wrap(err, "failed to initialize embedding service")
			}

			uc := usecase.New(repo, registry, llmClient, embedder, retrievalCfg.Options()...)

			httpHandler, err := httpctrl.New(uc, registry)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"subjects", len(registry.List()),
					"backend", repoCfg.Backend(),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
