package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortkey/internal/container"
	"github.com/serroba/shortkey/internal/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func newInjector(options *container.Options) *do.Injector {
	injector := do.New()
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.ServicePackage(injector)
	container.PublisherGroupPackage(injector)
	container.HTTPPackage(injector)

	return injector
}

func newServer(injector *do.Injector, port int) (*http.Server, error) {
	router := do.MustInvoke[*chi.Mux](injector)

	// Invoking the API registers the routes on router.
	if _, err := do.Invoke[huma.API](injector); err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}, nil
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		if err := options.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "invalid options:", err)
			os.Exit(2)
		}

		injector := newInjector(options)
		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			var err error

			server, err = newServer(injector, options.Port)
			if err != nil {
				logger.Fatal("failed to build server", zap.Error(err))
			}

			logger.Info("server starting",
				zap.Int("port", options.Port),
				zap.String("store", options.Store),
				zap.String("base_url", options.ShortURLBase()),
				zap.Bool("events", options.Events),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("server shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("service shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
			_ = logger.Sync()
		})
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, options *container.Options) {
			options.Store = container.StorePostgres
			options.Migrate = true

			injector := newInjector(options)
			defer func() { _ = injector.Shutdown() }()

			logger := do.MustInvoke[*zap.Logger](injector)
			pool := do.MustInvoke[*container.PostgresPool](injector)

			version, dirty, err := migrations.NewMigrator(pool.Pool, logger).Version()
			if err != nil {
				logger.Fatal("failed to read schema version", zap.Error(err))
			}

			logger.Info("schema ready", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}),
	})

	cli.Root().AddCommand(&cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document as YAML",
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, options *container.Options) {
			injector := newInjector(options)
			api := do.MustInvoke[huma.API](injector)

			doc, err := api.OpenAPI().YAML()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			fmt.Println(string(doc))
		}),
	})

	cli.Run()
}
