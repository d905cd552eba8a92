package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/jobly/internal/database"
	"github.com/deppfellow/jobly/internal/handler"
	"github.com/deppfellow/jobly/internal/repository"
	"github.com/deppfellow/jobly/internal/router"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/service"
)

const shutdownTimeout = 30 * time.Second

type cmdServe struct {
	global *cmdGlobal

	flagSkipMigrations bool
}

func (c *cmdServe) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "serve"
	cmd.Short = "Run the HTTP API and the background worker"
	cmd.Long = `Description:
  Run the HTTP API and the background worker

  Pending database migrations are applied first unless --skip-migrations
  is given. The process stops gracefully on SIGINT or SIGTERM.
`
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.Run
	cmd.Flags().BoolVar(&c.flagSkipMigrations, "skip-migrations", false, "Do not apply pending migrations on startup")

	return cmd
}

func (c *cmdServe) Run(cmd *cobra.Command, args []string) error {
	cfg := c.global.cfg
	log := c.global.log

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !c.flagSkipMigrations {
		if err := database.Migrate(ctx, &log, database.DSN(cfg.Database)); err != nil {
			return err
		}
	}

	srv, err := server.New(cfg, &log, c.global.loggerService)
	if err != nil {
		return err
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		return err
	}

	r := router.NewRouter(srv, handler.NewHandlers(srv, services))
	srv.SetupHTTPServer(r)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("server forced to shutdown")
		err = errors.Join(err, shutdownErr)
	}

	log.Info().Msg("server exited")

	return err
}
