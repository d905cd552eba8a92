package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppfellow/jobly/internal/config"
	"github.com/deppfellow/jobly/internal/logger"
)

// cmdGlobal carries the state every subcommand needs: configuration and the
// root logger.
type cmdGlobal struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

func (c *cmdGlobal) Run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.loggerService = logger.NewLoggerService(cfg.Observability)
	c.log = logger.NewLoggerWithService(cfg.Observability, c.loggerService)

	return nil
}

func main() {
	global := &cmdGlobal{}

	serve := cmdServe{global: global}
	migrate := cmdMigrate{global: global}

	app := serve.Command()
	app.Use = "jobly"
	app.SilenceUsage = true
	app.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}
	app.PersistentPreRunE = global.Run

	app.AddCommand(serve.Command())
	app.AddCommand(migrate.Command())

	err := app.Execute()
	global.loggerService.Shutdown()
	if err != nil {
		app.PrintErrf("%s\n", err)
		os.Exit(1)
	}
}
