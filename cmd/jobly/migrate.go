package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/jobly/internal/database"
)

type cmdMigrate struct {
	global *cmdGlobal
}

func (c *cmdMigrate) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "migrate"
	cmd.Short = "Apply pending database migrations"
	cmd.Args = cobra.NoArgs
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdMigrate) Run(cmd *cobra.Command, args []string) error {
	log := c.global.log
	return database.Migrate(cmd.Context(), &log, database.DSN(c.global.cfg.Database))
}
