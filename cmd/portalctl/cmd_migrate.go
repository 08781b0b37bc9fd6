package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/campus-portal-api/internal/database"
)

func newMigrateCmd(boot bootFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := boot(cmd)
			if err != nil {
				return err
			}
			if err := database.Migrate(rt.db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema migrated (%s)\n", rt.cfg.DatabaseDriver)
			return nil
		},
	}
}
