package migrate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/cmd/cmdutil"
	"github.com/mpapenbr/bikechallenge/pkg/config"
	"github.com/mpapenbr/bikechallenge/pkg/db/migrate"
)

var statusOnly bool

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdutil.SetupLogger()
			if statusOnly {
				return printStatus(cmd)
			}
			return startMigration(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false,
		"prints the schema version without migrating")
	return cmd
}

func startMigration(ctx context.Context) error {
	if err := cmdutil.WaitForDB(ctx); err != nil {
		log.Error("database not ready", log.ErrorField(err))
		return err
	}
	if err := migrate.MigrateDb(config.DB); err != nil {
		return err
	}
	version, _, _, err := migrate.Version(config.DB)
	if err != nil {
		return err
	}
	log.Info("database is up to date", log.Uint("version", version))
	return nil
}

func printStatus(cmd *cobra.Command) error {
	if err := cmdutil.WaitForDB(cmd.Context()); err != nil {
		return err
	}
	version, dirty, ok, err := migrate.Version(config.DB)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(w, "no migration applied")
		return nil
	}
	fmt.Fprintf(w, "schema version %d", version)
	if dirty {
		fmt.Fprint(w, " (dirty)")
	}
	fmt.Fprintln(w)
	return nil
}
