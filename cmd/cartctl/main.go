// Command cartctl is the operator CLI of the storefront: schema migrations,
// catalog and order listings and a connectivity check.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghuser/gamercart/pkg/config"
	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/logger"
)

// env is what every subcommand needs. It is filled by the root command's
// PersistentPreRunE.
type env struct {
	cfg *config.Config
	log logger.Logger
	db  *database.Database
}

func (e *env) close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}

func main() {
	e := &env{}
	defer e.close()

	if err := newRootCmd(e).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		e.close()
		os.Exit(1) //nolint:gocritic
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "cartctl",
		Short:         "Operate the Carrito Gamer storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logger.NewWithWriter(os.Stderr, cfg.LogLevel)
			e.db, err = database.NewPool(cmd.Context(), cfg, e.log)
			return err
		},
	}
	root.AddCommand(
		newMigrateCmd(e),
		newProductsCmd(e),
		newOrdersCmd(e),
		newHealthCmd(e),
	)
	root.SetContext(context.Background())
	return root
}
