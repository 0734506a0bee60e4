package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"liyu1981.xyz/home-controller-schema/pkg/schema"
)

func newApplyCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the controller tables",
		Long: `Apply runs every pending migration and records it in schema_migrations.
With --raw the tables are created directly, without bookkeeping; this fails
if any of them already exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if raw {
				sqlDB, err := a.db.SqlDB()
				if err != nil {
					return err
				}
				if err := schema.Apply(ctx, sqlDB); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d tables\n", len(schema.TableNames()))
				return nil
			}

			applied, err := a.admin.Schema.Up(ctx)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied migration %d\n", v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "create tables without recording a migration")
	return cmd
}

func newRevertCmd(a *app) *cobra.Command {
	var (
		raw   bool
		steps int
	)

	cmd := &cobra.Command{
		Use:   "revert",
		Short: "Drop the controller tables",
		Long: `Revert rolls back the latest applied migrations (all of them when --steps
is 0). With --raw the controller tables are dropped directly, whatever the
bookkeeping says; missing tables are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if raw {
				sqlDB, err := a.db.SqlDB()
				if err != nil {
					return err
				}
				if err := schema.Revert(ctx, sqlDB); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "dropped controller tables")
				return nil
			}

			reverted, err := a.admin.Schema.Down(ctx, steps)
			if err != nil {
				return err
			}
			if len(reverted) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to revert")
				return nil
			}
			for _, v := range reverted {
				fmt.Fprintf(cmd.OutOrStdout(), "reverted migration %d\n", v)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "drop tables without touching migration records")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to revert, 0 for all")
	return cmd
}
