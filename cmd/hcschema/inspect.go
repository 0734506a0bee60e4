package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"liyu1981.xyz/home-controller-schema/pkg/schema"
)

func newStatusCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which controller tables and migrations are present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.admin.Schema.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tPRESENT\tROWS")
			for _, t := range status.Report.Tables {
				fmt.Fprintf(w, "%s\t%t\t%d\n", t.Name, t.Present, t.Rows)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "MIGRATION\tNAME\tAPPLIED")
			for _, m := range status.Migrations {
				applied := "-"
				if m.Applied() {
					applied = m.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", m.Version, m.Name, applied)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\ncomplete: %t\n", status.Complete)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the status as JSON")
	return cmd
}

// writeOutput writes content to path through fs, or to the command's
// stdout when path is empty.
func (a *app) writeOutput(cmd *cobra.Command, path string, content []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}
	return afero.WriteFile(a.fs, path, content, 0o644)
}

// noTables reports an empty source on stderr; it is not a failure.
func noTables(cmd *cobra.Command, what string) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "no tables found in %s\n", what)
	return nil
}

func newDumpCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the stored CREATE TABLE statements of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := a.db.SqlDB()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := schema.Dump(cmd.Context(), sqlDB, &buf); err != nil {
				if errors.Is(err, schema.ErrNoTables) {
					return noTables(cmd, "database")
				}
				return err
			}
			return a.writeOutput(cmd, outPath, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Write one up.sql/down.sql migration directory per table of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := a.db.SqlDB()
			if err != nil {
				return err
			}

			written, err := schema.Split(cmd.Context(), sqlDB, a.fs, dir)
			if err != nil {
				if errors.Is(err, schema.ErrNoTables) {
					return noTables(cmd, "database")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d migration directories under %s\n", len(written), dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "sql", "root directory for the migration directories")
	return cmd
}

func newHCLCmd(a *app) *cobra.Command {
	var (
		outPath    string
		schemaName string
	)

	cmd := &cobra.Command{
		Use:   "hcl",
		Short: "Export the database schema as Atlas HCL",
		Long: `hcl writes every user table as an Atlas HCL table block. Columns named id
become autoincrement primary keys, columns named enable become booleans
defaulting to true, and time-typed columns become varchar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := a.db.SqlDB()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := schema.HCL(cmd.Context(), sqlDB, &buf, schemaName); err != nil {
				if errors.Is(err, schema.ErrNoTables) {
					return noTables(cmd, "database")
				}
				return err
			}
			return a.writeOutput(cmd, outPath, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&schemaName, "schema", "s", schema.DefaultHCLSchema, "schema block name")
	return cmd
}

func newHCLToDDLCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:         "hcl-to-ddl <file.hcl>",
		Short:       "Convert an Atlas HCL schema file to CREATE TABLE statements",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationNoDB: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := afero.ReadFile(a.fs, args[0])
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := schema.DDLFromHCL(src, args[0], &buf); err != nil {
				if errors.Is(err, schema.ErrNoTables) {
					return noTables(cmd, args[0])
				}
				return err
			}
			return a.writeOutput(cmd, outPath, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}
