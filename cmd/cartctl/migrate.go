package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/ghuser/gamercart/migrations/storefront"
	"github.com/ghuser/gamercart/pkg/migrator"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}

	newMigrator := func() (*migrator.Migrator, error) {
		return migrator.New(e.db.DB(), storefront.FS)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				results, err := m.Up(cmd.Context())
				renderResults(cmd.OutOrStdout(), results)
				return err
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				result, err := m.Down(cmd.Context())
				if result != nil {
					renderResults(cmd.OutOrStdout(), []*goose.MigrationResult{result})
				}
				return err
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := newMigrator()
				if err != nil {
					return err
				}
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				renderStatus(cmd.OutOrStdout(), statuses)
				return nil
			},
		},
	)
	return cmd
}

func renderResults(w io.Writer, results []*goose.MigrationResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no migrations to apply")
		return
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Version", "File", "Direction", "Duration", "Result"})
	for _, r := range results {
		outcome := "ok"
		if r.Error != nil {
			outcome = r.Error.Error()
		}
		var (
			version int64
			path    string
		)
		if r.Source != nil {
			version, path = r.Source.Version, r.Source.Path
		}
		t.AppendRow(table.Row{version, path, r.Direction, r.Duration.Round(time.Millisecond), outcome})
	}
	t.Render()
}

func renderStatus(w io.Writer, statuses []*goose.MigrationStatus) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Version", "File", "State", "Applied at"})
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		var (
			version int64
			path    string
		)
		if s.Source != nil {
			version, path = s.Source.Version, s.Source.Path
		}
		t.AppendRow(table.Row{version, path, string(s.State), applied})
	}
	t.Render()
}
